package form

import (
	"fmt"
	"strconv"
)

// The form data is position-coded: meaning is carried by array index, not by
// field name. The contract this decoder walks:
//
//	root[1]          form body
//	root[1][1]       question list
//	entry[1]         question text
//	entry[3]         type code
//	entry[4][0][0]   question id
//	entry[4][0][1]   option list; each option's element 0 is its label

// InvalidEntryPolicy selects what Decode does with a question entry that fails
// shape validation.
type InvalidEntryPolicy int

const (
	// SkipInvalid records a diagnostic for the entry and keeps decoding.
	SkipInvalid InvalidEntryPolicy = iota
	// AbortOnInvalid stops decoding at the first malformed entry.
	AbortOnInvalid
)

// DecodeOptions configures Decode.
type DecodeOptions struct {
	OnInvalid InvalidEntryPolicy
}

// Diagnostic describes a recoverable defect encountered while decoding.
type Diagnostic struct {
	// Index is the position of the entry in the source question list,
	// or -1 when the defect is not tied to a single entry.
	Index  int
	Reason string
}

func (d Diagnostic) String() string {
	if d.Index < 0 {
		return d.Reason
	}
	return fmt.Sprintf("entry %d: %s", d.Index, d.Reason)
}

// ShapeError reports that the structure does not match the positional
// contract at a level where decoding cannot continue.
type ShapeError struct {
	Path   string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected shape at %s: %s", e.Path, e.Reason)
}

// Decode walks the parsed structure and produces one Question per valid entry,
// in source order. Entries that fail validation are skipped with a diagnostic
// (or abort decoding, per opts). Entries with no extractable id are dropped:
// they cannot be addressed in a prefill URL. A degenerate document, where the
// form body or the question list is empty, null, or absent, yields an empty
// bank rather than an error; only a body or list of the wrong kind fails.
func Decode(root []any, opts DecodeOptions) (*QuestionBank, []Diagnostic, error) {
	bank := NewQuestionBank()
	var diags []Diagnostic

	if len(root) < 2 || root[1] == nil {
		diags = append(diags, Diagnostic{Index: -1, Reason: "form body is absent"})
		return bank, diags, nil
	}
	body, ok := root[1].([]any)
	if !ok {
		return nil, nil, &ShapeError{Path: "root[1]", Reason: "not a sequence"}
	}
	if len(body) < 2 || body[1] == nil {
		return bank, diags, nil
	}
	list, ok := body[1].([]any)
	if !ok {
		return nil, nil, &ShapeError{Path: "root[1][1]", Reason: "question list is not a sequence"}
	}

	for i, raw := range list {
		q, diag := decodeEntry(i, raw)
		if diag != nil {
			if opts.OnInvalid == AbortOnInvalid {
				return nil, diags, &ShapeError{
					Path:   fmt.Sprintf("root[1][1][%d]", i),
					Reason: diag.Reason,
				}
			}
			diags = append(diags, *diag)
			continue
		}
		if q == nil {
			// No extractable id; the entry cannot be targeted.
			continue
		}
		if err := bank.Add(*q); err != nil {
			diags = append(diags, Diagnostic{Index: i, Reason: err.Error()})
		}
	}
	return bank, diags, nil
}

// decodeEntry decodes a single question entry. It returns (nil, nil) for a
// structurally valid entry that carries no id, and a Diagnostic for a
// malformed one.
func decodeEntry(index int, raw any) (*Question, *Diagnostic) {
	entry, ok := raw.([]any)
	if !ok {
		return nil, &Diagnostic{Index: index, Reason: "entry is not a sequence"}
	}
	if len(entry) < 2 {
		return nil, &Diagnostic{Index: index, Reason: fmt.Sprintf("entry has %d elements, want at least 2", len(entry))}
	}

	text := "No question text"
	if entry[1] != nil {
		text = stringify(entry[1])
	}

	typeCode := 0
	if len(entry) > 3 {
		if n, ok := asInt(entry[3]); ok {
			typeCode = n
		}
	}

	q := Question{Text: text, Type: QuestionType(typeCode)}

	params, ok := paramsOf(entry)
	if !ok {
		return nil, nil
	}
	head, ok := params[0].([]any)
	if !ok || len(head) == 0 {
		return nil, nil
	}
	if head[0] == nil {
		return nil, nil
	}
	q.ID = stringify(head[0])

	if q.Type.IsChoice() && len(head) >= 2 {
		if rawOpts, ok := head[1].([]any); ok {
			for _, ro := range rawOpts {
				opt, ok := ro.([]any)
				if !ok || len(opt) == 0 || opt[0] == nil {
					continue
				}
				q.Options = append(q.Options, stringify(opt[0]))
			}
		}
	}
	return &q, nil
}

// paramsOf returns the parameter sequence at entry[4] when present and
// non-empty.
func paramsOf(entry []any) ([]any, bool) {
	if len(entry) < 5 {
		return nil, false
	}
	params, ok := entry[4].([]any)
	if !ok || len(params) == 0 {
		return nil, false
	}
	return params, true
}

// stringify renders a decoded JSON scalar the way it appears in the source.
// Question ids in particular arrive as numbers and must not grow a float
// suffix.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// asInt converts a decoded JSON value to an int when it is a whole number.
func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int(f), true
}
