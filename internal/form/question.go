// Package form provides the normalized question model and the decoder that
// builds it from the position-coded structure embedded in a Google Form page.
package form

import "fmt"

// QuestionType is the numeric type code a form assigns to each question.
type QuestionType int

// Type codes carried by the form data. Codes outside this set are kept as-is
// and treated as unsupported: the question passes through with no options.
const (
	TypeParagraph      QuestionType = 1
	TypeMultipleChoice QuestionType = 2
	TypeDropdown       QuestionType = 3
	TypeCheckboxes     QuestionType = 4
)

// IsChoice reports whether answers must come from a fixed option list.
func (t QuestionType) IsChoice() bool {
	return t == TypeMultipleChoice || t == TypeDropdown || t == TypeCheckboxes
}

func (t QuestionType) String() string {
	switch t {
	case TypeParagraph:
		return "paragraph"
	case TypeMultipleChoice:
		return "multiple-choice"
	case TypeDropdown:
		return "dropdown"
	case TypeCheckboxes:
		return "checkboxes"
	default:
		return fmt.Sprintf("unsupported(%d)", int(t))
	}
}

// Question is one answerable form entry.
type Question struct {
	// ID is the entry identifier used in prefill URLs. Never empty.
	ID string `json:"id"`
	// Text is the question prompt shown to respondents.
	Text string `json:"text"`
	// Type is the raw numeric type code.
	Type QuestionType `json:"type"`
	// Options holds the choice labels in source order. Empty for free-text
	// and unsupported questions.
	Options []string `json:"options,omitempty"`
}

// QuestionBank is an ordered collection of questions keyed by ID. Iteration
// order is insertion order, which equals source order after decoding.
type QuestionBank struct {
	ids  []string
	byID map[string]Question
}

// NewQuestionBank returns an empty bank.
func NewQuestionBank() *QuestionBank {
	return &QuestionBank{byID: make(map[string]Question)}
}

// Add appends a question. A duplicate ID is rejected so the first entry wins;
// the decoder surfaces the rejection as a diagnostic.
func (b *QuestionBank) Add(q Question) error {
	if q.ID == "" {
		return fmt.Errorf("question has empty id")
	}
	if _, exists := b.byID[q.ID]; exists {
		return fmt.Errorf("duplicate question id %q", q.ID)
	}
	b.ids = append(b.ids, q.ID)
	b.byID[q.ID] = q
	return nil
}

// Get returns the question with the given ID.
func (b *QuestionBank) Get(id string) (Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// IDs returns the question IDs in insertion order.
func (b *QuestionBank) IDs() []string {
	out := make([]string, len(b.ids))
	copy(out, b.ids)
	return out
}

// Questions returns all questions in insertion order.
func (b *QuestionBank) Questions() []Question {
	out := make([]Question, 0, len(b.ids))
	for _, id := range b.ids {
		out = append(out, b.byID[id])
	}
	return out
}

// Len returns the number of questions in the bank.
func (b *QuestionBank) Len() int {
	return len(b.ids)
}
