// Package extract locates the embedded FB_PUBLIC_LOAD_DATA_ literal inside a
// fetched Google Form page and turns it into parseable JSON.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Marker introduces the assignment holding the form's public data literal.
const Marker = "var FB_PUBLIC_LOAD_DATA_ ="

// Locate scans the page for the data marker and captures the assigned literal.
// It first walks <script> elements so the scan starts from real script bodies;
// if the page does not parse as HTML it falls back to scanning the raw text.
// The second return is false when the marker is absent, which is a normal
// condition for non-form pages.
func Locate(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		var blob string
		var found bool
		doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if b, ok := locateInText(s.Text()); ok {
				blob, found = b, true
				return false
			}
			return true
		})
		if found {
			return blob, true
		}
	}
	return locateInText(html)
}

// locateInText captures the literal between the marker and its top-level
// terminator using a depth-counting scanner. Tracking bracket depth together
// with string and escape state means nested arrays and semicolons inside
// string literals cannot end the capture early.
func locateInText(text string) (string, bool) {
	start := strings.Index(text, Marker)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(Marker):]

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case ';':
			if depth == 0 {
				return strings.TrimSpace(rest[:i]), true
			}
		}
	}
	return "", false
}

// Repair normalizes the captured literal into valid JSON text. Two transforms
// are applied in order: raw newline and carriage-return characters not already
// escaped by a preceding backslash are escaped (unterminated-string errors),
// then trailing commas before a closing bracket or brace are removed. Both
// transforms are no-ops on already-valid compact JSON, so Repair is idempotent.
func Repair(blob string) string {
	return stripTrailingCommas(escapeBareLineBreaks(blob))
}

func escapeBareLineBreaks(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' || c == '\r' {
			if i > 0 && s[i-1] == '\\' {
				b.WriteByte(c)
				continue
			}
			b.WriteByte('\\')
			if c == '\n' {
				b.WriteByte('n')
			} else {
				b.WriteByte('r')
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// stripTrailingCommas removes commas that directly precede a closing bracket
// or brace. It tracks string state so comma-bracket pairs inside string values
// are left alone.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == ']' || s[j] == '}') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Parse attempts a strict JSON parse of the repaired blob. When repair itself
// introduced a defect the original text may still be valid, so a failed parse
// retries against the unrepaired blob before giving up.
func Parse(blob string) ([]any, error) {
	repaired := Repair(blob)

	var root []any
	if err := json.Unmarshal([]byte(repaired), &root); err == nil {
		return root, nil
	} else if repaired == blob {
		return nil, &ParseError{Context: truncate(repaired), Cause: err}
	}

	var rootOrig []any
	if err := json.Unmarshal([]byte(blob), &rootOrig); err != nil {
		return nil, &ParseError{Context: truncate(repaired), Cause: err}
	}
	return rootOrig, nil
}

// maxErrContext bounds how much of the failing text a ParseError carries.
const maxErrContext = 500

func truncate(s string) string {
	if len(s) <= maxErrContext {
		return s
	}
	return s[:maxErrContext] + "..."
}
