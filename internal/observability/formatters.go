// Package observability provides formatted output utilities for verbose CLI
// mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/pratss10/google-form-autofiller/internal/form"
	"github.com/pratss10/google-form-autofiller/internal/profile"
	"github.com/pratss10/google-form-autofiller/internal/resolve"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxOptionsToShow is the number of options displayed per question
	maxOptionsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuestionBank outputs a human-readable summary of the decoded questions.
func (p *Printer) PrintQuestionBank(bank *form.QuestionBank) {
	if bank == nil || bank.Len() == 0 {
		return
	}

	var sb strings.Builder
	for _, q := range bank.Questions() {
		sb.WriteString(fmt.Sprintf("[%s] %s (%s)\n", q.ID, q.Text, q.Type))
		count := min(len(q.Options), maxOptionsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", q.Options[i]))
		}
		if len(q.Options) > maxOptionsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(q.Options)-maxOptionsToShow))
		}
	}

	p.printBox(fmt.Sprintf("DECODED QUESTIONS (%d)", bank.Len()), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfileFacts outputs the facts derived from the user profile.
func (p *Printer) PrintProfileFacts(facts profile.Facts) {
	var sb strings.Builder
	email := facts.PrimaryEmail
	if email == "" {
		email = "(none found)"
	}
	sb.WriteString(fmt.Sprintf("Primary email: %s\n", email))
	sb.WriteString(fmt.Sprintf("Optimist:      %t", facts.Optimist))

	p.printBox("PROFILE FACTS", sb.String())
}

// PrintAnswers outputs the resolved answers alongside their questions.
func (p *Printer) PrintAnswers(bank *form.QuestionBank, answers *resolve.AnswerSet) {
	if answers == nil || answers.Len() == 0 {
		return
	}

	var sb strings.Builder
	for _, id := range answers.IDs() {
		value, _ := answers.Get(id)
		text := "Unknown question"
		if q, ok := bank.Get(id); ok {
			text = q.Text
		}
		sb.WriteString(fmt.Sprintf("Q: %s\n", text))
		sb.WriteString(fmt.Sprintf("A: %s\n", value))
	}

	p.printBox(fmt.Sprintf("RESOLVED ANSWERS (%d)", answers.Len()), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiagnostics outputs decoder diagnostics.
func (p *Printer) PrintDiagnostics(diags []form.Diagnostic) {
	if len(diags) == 0 {
		return
	}

	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(fmt.Sprintf("• %s\n", d))
	}

	p.printBox(fmt.Sprintf("DECODER DIAGNOSTICS (%d)", len(diags)), strings.TrimSuffix(sb.String(), "\n"))
}
