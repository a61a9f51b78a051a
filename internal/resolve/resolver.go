// Package resolve turns a decoded question bank into answers through a
// layered strategy: deterministic email matching, a heuristic override, and a
// pluggable generation fallback.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pratss10/google-form-autofiller/internal/form"
	"github.com/pratss10/google-form-autofiller/internal/profile"
	"github.com/pratss10/google-form-autofiller/internal/prompts"
)

// NoAnswerSentinel marks a free-text question whose provider call failed.
// It is distinguishable from a legitimately empty answer so callers can
// flag it before submitting.
const NoAnswerSentinel = "Error: No AI answer"

// DefaultCallTimeout bounds a single provider call. A timed-out call is
// treated exactly like a failed one.
const DefaultCallTimeout = 60 * time.Second

// emailConfirmKeywords are the phrases that mark an option as an email
// confirmation choice. An option must contain "email" plus one of these for
// the auto-select tier to consider it.
var emailConfirmKeywords = []string{
	"use", "confirm", "record", "include", "verify", "yes, this is", "select this email",
}

// Resolver resolves answers for a question bank. Questions are processed one
// at a time in bank order; a provider failure degrades the single question
// being resolved and never aborts the run.
type Resolver struct {
	provider    AnswerProvider
	callTimeout time.Duration
	verbose     bool
	out         io.Writer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCallTimeout overrides the per-call provider timeout. Zero or negative
// disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.callTimeout = d }
}

// WithVerbose enables per-question diagnostics on out.
func WithVerbose(out io.Writer) Option {
	return func(r *Resolver) { r.verbose = true; r.out = out }
}

// NewResolver creates a resolver backed by the given provider. The provider
// may be generative or interactive; the tier logic does not care which.
func NewResolver(provider AnswerProvider, opts ...Option) *Resolver {
	r := &Resolver{
		provider:    provider,
		callTimeout: DefaultCallTimeout,
		out:         io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces an answer per question, first matching tier wins:
//
//  1. email auto-select for choice questions when the profile has a primary
//     email and an option confirms it
//  2. optimist override for choice questions mentioning "rating"
//  3. the provider fallback, prompted with the profile text
//
// Derived facts are computed by the caller once per run and are read-only
// here.
func (r *Resolver) Resolve(ctx context.Context, bank *form.QuestionBank, facts profile.Facts, profileText string) *AnswerSet {
	answers := NewAnswerSet()

	for _, q := range bank.Questions() {
		isChoice := q.Type.IsChoice() && len(q.Options) > 0

		if isChoice && facts.PrimaryEmail != "" {
			if opt, ok := selectEmailOption(q.Options, facts.PrimaryEmail); ok {
				r.logf("auto-selected email option for %q: %s", q.Text, opt)
				answers.Set(q.ID, opt)
				continue
			}
		}

		if isChoice && facts.Optimist && strings.Contains(strings.ToLower(q.Text), "rating") {
			last := q.Options[len(q.Options)-1]
			r.logf("optimist override for %q: %s", q.Text, last)
			answers.Set(q.ID, last)
			continue
		}

		answers.Set(q.ID, r.askProvider(ctx, q, isChoice, profileText))
	}

	return answers
}

// selectEmailOption scans options in order for an email confirmation choice
// whose embedded address equals primaryEmail, ignoring case. The first
// qualifying option wins.
func selectEmailOption(options []string, primaryEmail string) (string, bool) {
	for _, opt := range options {
		lower := strings.ToLower(opt)
		if !strings.Contains(lower, "email") {
			continue
		}
		keywordHit := false
		for _, kw := range emailConfirmKeywords {
			if strings.Contains(lower, kw) {
				keywordHit = true
				break
			}
		}
		if !keywordHit {
			continue
		}
		if embedded := profile.FindEmail(opt); embedded != "" && strings.EqualFold(embedded, primaryEmail) {
			return opt, true
		}
	}
	return "", false
}

// askProvider runs the tier-3 fallback for one question.
func (r *Resolver) askProvider(ctx context.Context, q form.Question, isChoice bool, profileText string) string {
	prompt := BuildPrompt(q, profileText)

	callCtx := ctx
	if r.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.callTimeout)
		defer cancel()
	}

	raw, err := r.provider.Answer(callCtx, prompt)
	if err != nil {
		r.logf("provider failed for %q: %v", q.Text, err)
		if isChoice {
			return q.Options[0]
		}
		return NoAnswerSentinel
	}

	answer := CleanCompletion(raw)
	if isChoice {
		answer = matchOption(answer, q.Options)
	}
	r.logf("answered %q: %s", q.Text, answer)
	return answer
}

// BuildPrompt constructs the deterministic provider prompt for a question:
// the full profile text verbatim, the question text, and for choice questions
// the serialized option list with the exact-option instruction.
func BuildPrompt(q form.Question, profileText string) string {
	template := prompts.MustGet("answers.json", "answer-question")
	prompt := prompts.Format(template, map[string]string{
		"Profile":  profileText,
		"Question": q.Text,
	})
	if q.Type.IsChoice() && len(q.Options) > 0 {
		serialized, _ := json.Marshal(q.Options)
		suffix := prompts.MustGet("answers.json", "answer-question-options")
		prompt += prompts.Format(suffix, map[string]string{
			"Options": string(serialized),
		})
	}
	return prompt
}

// CleanCompletion normalizes a raw completion: first line only, a leading
// "Answer:" label and quote characters stripped, surrounding whitespace
// trimmed.
func CleanCompletion(raw string) string {
	answer := strings.TrimSpace(raw)
	if idx := strings.Index(answer, "\n"); idx >= 0 {
		answer = answer[:idx]
	}
	answer = strings.ReplaceAll(answer, "Answer:", "")
	answer = strings.ReplaceAll(answer, `"`, "")
	return strings.TrimSpace(answer)
}

// matchOption maps a cleaned completion onto the option list: exact
// case-insensitive equality first, then case-insensitive substring containment
// in either direction, then the first option as the guaranteed default.
func matchOption(answer string, options []string) string {
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), answer) {
			return opt
		}
	}
	lowerAnswer := strings.ToLower(answer)
	for _, opt := range options {
		lowerOpt := strings.ToLower(strings.TrimSpace(opt))
		if strings.Contains(lowerAnswer, lowerOpt) || strings.Contains(lowerOpt, lowerAnswer) {
			return opt
		}
	}
	return options[0]
}

func (r *Resolver) logf(format string, args ...any) {
	if r.verbose {
		fmt.Fprintf(r.out, "[resolve] "+format+"\n", args...)
	}
}
