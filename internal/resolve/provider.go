package resolve

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pratss10/google-form-autofiller/internal/llm"
)

// AnswerProvider produces an answer for a fully-built prompt. Generative and
// interactive implementations share this contract, so the resolver's fallback
// tier is provider-agnostic.
type AnswerProvider interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

// GenerativeProvider answers via an LLM client.
type GenerativeProvider struct {
	Client llm.Client
}

// NewGenerativeProvider wraps an LLM client as an AnswerProvider.
func NewGenerativeProvider(client llm.Client) *GenerativeProvider {
	return &GenerativeProvider{Client: client}
}

// Answer generates a completion for the prompt.
func (p *GenerativeProvider) Answer(ctx context.Context, prompt string) (string, error) {
	return p.Client.GenerateContent(ctx, prompt)
}

// InteractiveProvider answers by showing the prompt to a human and reading a
// line back. It blocks until input arrives or the reader is exhausted.
type InteractiveProvider struct {
	in  *bufio.Reader
	out io.Writer
}

// NewInteractiveProvider creates a provider reading answers from in and
// writing prompts to out.
func NewInteractiveProvider(in io.Reader, out io.Writer) *InteractiveProvider {
	return &InteractiveProvider{in: bufio.NewReader(in), out: out}
}

// Answer prints the prompt and reads one line of input.
func (p *InteractiveProvider) Answer(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "\n%s\nYour answer: ", strings.TrimSpace(prompt))
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading interactive answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
