// Package pipeline provides the high-level orchestration for one
// form-filling run: fetch, extract, decode, resolve, encode.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pratss10/google-form-autofiller/internal/extract"
	"github.com/pratss10/google-form-autofiller/internal/fetch"
	"github.com/pratss10/google-form-autofiller/internal/form"
	"github.com/pratss10/google-form-autofiller/internal/formurl"
	"github.com/pratss10/google-form-autofiller/internal/llm"
	"github.com/pratss10/google-form-autofiller/internal/observability"
	"github.com/pratss10/google-form-autofiller/internal/profile"
	"github.com/pratss10/google-form-autofiller/internal/resolve"
)

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// Step names reported through ProgressCallback.
const (
	StepFetch   = "fetch"
	StepProfile = "profile"
	StepExtract = "extract"
	StepDecode  = "decode"
	StepResolve = "resolve"
	StepEncode  = "encode"
)

// RunOptions holds configuration for running the pipeline.
type RunOptions struct {
	FormURL     string
	ProfilePath string
	APIKey      string
	Model       string

	// Interactive routes the resolver's fallback tier to a human instead of
	// the generative client. It is also the implicit mode when no API key is
	// configured.
	Interactive bool
	UseBrowser  bool
	Verbose     bool

	// CallTimeout bounds a single provider call. Zero uses the resolver
	// default.
	CallTimeout time.Duration

	// Store overrides the profile source. Nil uses a FileStore at
	// ProfilePath.
	Store profile.Store
	// Provider overrides the answer provider. Nil selects generative or
	// interactive from APIKey/Interactive.
	Provider resolve.AnswerProvider

	// In and Out carry interactive prompts and progress output. They default
	// to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer

	OnProgress ProgressCallback
}

// Result is the terminal artifact of a run plus the intermediate stages a
// caller may want to inspect or export.
type Result struct {
	RunID        uuid.UUID
	Bank         *form.QuestionBank
	Diagnostics  []form.Diagnostic
	Facts        profile.Facts
	Answers      *resolve.AnswerSet
	PrefilledURL string
}

// Run executes the full pipeline. Failures in fetch, extract, decode, or
// encode abort the run with a typed error the caller can branch on; a
// provider failure degrades only the question being resolved.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	runID := uuid.New()
	printer := observability.NewPrinter(opts.Out)

	// The document fetch and the profile read are independent; run them
	// concurrently.
	var html string
	var profileText string

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		step(opts, runID, StepFetch, "Fetching form page: %s", opts.FormURL)
		fetched, err := fetchDocument(gCtx, opts)
		if err != nil {
			return err
		}
		html = fetched
		return nil
	})
	g.Go(func() error {
		step(opts, runID, StepProfile, "Reading user profile")
		store := opts.Store
		if store == nil {
			store = profile.NewFileStore(opts.ProfilePath)
		}
		profileText = store.Read()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	facts := profile.Derive(profileText)
	if opts.Verbose {
		printer.PrintProfileFacts(facts)
	}

	step(opts, runID, StepExtract, "Locating embedded form data")
	blob, ok := extract.Locate(html)
	if !ok {
		return nil, extract.ErrBlobNotFound
	}
	root, err := extract.Parse(blob)
	if err != nil {
		return nil, err
	}

	step(opts, runID, StepDecode, "Decoding question schema")
	bank, diags, err := form.Decode(root, form.DecodeOptions{OnInvalid: form.SkipInvalid})
	if err != nil {
		return nil, fmt.Errorf("decoding form schema: %w", err)
	}
	for _, d := range diags {
		fmt.Fprintf(opts.Out, "Warning: form schema: %s\n", d)
	}
	if opts.Verbose {
		printer.PrintQuestionBank(bank)
	}
	if bank.Len() == 0 {
		fmt.Fprintf(opts.Out, "Warning: no questions were extracted; the form may be empty\n")
	}

	step(opts, runID, StepResolve, "Resolving answers for %d questions", bank.Len())
	provider, closeProvider, err := selectProvider(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer closeProvider()

	resolverOpts := []resolve.Option{}
	if opts.CallTimeout > 0 {
		resolverOpts = append(resolverOpts, resolve.WithCallTimeout(opts.CallTimeout))
	}
	if opts.Verbose {
		resolverOpts = append(resolverOpts, resolve.WithVerbose(opts.Out))
	}
	resolver := resolve.NewResolver(provider, resolverOpts...)
	answers := resolver.Resolve(ctx, bank, facts, profileText)
	if opts.Verbose {
		printer.PrintAnswers(bank, answers)
	}

	step(opts, runID, StepEncode, "Building prefilled URL")
	prefilled, err := formurl.Build(opts.FormURL, answers)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:        runID,
		Bank:         bank,
		Diagnostics:  diags,
		Facts:        facts,
		Answers:      answers,
		PrefilledURL: prefilled,
	}, nil
}

// fetchDocument fetches the page over HTTP, falling back to a headless
// browser when enabled and the static HTML carries no data marker.
func fetchDocument(ctx context.Context, opts RunOptions) (string, error) {
	result, err := fetch.URL(ctx, opts.FormURL, nil)
	if err != nil {
		if !opts.UseBrowser {
			return "", err
		}
		fmt.Fprintf(opts.Out, "Warning: HTTP fetch failed (%v), trying headless browser\n", err)
		return fetch.BrowserSimple(ctx, opts.FormURL, opts.Verbose)
	}

	if opts.UseBrowser {
		if _, ok := extract.Locate(result.HTML); !ok {
			fmt.Fprintf(opts.Out, "Form data not in static HTML, rendering with headless browser\n")
			return fetch.BrowserSimple(ctx, opts.FormURL, opts.Verbose)
		}
	}
	return result.HTML, nil
}

// selectProvider picks the answer provider for the run: an explicit override,
// interactive when requested or when no API key exists, otherwise the Gemini
// client.
func selectProvider(ctx context.Context, opts RunOptions) (resolve.AnswerProvider, func(), error) {
	noop := func() {}

	if opts.Provider != nil {
		return opts.Provider, noop, nil
	}
	if opts.Interactive || opts.APIKey == "" {
		if opts.APIKey == "" && !opts.Interactive {
			fmt.Fprintf(opts.Out, "No API key configured; answers will be collected interactively\n")
		}
		return resolve.NewInteractiveProvider(opts.In, opts.Out), noop, nil
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig().WithModel(opts.Model), opts.APIKey)
	if err != nil {
		return nil, noop, fmt.Errorf("creating LLM client: %w", err)
	}
	return resolve.NewGenerativeProvider(client), func() { _ = client.Close() }, nil
}

// step prints a progress line and emits a progress event.
func step(opts RunOptions, runID uuid.UUID, name, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(opts.Out, "[%s] %s\n", name, message)
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: name, Message: message, RunID: runID.String()})
	}
}
