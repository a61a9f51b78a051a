package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pratss10/google-form-autofiller/internal/config"
	"github.com/pratss10/google-form-autofiller/internal/extract"
	"github.com/pratss10/google-form-autofiller/internal/formurl"
	"github.com/pratss10/google-form-autofiller/internal/pipeline"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Resolve answers for a form and print the prefilled URL",
	Long:  "Fetch a public Google Form, resolve an answer for every question, and print a prefilled URL. Answers come from email auto-selection, profile heuristics, and a Gemini fallback (or interactive input when no API key is configured).",
	RunE:  runFill,
}

var (
	fillURL         string
	fillProfile     string
	fillAPIKey      string
	fillModel       string
	fillOut         string
	fillConfigPath  string
	fillInteractive bool
	fillUseBrowser  bool
	fillOpen        bool
	fillVerbose     bool
	fillTimeoutSecs int
)

func init() {
	fillCmd.Flags().StringVarP(&fillURL, "url", "u", "", "Google Form URL (required)")
	fillCmd.Flags().StringVarP(&fillProfile, "profile", "p", "", "Path to user profile text file (default userdata.txt)")
	fillCmd.Flags().StringVar(&fillAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	fillCmd.Flags().StringVar(&fillModel, "model", "", "Gemini model override")
	fillCmd.Flags().StringVarP(&fillOut, "out", "o", "", "Write resolved answers as a JSON artifact to this path")
	fillCmd.Flags().StringVarP(&fillConfigPath, "config", "c", "", "Path to JSON config file")
	fillCmd.Flags().BoolVar(&fillInteractive, "interactive", false, "Answer the fallback tier interactively instead of via Gemini")
	fillCmd.Flags().BoolVar(&fillUseBrowser, "use-browser", false, "Fall back to a headless browser when form data is missing from static HTML")
	fillCmd.Flags().BoolVar(&fillOpen, "open", false, "Open the prefilled URL in the default browser")
	fillCmd.Flags().BoolVarP(&fillVerbose, "verbose", "v", false, "Print detailed diagnostics")
	fillCmd.Flags().IntVar(&fillTimeoutSecs, "timeout", 0, "Per-answer provider timeout in seconds")

	rootCmd.AddCommand(fillCmd)
}

func runFill(_ *cobra.Command, _ []string) error {
	cfg := config.Config{
		FormURL:        fillURL,
		Profile:        fillProfile,
		APIKey:         fillAPIKey,
		Model:          fillModel,
		Out:            fillOut,
		Interactive:    fillInteractive,
		UseBrowser:     fillUseBrowser,
		Verbose:        fillVerbose,
		TimeoutSeconds: fillTimeoutSecs,
	}

	if fillConfigPath != "" {
		fileCfg, err := config.LoadConfig(fillConfigPath)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		cfg.Interactive = cfg.Interactive || fileCfg.Interactive
		cfg.UseBrowser = cfg.UseBrowser || fileCfg.UseBrowser
		cfg.Verbose = cfg.Verbose || fileCfg.Verbose
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.FormURL == "" {
		return fmt.Errorf("form URL is required (use --url or a config file)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		FormURL:     cfg.FormURL,
		ProfilePath: cfg.Profile,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Interactive: cfg.Interactive,
		UseBrowser:  cfg.UseBrowser,
		Verbose:     cfg.Verbose,
		CallTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		In:          os.Stdin,
		Out:         os.Stdout,
	})
	if err != nil {
		return describeRunError(err)
	}

	if cfg.Out != "" {
		artifact := pipeline.BuildArtifact(cfg.FormURL, result)
		if err := pipeline.WriteArtifact(cfg.Out, artifact); err != nil {
			return err
		}
		fmt.Printf("Answers written to %s\n", cfg.Out)
	}

	fmt.Printf("\nPrefilled URL:\n%s\n", result.PrefilledURL)

	if fillOpen {
		if err := openBrowser(result.PrefilledURL); err != nil {
			fmt.Fprintf(os.Stderr, "Could not open browser: %v. Please copy the URL manually.\n", err)
		}
	}
	return nil
}

// describeRunError adds a hint for the failure kinds a user can act on.
func describeRunError(err error) error {
	var parseErr *extract.ParseError
	var encodeErr *formurl.EncodeError
	switch {
	case errors.Is(err, extract.ErrBlobNotFound):
		return fmt.Errorf("%w (is the URL a public Google Form?)", err)
	case errors.As(err, &parseErr):
		return fmt.Errorf("%w (the form's embedded data is malformed beyond repair)", err)
	case errors.As(err, &encodeErr):
		return fmt.Errorf("%w (expected a /forms/d/e/<id>/viewform URL)", err)
	default:
		return err
	}
}
