package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pratss10/google-form-autofiller/internal/extract"
	"github.com/pratss10/google-form-autofiller/internal/fetch"
	"github.com/pratss10/google-form-autofiller/internal/form"
	"github.com/pratss10/google-form-autofiller/internal/observability"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Decode a form's questions without resolving answers",
	Long:  "Fetch a public Google Form and print its decoded question schema. Needs no API key; useful for checking what a fill run would answer.",
	RunE:  runInspect,
}

var (
	inspectURL        string
	inspectUseBrowser bool
	inspectStrict     bool
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectURL, "url", "u", "", "Google Form URL (required)")
	inspectCmd.Flags().BoolVar(&inspectUseBrowser, "use-browser", false, "Fall back to a headless browser when form data is missing from static HTML")
	inspectCmd.Flags().BoolVar(&inspectStrict, "strict", false, "Fail on the first malformed question entry instead of skipping it")
	_ = inspectCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	result, err := fetch.URL(ctx, inspectURL, nil)
	var html string
	if err != nil {
		if !inspectUseBrowser {
			return describeRunError(err)
		}
		html, err = fetch.BrowserSimple(ctx, inspectURL, false)
		if err != nil {
			return err
		}
	} else {
		html = result.HTML
	}

	blob, ok := extract.Locate(html)
	if !ok && inspectUseBrowser {
		html, err = fetch.BrowserSimple(ctx, inspectURL, false)
		if err != nil {
			return err
		}
		blob, ok = extract.Locate(html)
	}
	if !ok {
		return describeRunError(extract.ErrBlobNotFound)
	}

	root, err := extract.Parse(blob)
	if err != nil {
		return describeRunError(err)
	}

	policy := form.SkipInvalid
	if inspectStrict {
		policy = form.AbortOnInvalid
	}
	bank, diags, err := form.Decode(root, form.DecodeOptions{OnInvalid: policy})
	if err != nil {
		return fmt.Errorf("decoding form schema: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintDiagnostics(diags)
	if bank.Len() == 0 {
		fmt.Println("No questions found in this form.")
		return nil
	}
	printer.PrintQuestionBank(bank)
	return nil
}
