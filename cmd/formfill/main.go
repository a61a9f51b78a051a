// Package main provides the formfill CLI, which fills public Google Forms
// from a user profile and produces a prefilled URL.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formfill",
	Short: "Autofill public Google Forms",
	Long:  "formfill fetches a public Google Form, decodes its question schema, resolves an answer for each question from a user profile (heuristics first, Gemini or interactive input as fallback), and prints a prefilled form URL.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
