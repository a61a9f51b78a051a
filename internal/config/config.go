// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags.
type Config struct {
	// FormURL is the Google Form to fill.
	FormURL string `json:"form_url,omitempty" validate:"omitempty,url"`
	// Profile is the path to the user profile text file.
	Profile string `json:"profile,omitempty"`
	// APIKey is the Gemini API key. Without one, answers come from the
	// interactive provider.
	APIKey string `json:"api_key,omitempty"`
	// Model overrides the default Gemini model.
	Model string `json:"model,omitempty"`
	// Out is the path the resolved-answers artifact is written to.
	Out string `json:"out,omitempty"`

	// UseBrowser enables the headless-browser fetch fallback.
	UseBrowser bool `json:"use_browser,omitempty"`
	// Interactive forces the interactive provider even when an API key is set.
	Interactive bool `json:"interactive,omitempty"`
	// Verbose prints detailed diagnostics.
	Verbose bool `json:"verbose,omitempty"`
	// TimeoutSeconds bounds a single provider call.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" validate:"omitempty,min=1,max=600"`
}

// LoadConfig loads configuration from a JSON file. Returns an error if the
// file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are checked by CLI flag validation after merging, not here.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Config file values act as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.FormURL == "" {
		result.FormURL = defaults.FormURL
	}
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
