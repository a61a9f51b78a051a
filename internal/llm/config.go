package llm

// DefaultModel is the Gemini model used when no override is configured.
// Flash is sufficient for single-question answers and keeps per-run cost low.
const DefaultModel = "gemini-2.0-flash"

// DefaultTemperature keeps completions consistent across runs. Form answers
// should be deterministic, not creative.
const DefaultTemperature float32 = 0.1

// Config holds the generation settings for a client.
type Config struct {
	Model       string
	Temperature float32
}

// DefaultConfig returns the default generation settings.
func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	}
}

// WithModel returns a copy of the config using the given model. An empty
// model name leaves the config unchanged.
func (c *Config) WithModel(model string) *Config {
	if model == "" {
		return c
	}
	return &Config{Model: model, Temperature: c.Temperature}
}
