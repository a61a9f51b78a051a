package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_AnswerPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("answers.json", "answer-question")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Profile}}")
	assert.Contains(t, prompt, "{{.Question}}")
	assert.Contains(t, prompt, "MUST be one of the provided options")
}

func TestGet_OptionsSuffix(t *testing.T) {
	prompt, err := Get("answers.json", "answer-question-options")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Options}}")
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Get("answers.json", "no-such-prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-prompt")
}

func TestGet_MissingFile(t *testing.T) {
	_, err := Get("missing.json", "whatever")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("answers.json", "no-such-prompt")
	})
}

func TestFormat(t *testing.T) {
	result := Format("Hello {{.Name}}, answer {{.Question}}", map[string]string{
		"Name":     "Alice",
		"Question": "Q1",
	})
	assert.Equal(t, "Hello Alice, answer Q1", result)
}

func TestFormat_UnknownPlaceholderLeftIntact(t *testing.T) {
	result := Format("{{.Known}} and {{.Unknown}}", map[string]string{"Known": "v"})
	assert.Equal(t, "v and {{.Unknown}}", result)
}

func TestGet_CachesAcrossCalls(t *testing.T) {
	ClearCache()

	first, err := Get("answers.json", "answer-question")
	require.NoError(t, err)
	second, err := Get("answers.json", "answer-question")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
