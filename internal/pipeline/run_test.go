package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratss10/google-form-autofiller/internal/extract"
	"github.com/pratss10/google-form-autofiller/internal/fetch"
	"github.com/pratss10/google-form-autofiller/internal/formurl"
	"github.com/pratss10/google-form-autofiller/internal/resolve"
)

// formLiteral holds an email-confirmation question, a rating question, and a
// free-text question.
const formLiteral = `[null,["Description",[
	[null,"What's your email?",null,3,[[123,[["Use other@x.com"],["I confirm my email is user@x.com"],["No"]]]]],
	[null,"Rating of the event",null,2,[[456,[["1"],["2"],["3"]]]]],
	[null,"Tell us about yourself",null,1,[[789]]]
]]]`

const profileText = "Name: Alice\nEmail: user@x.com\noptimist: true\nBio: engineer"

type scriptedProvider struct {
	answer string
	err    error
	calls  int
}

func (p *scriptedProvider) Answer(_ context.Context, _ string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}

type stubStore struct{ text string }

func (s *stubStore) Read() string { return s.text }

// formServer serves a Google-Form-shaped page embedding literal.
func formServer(t *testing.T, literal string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><script type="text/javascript">var FB_PUBLIC_LOAD_DATA_ = %s;</script></body></html>`, literal)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun_FullPipeline(t *testing.T) {
	server := formServer(t, formLiteral)
	formURL := server.URL + "/forms/d/e/ABC123/viewform"

	var out bytes.Buffer
	provider := &scriptedProvider{answer: "A short bio"}

	result, err := Run(context.Background(), RunOptions{
		FormURL:  formURL,
		Store:    &stubStore{text: profileText},
		Provider: provider,
		Out:      &out,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"123", "456", "789"}, result.Bank.IDs())

	email, _ := result.Answers.Get("123")
	assert.Equal(t, "I confirm my email is user@x.com", email, "tier 1 email auto-select")

	rating, _ := result.Answers.Get("456")
	assert.Equal(t, "3", rating, "tier 2 optimist override")

	bio, _ := result.Answers.Get("789")
	assert.Equal(t, "A short bio", bio, "tier 3 provider fallback")
	assert.Equal(t, 1, provider.calls, "only the free-text question reaches the provider")

	assert.True(t, strings.HasPrefix(result.PrefilledURL,
		"https://docs.google.com/forms/d/e/ABC123/viewform?usp=pp_url"))
	assert.Contains(t, result.PrefilledURL, "entry.456=3")
	assert.Contains(t, result.PrefilledURL, "entry.789=A+short+bio")
}

func TestRun_ProgressEvents(t *testing.T) {
	server := formServer(t, formLiteral)

	var steps []string
	_, err := Run(context.Background(), RunOptions{
		FormURL:  server.URL + "/forms/d/e/ABC123/viewform",
		Store:    &stubStore{text: profileText},
		Provider: &scriptedProvider{answer: "x"},
		Out:      &bytes.Buffer{},
		OnProgress: func(e ProgressEvent) {
			steps = append(steps, e.Step)
			assert.NotEmpty(t, e.RunID)
		},
	})
	require.NoError(t, err)

	assert.Contains(t, steps, StepExtract)
	assert.Contains(t, steps, StepDecode)
	assert.Contains(t, steps, StepResolve)
	assert.Contains(t, steps, StepEncode)
}

func TestRun_BlobNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>Not a form</body></html>"))
	}))
	defer server.Close()

	_, err := Run(context.Background(), RunOptions{
		FormURL:  server.URL + "/forms/d/e/ABC123/viewform",
		Store:    &stubStore{text: "x"},
		Provider: &scriptedProvider{},
		Out:      &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, extract.ErrBlobNotFound)
}

func TestRun_ParseFailure(t *testing.T) {
	server := formServer(t, `[1,,2]`)

	_, err := Run(context.Background(), RunOptions{
		FormURL:  server.URL + "/forms/d/e/ABC123/viewform",
		Store:    &stubStore{text: "x"},
		Provider: &scriptedProvider{},
		Out:      &bytes.Buffer{},
	})
	require.Error(t, err)

	var parseErr *extract.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestRun_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Run(context.Background(), RunOptions{
		FormURL:  server.URL + "/forms/d/e/ABC123/viewform",
		Store:    &stubStore{text: "x"},
		Provider: &scriptedProvider{},
		Out:      &bytes.Buffer{},
	})
	require.Error(t, err)

	var fetchErr *fetch.Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestRun_EncodeFailure(t *testing.T) {
	// The page embeds a valid form but the URL carries no form identifier.
	server := formServer(t, formLiteral)

	_, err := Run(context.Background(), RunOptions{
		FormURL:  server.URL + "/not-a-form-path",
		Store:    &stubStore{text: profileText},
		Provider: &scriptedProvider{answer: "x"},
		Out:      &bytes.Buffer{},
	})
	require.Error(t, err)

	var encodeErr *formurl.EncodeError
	assert.ErrorAs(t, err, &encodeErr)
}

func TestRun_ProviderFailureDegradesSingleAnswers(t *testing.T) {
	server := formServer(t, formLiteral)

	result, err := Run(context.Background(), RunOptions{
		FormURL:  server.URL + "/forms/d/e/ABC123/viewform",
		Store:    &stubStore{text: profileText},
		Provider: &scriptedProvider{err: errors.New("model down")},
		Out:      &bytes.Buffer{},
	})
	require.NoError(t, err, "provider failure must not abort the run")

	bio, _ := result.Answers.Get("789")
	assert.Equal(t, resolve.NoAnswerSentinel, bio)

	email, _ := result.Answers.Get("123")
	assert.Equal(t, "I confirm my email is user@x.com", email, "other tiers unaffected")
}

func TestRun_InteractiveProviderWhenNoAPIKey(t *testing.T) {
	server := formServer(t, `[null,[null,[[null,"One question",null,1,[[11]]]]]]`)

	var out bytes.Buffer
	result, err := Run(context.Background(), RunOptions{
		FormURL: server.URL + "/forms/d/e/ABC123/viewform",
		Store:   &stubStore{text: "no profile"},
		In:      strings.NewReader("typed answer\n"),
		Out:     &out,
	})
	require.NoError(t, err)

	answer, _ := result.Answers.Get("11")
	assert.Equal(t, "typed answer", answer)
	assert.Contains(t, out.String(), "answers will be collected interactively")
}

func TestRun_SkipsMalformedEntries(t *testing.T) {
	literal := `[null,[null,[
		"garbage",
		[null,"Valid",null,1,[[42]]]
	]]]`
	server := formServer(t, literal)

	var out bytes.Buffer
	result, err := Run(context.Background(), RunOptions{
		FormURL:  server.URL + "/forms/d/e/ABC123/viewform",
		Store:    &stubStore{text: "x"},
		Provider: &scriptedProvider{answer: "ok"},
		Out:      &out,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, result.Bank.IDs())
	assert.Len(t, result.Diagnostics, 1)
	assert.Contains(t, out.String(), "Warning: form schema: entry 0")
}
