// Package formurl builds prefilled Google Form URLs from resolved answers.
package formurl

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pratss10/google-form-autofiller/internal/resolve"
)

// EntryPrefix is prepended to a question id to name its query parameter.
const EntryPrefix = "entry."

// prefillParam selects the form's prefilled-URL mode.
const prefillParam = "usp=pp_url"

var formIDPattern = regexp.MustCompile(`/forms/d/e/([^/]+)/viewform`)

// EncodeError reports that no form identifier could be extracted from the
// base URL. The run cannot produce a prefill link without one.
type EncodeError struct {
	BaseURL string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("could not extract form ID from URL %q", e.BaseURL)
}

// Build encodes the answers as a prefilled-URL query against the form
// identified by baseURL. The usp parameter comes first, then one entry
// parameter per answer in answer-set order, values percent-encoded.
func Build(baseURL string, answers *resolve.AnswerSet) (string, error) {
	formID, err := ExtractFormID(baseURL)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "https://docs.google.com/forms/d/e/%s/viewform?%s", formID, prefillParam)
	for _, id := range answers.IDs() {
		value, _ := answers.Get(id)
		fmt.Fprintf(&b, "&%s%s=%s", EntryPrefix, url.QueryEscape(id), url.QueryEscape(value))
	}
	return b.String(), nil
}

// ExtractFormID pulls the form identifier out of a form URL. The primary
// strategy matches the segment after /d/e/; when that fails the path is split
// into segments and the segment two positions after "d" is taken, provided
// both "d" and "e" occur.
func ExtractFormID(baseURL string) (string, error) {
	if m := formIDPattern.FindStringSubmatch(baseURL); m != nil {
		return m[1], nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", &EncodeError{BaseURL: baseURL}
	}
	segments := strings.Split(parsed.Path, "/")
	dIndex := -1
	hasE := false
	for i, seg := range segments {
		if seg == "d" && dIndex < 0 {
			dIndex = i
		}
		if seg == "e" {
			hasE = true
		}
	}
	if dIndex >= 0 && hasE && dIndex+2 < len(segments) {
		if id := segments[dIndex+2]; id != "" {
			return id, nil
		}
	}
	return "", &EncodeError{BaseURL: baseURL}
}
