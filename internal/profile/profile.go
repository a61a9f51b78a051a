// Package profile reads the user's free-text profile and derives the facts
// the answer resolver consumes.
package profile

import (
	"os"
	"regexp"
	"strings"
)

// Placeholder is returned when no profile file exists. It keeps the resolver
// prompt well-formed instead of failing the run.
const Placeholder = "User data file not found or is empty."

// DefaultPath is the conventional profile file location.
const DefaultPath = "userdata.txt"

// Store supplies the raw profile text. Reading never fails; a missing profile
// yields Placeholder.
type Store interface {
	Read() string
}

// FileStore reads the profile from a text file on disk.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore for path, defaulting to DefaultPath.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{Path: path}
}

// Read returns the file's content, or Placeholder when it cannot be read.
func (s *FileStore) Read() string {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Placeholder
	}
	return string(data)
}

// Facts are the per-run derived profile facts. They are computed once and
// treated as immutable for the rest of the run.
type Facts struct {
	// PrimaryEmail is the user's primary email address, or "" when none was
	// found in the profile text.
	PrimaryEmail string
	// Optimist reports whether the profile declares "optimist: true".
	Optimist bool
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Derive extracts the resolver facts from the raw profile text.
func Derive(content string) Facts {
	return Facts{
		PrimaryEmail: primaryEmail(content),
		Optimist:     strings.Contains(strings.ToLower(content), "optimist: true"),
	}
}

// primaryEmail looks for an email on a line that declares one ("email -",
// "email:", or "primary email"), then falls back to the first email-shaped
// token anywhere in the text.
func primaryEmail(content string) string {
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "email -") || strings.HasPrefix(lower, "email:") || strings.Contains(lower, "primary email") {
			if m := emailPattern.FindString(line); m != "" {
				return strings.TrimSpace(m)
			}
		}
	}
	return strings.TrimSpace(emailPattern.FindString(content))
}

// FindEmail extracts the first email-shaped token from s, or "".
// The resolver uses it to compare option labels against the primary email.
func FindEmail(s string) string {
	return strings.TrimSpace(emailPattern.FindString(s))
}
