package extract

import (
	"errors"
	"fmt"
)

// ErrBlobNotFound reports that the page carries no form data literal. Callers
// treat it as "wrong input", distinct from a malformed literal.
var ErrBlobNotFound = errors.New("FB_PUBLIC_LOAD_DATA_ not found in page source")

// ParseError reports that the data literal could not be parsed even after
// repair and the fallback parse of the original text.
type ParseError struct {
	// Context holds a bounded prefix of the failing text for diagnostics.
	Context string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing form data failed: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
