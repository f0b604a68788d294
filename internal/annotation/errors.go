package annotation

import (
	"errors"
	"fmt"
)

// ErrMalformed indicates a comment line looks like a directive but its
// bracketed value or name could not be parsed.
var ErrMalformed = errors.New("malformed annotation")

// MalformedError records where a malformed directive was found.
type MalformedError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	return fmt.Sprintf("%s:%d: %s: %s: %q", loc, e.Line, ErrMalformed, e.Reason, e.Text)
}

// Unwrap returns ErrMalformed so callers can use errors.Is.
func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}
