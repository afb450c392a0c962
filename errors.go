package pdfgenerator

import (
	"errors"
	"fmt"
)

// Sentinel errors for invalid jobs.
var (
	ErrArgument     = errors.New("pdfgen: invalid argument")
	ErrOutputExists = errors.New("pdfgen: output file already exists")
)

// Error reports the step of a run that failed.
type Error struct {
	Op  string // step name, e.g. "validate", "load template"
	Err error  // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdfgen: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pdfgen: %s: unknown error", e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}
