package template

import (
	"errors"
	"fmt"
)

// Sentinel errors for template authoring faults. All of them are fatal at
// load time.
var (
	ErrFormat             = errors.New("template: invalid format")
	ErrUnknownElementType = errors.New("template: unknown element type")
	ErrUnsupportedValue   = errors.New("template: unsupported value")
)

// FormatError reports an invalid construct in a template or page file.
type FormatError struct {
	File string // source file, empty when decoding from memory
	Err  error
}

func (e *FormatError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("template: %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("template: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is matches ErrFormat in addition to the wrapped chain.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
