package query

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by ResolveError and BindError through errors.Is.
var (
	ErrResolve = errors.New("query: path does not resolve")
	ErrBind    = errors.New("query: value does not bind to requested shape")
)

// ResolveError reports a path expression that could not be followed.
type ResolveError struct {
	Path    string // full path expression
	Segment string // segment that failed, empty when the expression is malformed
	Err     error
}

func (e *ResolveError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("query: resolving %q at %q: %v", e.Path, e.Segment, e.Err)
	}
	return fmt.Sprintf("query: resolving %q: %v", e.Path, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

func (e *ResolveError) Is(target error) bool { return target == ErrResolve }

// BindError reports a resolved node whose kind does not fit the requested shape.
type BindError struct {
	Path string
	Want string
	Got  Kind
	Err  error // optional detail
}

func (e *BindError) Error() string {
	msg := fmt.Sprintf("query: binding %q: want %s, got %s", e.Path, e.Want, e.Got)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BindError) Unwrap() error { return e.Err }

func (e *BindError) Is(target error) bool { return target == ErrBind }

func resolveErr(path, seg string, format string, args ...any) *ResolveError {
	return &ResolveError{Path: path, Segment: seg, Err: fmt.Errorf(format, args...)}
}
