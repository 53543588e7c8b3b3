// pkg/loader/error.go
package loader

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the fatal error kinds a run can end with.
// Referential skips are deliberately not represented here: a sales row
// whose reference does not resolve is counted and skipped, never
// surfaced as a failure.
type ErrorKind int

const (
	// KindUnexpected covers any failure during transform or load that
	// is not otherwise classified
	KindUnexpected ErrorKind = iota
	// KindSourceNotFound means a required input table is absent
	KindSourceNotFound
	// KindSink covers any failure reported by the relational store
	KindSink
)

// String returns a string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindSourceNotFound:
		return "SourceNotFound"
	case KindSink:
		return "SinkError"
	case KindUnexpected:
		return "UnexpectedError"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// RunError is a fatal run failure tagged with its kind. All kinds unwind
// to the top level, trigger rollback and resource release, and re-signal
// to the caller; nothing is retried.
type RunError struct {
	Kind ErrorKind
	Err  error
}

// Error returns a formatted error message
func (e *RunError) Error() string {
	return fmt.Sprintf("[%s] %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// NewSourceNotFoundError wraps an extraction failure
func NewSourceNotFoundError(err error) error {
	if err == nil {
		return nil
	}
	return &RunError{Kind: KindSourceNotFound, Err: err}
}

// NewSinkError wraps a failure reported by the relational store
func NewSinkError(err error) error {
	if err == nil {
		return nil
	}
	return &RunError{Kind: KindSink, Err: err}
}

// NewUnexpectedError wraps any other fatal failure
func NewUnexpectedError(err error) error {
	if err == nil {
		return nil
	}
	return &RunError{Kind: KindUnexpected, Err: err}
}

// KindOf reports the kind of a run error, or KindUnexpected for errors
// that were never classified.
func KindOf(err error) ErrorKind {
	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.Kind
	}
	return KindUnexpected
}
