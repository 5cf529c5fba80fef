package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoRequest is returned by New when no type is requested.
var ErrNoRequest = errors.New("pipeline: no types requested")

// AnnotatorError reports an annotator that failed on a document. Types
// completed by earlier annotators in the same run stay completed.
type AnnotatorError struct {
	// Annotator is the failing annotator's provenance, "name::version".
	Annotator string
	// Document is the document id.
	Document string
	cause    error
}

func (e *AnnotatorError) Error() string {
	return fmt.Sprintf("pipeline: annotator %s failed on document %s: %v", e.Annotator, e.Document, e.cause)
}

func (e *AnnotatorError) Unwrap() error { return e.cause }

// ResolveError reports a type that could not be scheduled.
type ResolveError struct {
	Type     string
	Language string
	cause    error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("pipeline: resolve %s (%s): %v", e.Type, e.Language, e.cause)
}

func (e *ResolveError) Unwrap() error { return e.cause }
