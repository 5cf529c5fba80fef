package annogo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/annogo/annotator"
	"github.com/hupe1980/annogo/document"
	"github.com/hupe1980/annogo/pipeline"
	"github.com/hupe1980/annogo/types"
)

var (
	// ErrConfiguration marks errors caused by annotator or type
	// configuration: nothing bound for a type, a bound annotator that does
	// not produce the type, or conflicting type declarations. Fix the
	// configuration and retry.
	ErrConfiguration = errors.New("configuration error")

	// ErrConsistency marks errors that indicate a bug in an annotator or
	// in the caller: dangling relation targets, foreign annotations or
	// out-of-bounds spans.
	ErrConsistency = errors.New("consistency error")
)

// ErrAnnotatorFailed indicates that an annotator returned an error. Types
// completed before it ran stay completed, so Annotate can simply be retried.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrAnnotatorFailed struct {
	Annotator string
	Document  string
	cause     error
}

func (e *ErrAnnotatorFailed) Error() string {
	return fmt.Sprintf("annotator %s failed on document %s: %v", e.Annotator, e.Document, e.cause)
}

func (e *ErrAnnotatorFailed) Unwrap() error { return e.cause }

var configurationErrors = []error{
	annotator.ErrNoAnnotator,
	annotator.ErrUnsatisfied,
	annotator.ErrUnknownFactory,
	annotator.ErrInvalidBinding,
	types.ErrConflict,
	types.ErrInvalidName,
	types.ErrUnknownType,
	pipeline.ErrNoRequest,
}

var consistencyErrors = []error{
	document.ErrForeignAnnotation,
	document.ErrInvalidSpan,
	document.ErrDanglingRelation,
	document.ErrDetached,
	document.ErrAlreadyAttached,
	document.ErrInvalidRelation,
	document.ErrEmpty,
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Annotator failures keep their identity; the category is added below
	// so errors.Is works through both.
	var ae *pipeline.AnnotatorError
	if errors.As(err, &ae) {
		failed := &ErrAnnotatorFailed{Annotator: ae.Annotator, Document: ae.Document, cause: err}
		if c := category(err); c != nil {
			return fmt.Errorf("%w: %w", c, failed)
		}
		return failed
	}

	if c := category(err); c != nil {
		return fmt.Errorf("%w: %w", c, err)
	}
	return err
}

func category(err error) error {
	for _, target := range configurationErrors {
		if errors.Is(err, target) {
			return ErrConfiguration
		}
	}
	for _, target := range consistencyErrors {
		if errors.Is(err, target) {
			return ErrConsistency
		}
	}
	return nil
}
