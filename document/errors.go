package document

import "errors"

var (
	// ErrForeignAnnotation is returned when an annotation is attached to, or
	// related across, a document other than the one that created it.
	ErrForeignAnnotation = errors.New("annotation belongs to another document")

	// ErrInvalidSpan is returned for spans outside [0, document length] or with start > end.
	ErrInvalidSpan = errors.New("span outside document bounds")

	// ErrDanglingRelation is returned when a relation target id cannot be
	// resolved in the owning document.
	ErrDanglingRelation = errors.New("relation target not found")

	// ErrDetached is returned when an operation needs an attached annotation.
	ErrDetached = errors.New("annotation is detached")

	// ErrAlreadyAttached is returned when attaching an annotation twice.
	ErrAlreadyAttached = errors.New("annotation already attached")

	// ErrEmpty is returned when mutating the empty annotation.
	ErrEmpty = errors.New("empty annotation is immutable")

	// ErrInvalidRelation is returned for relations without a type.
	ErrInvalidRelation = errors.New("invalid relation")
)
