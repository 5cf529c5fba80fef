package annotator

import "errors"

var (
	// ErrNoAnnotator is returned when nothing is bound for a type and language.
	ErrNoAnnotator = errors.New("annotator: no annotator bound")

	// ErrUnsatisfied is returned when a resolved annotator does not declare
	// the type it was resolved for.
	ErrUnsatisfied = errors.New("annotator: resolved annotator does not satisfy type")

	// ErrUnknownFactory is returned when a binding names an unregistered factory.
	ErrUnknownFactory = errors.New("annotator: unknown factory")

	// ErrInvalidBinding is returned for malformed bindings.
	ErrInvalidBinding = errors.New("annotator: invalid binding")
)
