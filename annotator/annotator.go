package annotator

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/annogo/document"
	"github.com/hupe1980/annogo/types"
)

// Annotator computes one or more annotatable types for a document.
//
// Satisfies and Requires must return the same sets on every call.
type Annotator interface {
	// Satisfies returns the types this annotator produces.
	Satisfies() types.Set
	// Requires returns the types that must be computed first.
	Requires() types.Set
	// Version identifies the model or algorithm revision.
	Version() string
	// Annotate writes annotations, attributes and relations into doc.
	Annotate(ctx context.Context, doc *document.Document) error
}

// Namer is implemented by annotators that report their own name.
type Namer interface {
	Name() string
}

// Name returns a's name, falling back to its dynamic type.
func Name(a Annotator) string {
	if n, ok := a.(Namer); ok {
		return n.Name()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", a), "*")
}

// Provenance returns the completion provenance for a, "name::version".
func Provenance(a Annotator) string {
	return Name(a) + "::" + a.Version()
}

// Func is the body of an annotator built with New.
type Func func(ctx context.Context, doc *document.Document) error

type funcAnnotator struct {
	name      string
	version   string
	satisfies types.Set
	requires  types.Set
	fn        Func
}

// New builds an Annotator from a function and its declared type sets.
func New(name, version string, satisfies, requires []types.Annotatable, fn Func) Annotator {
	return &funcAnnotator{
		name:      name,
		version:   version,
		satisfies: types.NewSet(satisfies...),
		requires:  types.NewSet(requires...),
		fn:        fn,
	}
}

func (f *funcAnnotator) Name() string         { return f.name }
func (f *funcAnnotator) Version() string      { return f.version }
func (f *funcAnnotator) Satisfies() types.Set { return f.satisfies.Clone() }
func (f *funcAnnotator) Requires() types.Set  { return f.requires.Clone() }
func (f *funcAnnotator) String() string       { return f.name + "::" + f.version }

func (f *funcAnnotator) Annotate(ctx context.Context, doc *document.Document) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(ctx, doc)
}
