package document

import (
	"errors"
	"fmt"

	"github.com/hupe1980/annogo/span"
	"github.com/hupe1980/annogo/types"
)

// Builder assembles an annotation before it is attached.
//
// Errors are collected and reported by Detached or Attach.
//
//	tok, err := doc.NewAnnotation(types.Token, span.Must(0, 3)).
//	    Attr(types.PartOfSpeech, "DT").
//	    Attach()
type Builder struct {
	doc   *Document
	typ   *types.AnnotationType
	span  span.Span
	attrs map[*types.AttributeType]types.Value
	rels  []Relation
	errs  []error
}

// Attr sets an attribute, decoding v into at's value kind.
func (b *Builder) Attr(at *types.AttributeType, v any) *Builder {
	val, err := at.Decode(v)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	if b.attrs == nil {
		b.attrs = make(map[*types.AttributeType]types.Value)
	}
	b.attrs[at] = val
	return b
}

// Relation adds an outgoing relation to an attached annotation of the same document.
func (b *Builder) Relation(rt *types.RelationType, value string, target *Annotation) *Builder {
	switch {
	case target.IsEmpty():
		b.errs = append(b.errs, fmt.Errorf("%w: relation target", ErrEmpty))
	case target.doc != b.doc:
		b.errs = append(b.errs, ErrForeignAnnotation)
	case target.id == Detached:
		b.errs = append(b.errs, fmt.Errorf("%w: relation target %s", ErrDetached, target))
	default:
		b.RelationTo(rt, value, target.id)
	}
	return b
}

// RelationTo adds an outgoing relation by target id. The id is resolved on attach.
func (b *Builder) RelationTo(rt *types.RelationType, value string, target uint64) *Builder {
	if rt == nil {
		b.errs = append(b.errs, ErrInvalidRelation)
		return b
	}
	b.rels = addRelation(b.rels, Relation{Type: rt, Value: value, Target: target})
	return b
}

// Detached returns the annotation without indexing it.
func (b *Builder) Detached() (*Annotation, error) {
	if b.typ == nil {
		b.errs = append(b.errs, errors.New("annotation type is required"))
	}
	if err := b.doc.checkSpan(b.span); err != nil {
		b.errs = append(b.errs, err)
	}
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	return &Annotation{
		doc:      b.doc,
		id:       Detached,
		typ:      b.typ,
		span:     b.span,
		attrs:    b.attrs,
		outgoing: append([]Relation(nil), b.rels...),
	}, nil
}

// Attach builds the annotation and attaches it to the document.
func (b *Builder) Attach() (*Annotation, error) {
	a, err := b.Detached()
	if err != nil {
		return nil, err
	}
	if err := b.doc.Attach(a); err != nil {
		return nil, err
	}
	return a, nil
}
