package document

import (
	"fmt"

	"github.com/hupe1980/annogo/span"
	"github.com/hupe1980/annogo/types"
)

// Annotation is a typed span of a document with attributes and relations.
//
// Annotations are created through their document and identified by an id
// assigned when they are attached. A detached annotation is a valid value
// but is not indexed or queryable.
type Annotation struct {
	doc   *Document
	id    uint64
	typ   *types.AnnotationType
	span  span.Span
	attrs map[*types.AttributeType]types.Value

	// guarded by doc.relMu
	outgoing []Relation
	incoming []Relation

	empty bool
}

// ID returns the annotation id, or Detached.
func (a *Annotation) ID() uint64 { return a.id }

// Type returns the annotation type.
func (a *Annotation) Type() *types.AnnotationType { return a.typ }

// Span returns the annotation span.
func (a *Annotation) Span() span.Span { return a.span }

// Start returns the start offset.
func (a *Annotation) Start() int { return a.span.Start }

// End returns the end offset.
func (a *Annotation) End() int { return a.span.End }

// Document returns the owning document.
func (a *Annotation) Document() *Document { return a.doc }

// Text returns the covered content.
func (a *Annotation) Text() string { return a.doc.Text(a.span) }

// IsEmpty reports whether a is the empty annotation returned by queries
// that found nothing.
func (a *Annotation) IsEmpty() bool { return a == nil || a.empty }

// IsAttached reports whether a is indexed by its document.
func (a *Annotation) IsAttached() bool {
	return a != nil && a.id != Detached && a.doc.store.Contains(a)
}

// IsInstance reports whether a's type is t or a descendant of t.
func (a *Annotation) IsInstance(t *types.AnnotationType) bool {
	return a.typ.IsInstance(t)
}

// Attribute returns the value of at; null when absent.
func (a *Annotation) Attribute(at *types.AttributeType) types.Value {
	return a.attrs[at]
}

// AttributeOK returns the value of at and whether it is set.
func (a *Annotation) AttributeOK(at *types.AttributeType) (types.Value, bool) {
	v, ok := a.attrs[at]
	return v, ok
}

// HasAttribute reports whether at is set.
func (a *Annotation) HasAttribute(at *types.AttributeType) bool {
	_, ok := a.attrs[at]
	return ok
}

// SetAttribute decodes v into at's value kind and stores it.
func (a *Annotation) SetAttribute(at *types.AttributeType, v any) error {
	if a.empty {
		return ErrEmpty
	}
	val, err := at.Decode(v)
	if err != nil {
		return err
	}
	if a.attrs == nil {
		a.attrs = make(map[*types.AttributeType]types.Value)
	}
	a.attrs[at] = val
	return nil
}

// RemoveAttribute deletes at and reports whether it was set.
func (a *Annotation) RemoveAttribute(at *types.AttributeType) bool {
	_, ok := a.attrs[at]
	delete(a.attrs, at)
	return ok
}

// AttributeTypes returns the set attribute types sorted by name.
func (a *Annotation) AttributeTypes() []*types.AttributeType {
	return sortedAttributeTypes(a.attrs)
}

// Tag returns the value of the type's tag attribute.
func (a *Annotation) Tag() types.Value {
	return a.attrs[a.typ.TagAttribute()]
}

// Next returns the next annotation of type t; see Store.Next.
func (a *Annotation) Next(t *types.AnnotationType) *Annotation {
	return a.doc.store.Next(a, t)
}

// Previous returns the previous annotation of type t; see Store.Previous.
func (a *Annotation) Previous(t *types.AnnotationType) *Annotation {
	return a.doc.store.Previous(a, t)
}

// Enclosed returns the other annotations of type t lying inside a, in span order.
// A nil t matches every type.
func (a *Annotation) Enclosed(t *types.AnnotationType) []*Annotation {
	if a.empty {
		return nil
	}
	return a.doc.store.Enclosed(a.span, func(o *Annotation) bool {
		return o != a && (t == nil || o.typ.IsInstance(t))
	})
}

// Overlapping returns the other annotations of type t overlapping a, in span order.
// A nil t matches every type.
func (a *Annotation) Overlapping(t *types.AnnotationType) []*Annotation {
	if a.empty {
		return nil
	}
	return a.doc.store.Overlapping(a.span, func(o *Annotation) bool {
		return o != a && (t == nil || o.typ.IsInstance(t))
	})
}

// Tokens returns the leaf-type annotations inside a.
func (a *Annotation) Tokens() []*Annotation {
	return a.Enclosed(a.doc.leaf)
}

// String renders the annotation as TYPE[start, end).
func (a *Annotation) String() string {
	if a.empty {
		return "EMPTY"
	}
	return fmt.Sprintf("%s%s", a.typ.Name(), a.span)
}
