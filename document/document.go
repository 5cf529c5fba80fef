package document

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/hupe1980/annogo/span"
	"github.com/hupe1980/annogo/types"
)

// Detached is the id of an annotation that is not indexed by a document.
const Detached uint64 = 0

// Document owns immutable text content and the annotations layered over it.
//
// A Document has one mutator at a time. Concurrent read-only queries are safe
// while nothing mutates it; relation sets are additionally guarded so a
// reader never observes an edge without its mirror.
type Document struct {
	id      string
	content string
	lang    language.Tag

	nextID uint64
	store  *Store
	attrs  map[*types.AttributeType]types.Value

	leaf       *types.AnnotationType
	dependency *types.RelationType

	// relMu guards outgoing/incoming of every annotation of this document.
	relMu sync.RWMutex

	empty *Annotation
}

// Option configures a Document.
type Option func(*Document)

// WithID sets the document id. Defaults to a random UUID.
func WithID(id string) Option {
	return func(d *Document) {
		d.id = id
	}
}

// WithLanguage sets the document language. Defaults to language.Und.
func WithLanguage(tag language.Tag) Option {
	return func(d *Document) {
		d.lang = tag
	}
}

// WithLeafType sets the finest-grained annotation type, which never
// aggregates relations of enclosed annotations. Defaults to types.Token.
func WithLeafType(t *types.AnnotationType) Option {
	return func(d *Document) {
		if t != nil {
			d.leaf = t
		}
	}
}

// WithDependencyType sets the relation type Annotation.Dependency follows.
// Defaults to types.Dependency.
func WithDependencyType(t *types.RelationType) Option {
	return func(d *Document) {
		if t != nil {
			d.dependency = t
		}
	}
}

// New creates a document over finalized content.
func New(content string, opts ...Option) *Document {
	d := &Document{
		content:    content,
		lang:       language.Und,
		attrs:      make(map[*types.AttributeType]types.Value),
		leaf:       types.Token,
		dependency: types.Dependency,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.id == "" {
		d.id = uuid.NewString()
	}
	d.store = newStore(d)
	d.empty = &Annotation{doc: d, id: Detached, typ: types.Root, empty: true}
	return d
}

// ID returns the document id.
func (d *Document) ID() string { return d.id }

// Content returns the document text.
func (d *Document) Content() string { return d.content }

// Len returns the content length in bytes. Span offsets are byte offsets.
func (d *Document) Len() int { return len(d.content) }

// Language returns the document language; language.Und when unknown.
func (d *Document) Language() language.Tag { return d.lang }

// SetLanguage replaces the document language.
func (d *Document) SetLanguage(tag language.Tag) { d.lang = tag }

// Span returns the span covering the whole content.
func (d *Document) Span() span.Span { return span.Span{Start: 0, End: len(d.content)} }

// Text returns the content covered by s, or "" if s is out of bounds.
func (d *Document) Text(s span.Span) string {
	if !s.Within(len(d.content)) {
		return ""
	}
	return d.content[s.Start:s.End]
}

// Store returns the annotation store.
func (d *Document) Store() *Store { return d.store }

// Empty returns the document's empty annotation. Queries that find nothing
// return it instead of nil.
func (d *Document) Empty() *Annotation { return d.empty }

// LeafType returns the finest-grained annotation type.
func (d *Document) LeafType() *types.AnnotationType { return d.leaf }

// NewAnnotation starts building an annotation of type t over s.
func (d *Document) NewAnnotation(t *types.AnnotationType, s span.Span) *Builder {
	return &Builder{doc: d, typ: t, span: s}
}

// CreateAnnotation creates and attaches an annotation without attributes.
func (d *Document) CreateAnnotation(t *types.AnnotationType, s span.Span) (*Annotation, error) {
	return d.NewAnnotation(t, s).Attach()
}

// Attach indexes a detached annotation created by this document, assigning
// its id and mirroring its outgoing relations onto their targets.
//
// All relation targets are resolved before anything is indexed, so a failed
// attach leaves the document untouched.
func (d *Document) Attach(a *Annotation) error { return d.store.attach(a) }

// Remove detaches a and tears down every relation touching it.
func (d *Document) Remove(a *Annotation) bool { return d.store.Remove(a) }

// RemoveAll removes everything of type t; see Store.RemoveAll.
func (d *Document) RemoveAll(t types.Annotatable) []*Annotation { return d.store.RemoveAll(t) }

// Get returns the attached annotation with the given id.
func (d *Document) Get(id uint64) (*Annotation, bool) { return d.store.Get(id) }

// Contains reports whether a is attached to this document.
func (d *Document) Contains(a *Annotation) bool { return d.store.Contains(a) }

// Select returns every annotation matching pred in span order.
func (d *Document) Select(pred func(*Annotation) bool) []*Annotation {
	return d.store.Select(pred)
}

// Overlapping returns annotations overlapping s that match pred, in span order.
func (d *Document) Overlapping(s span.Span, pred func(*Annotation) bool) []*Annotation {
	return d.store.Overlapping(s, pred)
}

// Enclosed returns annotations lying inside s that match pred, in span order.
func (d *Document) Enclosed(s span.Span, pred func(*Annotation) bool) []*Annotation {
	return d.store.Enclosed(s, pred)
}

// Enclosing returns annotations enclosing s that match pred, in span order.
func (d *Document) Enclosing(s span.Span, pred func(*Annotation) bool) []*Annotation {
	return d.store.Enclosing(s, pred)
}

// Annotations returns every annotation that is an instance of t, in span order.
func (d *Document) Annotations(t *types.AnnotationType) []*Annotation {
	return d.store.Annotations(t)
}

// Next returns the next annotation of type t after a; see Store.Next.
func (d *Document) Next(a *Annotation, t *types.AnnotationType) *Annotation {
	return d.store.Next(a, t)
}

// Previous returns the previous annotation of type t before a; see Store.Previous.
func (d *Document) Previous(a *Annotation, t *types.AnnotationType) *Annotation {
	return d.store.Previous(a, t)
}

// Tokens returns the leaf-type annotations.
func (d *Document) Tokens() []*Annotation { return d.store.Annotations(d.leaf) }

// Sentences returns the SENTENCE annotations.
func (d *Document) Sentences() []*Annotation { return d.store.Annotations(types.Sentence) }

// Completed returns every completed type.
func (d *Document) Completed() types.Set { return d.store.Completed() }

// IsCompleted reports whether t is completed.
func (d *Document) IsCompleted(t types.Annotatable) bool { return d.store.IsCompleted(t) }

// SetCompleted marks t completed by provenance.
func (d *Document) SetCompleted(t types.Annotatable, provenance string) {
	d.store.SetCompleted(t, provenance)
}

// SetUncompleted clears t's completion flag.
func (d *Document) SetUncompleted(t types.Annotatable) { d.store.SetUncompleted(t) }

// Attribute returns a document-level attribute; null when absent.
func (d *Document) Attribute(at *types.AttributeType) types.Value {
	return d.attrs[at]
}

// HasAttribute reports whether a document-level attribute is set.
func (d *Document) HasAttribute(at *types.AttributeType) bool {
	_, ok := d.attrs[at]
	return ok
}

// SetAttribute decodes v into at's kind and stores it on the document.
func (d *Document) SetAttribute(at *types.AttributeType, v any) error {
	val, err := at.Decode(v)
	if err != nil {
		return err
	}
	d.attrs[at] = val
	return nil
}

// RemoveAttribute deletes a document-level attribute.
func (d *Document) RemoveAttribute(at *types.AttributeType) bool {
	_, ok := d.attrs[at]
	delete(d.attrs, at)
	return ok
}

// AttributeTypes returns the document-level attribute types sorted by name.
func (d *Document) AttributeTypes() []*types.AttributeType {
	return sortedAttributeTypes(d.attrs)
}

func (d *Document) checkSpan(s span.Span) error {
	if !s.Within(len(d.content)) {
		return fmt.Errorf("%w: %s not within [0, %d]", ErrInvalidSpan, s, len(d.content))
	}
	return nil
}

func sortedAttributeTypes(m map[*types.AttributeType]types.Value) []*types.AttributeType {
	out := make([]*types.AttributeType, 0, len(m))
	for at := range m {
		out = append(out, at)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
