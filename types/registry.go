package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Names of the types every registry is seeded with.
const (
	RootName = "ROOT"
	TagName  = "TAG"
)

// Registry interns annotation, attribute and relation types by name.
//
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	annotations map[string]*AnnotationType
	attributes  map[string]*AttributeType
	relations   map[string]*RelationType

	root *AnnotationType
	tag  *AttributeType
}

// NewRegistry returns a registry holding only the root annotation type and
// the generic TAG attribute.
func NewRegistry() *Registry {
	r := &Registry{
		annotations: make(map[string]*AnnotationType),
		attributes:  make(map[string]*AttributeType),
		relations:   make(map[string]*RelationType),
	}
	r.tag = &AttributeType{name: TagName, kind: KindAny}
	r.attributes[TagName] = r.tag
	r.root = &AnnotationType{name: RootName, tag: r.tag, reg: r}
	r.annotations[RootName] = r.root
	return r
}

// Root returns the root annotation type.
func (r *Registry) Root() *AnnotationType { return r.root }

// Tag returns the default tag attribute.
func (r *Registry) Tag() *AttributeType { return r.tag }

// AnnotationOption configures an annotation type on registration.
type AnnotationOption func(*annotationOptions)

type annotationOptions struct {
	parent *AnnotationType
	tag    *AttributeType
}

// WithParent sets the parent type. Defaults to the registry root.
func WithParent(p *AnnotationType) AnnotationOption {
	return func(o *annotationOptions) {
		o.parent = p
	}
}

// WithTagAttribute declares the attribute that holds the type's primary label.
func WithTagAttribute(a *AttributeType) AnnotationOption {
	return func(o *annotationOptions) {
		o.tag = a
	}
}

func normalize(name string) (string, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return "", ErrInvalidName
	}
	return n, nil
}

// AnnotationType returns the interned type with the given name, registering
// it on first use. The tag attribute is resolved once here by walking to the
// nearest ancestor that declares one.
//
// Asking for an existing type with a different parent or tag attribute
// returns ErrConflict.
func (r *Registry) AnnotationType(name string, opts ...AnnotationOption) (*AnnotationType, error) {
	n, err := normalize(name)
	if err != nil {
		return nil, err
	}
	var o annotationOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.parent != nil && o.parent.reg != r {
		return nil, fmt.Errorf("%w: parent %s belongs to another registry", ErrConflict, o.parent.name)
	}

	r.mu.RLock()
	existing, ok := r.annotations[n]
	r.mu.RUnlock()
	if ok {
		return existing, checkAnnotation(existing, o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.annotations[n]; ok {
		return existing, checkAnnotation(existing, o)
	}
	parent := o.parent
	if parent == nil {
		parent = r.root
	}
	tag := o.tag
	if tag == nil {
		tag = parent.tag
	}
	t := &AnnotationType{name: n, parent: parent, tag: tag, reg: r}
	r.annotations[n] = t
	return t, nil
}

func checkAnnotation(t *AnnotationType, o annotationOptions) error {
	if t.IsRoot() && o.parent != nil {
		return fmt.Errorf("%w: %s cannot have a parent", ErrConflict, t.name)
	}
	if o.parent != nil && t.parent != o.parent {
		return fmt.Errorf("%w: %s already has parent %s, not %s", ErrConflict, t.name, t.parent.name, o.parent.name)
	}
	if o.tag != nil && t.tag != o.tag {
		return fmt.Errorf("%w: %s already has tag attribute %s, not %s", ErrConflict, t.name, t.tag.name, o.tag.name)
	}
	return nil
}

// MustAnnotationType is like AnnotationType but panics on error.
func (r *Registry) MustAnnotationType(name string, opts ...AnnotationOption) *AnnotationType {
	t, err := r.AnnotationType(name, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// AttributeType returns the interned attribute with the given name.
// KindAny on lookup of an existing attribute matches whatever kind it has.
func (r *Registry) AttributeType(name string, kind ValueKind) (*AttributeType, error) {
	n, err := normalize(name)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.attributes[n]; ok {
		if kind != KindAny && existing.kind != kind {
			return existing, fmt.Errorf("%w: attribute %s has value kind %s, not %s", ErrConflict, n, existing.kind, kind)
		}
		return existing, nil
	}
	t := &AttributeType{name: n, kind: kind}
	r.attributes[n] = t
	return t, nil
}

// MustAttributeType is like AttributeType but panics on error.
func (r *Registry) MustAttributeType(name string, kind ValueKind) *AttributeType {
	t, err := r.AttributeType(name, kind)
	if err != nil {
		panic(err)
	}
	return t
}

// RelationType returns the interned relation type with the given name.
func (r *Registry) RelationType(name string) (*RelationType, error) {
	n, err := normalize(name)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.relations[n]; ok {
		return existing, nil
	}
	t := &RelationType{name: n}
	r.relations[n] = t
	return t, nil
}

// MustRelationType is like RelationType but panics on error.
func (r *Registry) MustRelationType(name string) *RelationType {
	t, err := r.RelationType(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns an already registered type. It never registers.
func (r *Registry) Lookup(id ID) (Annotatable, error) {
	n, err := normalize(id.Name)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch id.Kind {
	case KindAnnotation:
		if t, ok := r.annotations[n]; ok {
			return t, nil
		}
	case KindAttribute:
		if t, ok := r.attributes[n]; ok {
			return t, nil
		}
	case KindRelation:
		if t, ok := r.relations[n]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, ID{Kind: id.Kind, Name: n})
}

// AnnotationTypes returns every registered annotation type sorted by name.
func (r *Registry) AnnotationTypes() []*AnnotationType {
	r.mu.RLock()
	out := make([]*AnnotationType, 0, len(r.annotations))
	for _, t := range r.annotations {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
