package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflict is returned when a type is re-registered with a different
	// parent, tag attribute or value kind.
	ErrConflict = errors.New("type conflict")

	// ErrInvalidName is returned for empty type names.
	ErrInvalidName = errors.New("invalid type name")

	// ErrUnknownType is returned when a lookup names a type that was never registered.
	ErrUnknownType = errors.New("unknown type")
)

// Kind distinguishes the three families of annotatable types.
type Kind uint8

const (
	KindAnnotation Kind = iota + 1
	KindAttribute
	KindRelation
)

// String returns the lower-case kind name used in IDs and configuration.
func (k Kind) String() string {
	switch k {
	case KindAnnotation:
		return "annotation"
	case KindAttribute:
		return "attribute"
	case KindRelation:
		return "relation"
	default:
		return "unknown"
	}
}

// ParseKind parses the output of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annotation", "":
		return KindAnnotation, nil
	case "attribute":
		return KindAttribute, nil
	case "relation":
		return KindRelation, nil
	}
	return 0, fmt.Errorf("%w: kind %q", ErrUnknownType, s)
}

// ID is the identity of an annotatable type.
type ID struct {
	Kind Kind
	Name string
}

// String returns "kind:NAME".
func (id ID) String() string {
	return id.Kind.String() + ":" + id.Name
}

// Annotatable is anything an annotator can satisfy: an annotation type, an
// attribute type or a relation type.
type Annotatable interface {
	ID() ID
	Name() string
	Kind() Kind
	String() string

	annotatable()
}

// AnnotationType is an interned, hierarchical annotation tag.
//
// Two AnnotationTypes are the same type iff they are the same pointer.
type AnnotationType struct {
	name   string
	parent *AnnotationType
	tag    *AttributeType
	reg    *Registry
}

func (*AnnotationType) annotatable() {}

// ID implements Annotatable.
func (t *AnnotationType) ID() ID { return ID{Kind: KindAnnotation, Name: t.name} }

// Name implements Annotatable.
func (t *AnnotationType) Name() string { return t.name }

// Kind implements Annotatable.
func (t *AnnotationType) Kind() Kind { return KindAnnotation }

// String implements Annotatable.
func (t *AnnotationType) String() string { return t.name }

// Parent returns the parent type, or nil for the root.
func (t *AnnotationType) Parent() *AnnotationType { return t.parent }

// IsRoot reports whether t is its registry's root type.
func (t *AnnotationType) IsRoot() bool { return t.parent == nil }

// TagAttribute returns the attribute holding this type's primary label,
// inherited from the nearest ancestor that declares one.
func (t *AnnotationType) TagAttribute() *AttributeType { return t.tag }

// IsInstance reports whether other is t or one of its ancestors.
func (t *AnnotationType) IsInstance(other *AnnotationType) bool {
	if other == nil {
		return false
	}
	for c := t; c != nil; c = c.parent {
		if c == other {
			return true
		}
	}
	return false
}

// Ancestors returns t's ancestors, nearest first, ending at the root.
func (t *AnnotationType) Ancestors() []*AnnotationType {
	var out []*AnnotationType
	for c := t.parent; c != nil; c = c.parent {
		out = append(out, c)
	}
	return out
}

// AttributeType is an interned attribute key with a declared value kind.
type AttributeType struct {
	name string
	kind ValueKind
}

func (*AttributeType) annotatable() {}

// ID implements Annotatable.
func (t *AttributeType) ID() ID { return ID{Kind: KindAttribute, Name: t.name} }

// Name implements Annotatable.
func (t *AttributeType) Name() string { return t.name }

// Kind implements Annotatable.
func (t *AttributeType) Kind() Kind { return KindAttribute }

// String implements Annotatable.
func (t *AttributeType) String() string { return t.name }

// ValueKind returns the kind values of this attribute are decoded into.
func (t *AttributeType) ValueKind() ValueKind { return t.kind }

// Decode converts v into a Value of the attribute's kind.
func (t *AttributeType) Decode(v any) (Value, error) {
	val, err := FromAny(v)
	if err != nil {
		return Value{}, fmt.Errorf("attribute %s: %w", t.name, err)
	}
	val, err = coerce(val, t.kind)
	if err != nil {
		return Value{}, fmt.Errorf("attribute %s: %w", t.name, err)
	}
	return val, nil
}

// RelationType is an interned edge label family such as DEPENDENCY.
type RelationType struct {
	name string
}

func (*RelationType) annotatable() {}

// ID implements Annotatable.
func (t *RelationType) ID() ID { return ID{Kind: KindRelation, Name: t.name} }

// Name implements Annotatable.
func (t *RelationType) Name() string { return t.name }

// Kind implements Annotatable.
func (t *RelationType) Kind() Kind { return KindRelation }

// String implements Annotatable.
func (t *RelationType) String() string { return t.name }
