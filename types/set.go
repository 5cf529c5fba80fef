package types

import "strings"

// Set is an insertion-ordered set of annotatable types keyed by ID.
//
// The zero Set is empty and ready to use. Once a Set holds elements its
// copies share them, the way copies of a map do; use Clone for an
// independent copy.
type Set struct {
	st *setState
}

type setState struct {
	items []Annotatable
	idx   map[ID]struct{}
}

// NewSet returns a set holding ts in order, duplicates dropped.
func NewSet(ts ...Annotatable) Set {
	var s Set
	for _, t := range ts {
		s.Add(t)
	}
	return s
}

// Add inserts t and reports whether it was not already present.
func (s *Set) Add(t Annotatable) bool {
	if t == nil {
		return false
	}
	id := t.ID()
	if s.ContainsID(id) {
		return false
	}
	if s.st == nil {
		s.st = &setState{idx: make(map[ID]struct{})}
	}
	s.st.idx[id] = struct{}{}
	s.st.items = append(s.st.items, t)
	return true
}

// AddAll inserts every element of o and reports whether any was new.
func (s *Set) AddAll(o Set) bool {
	added := false
	for _, t := range o.Items() {
		if s.Add(t) {
			added = true
		}
	}
	return added
}

// Contains reports whether t is in the set.
func (s Set) Contains(t Annotatable) bool {
	if t == nil {
		return false
	}
	return s.ContainsID(t.ID())
}

// ContainsID reports whether a type with the given identity is in the set.
func (s Set) ContainsID(id ID) bool {
	if s.st == nil {
		return false
	}
	_, ok := s.st.idx[id]
	return ok
}

// ContainsAll reports whether every element of o is in s.
func (s Set) ContainsAll(o Set) bool {
	for _, t := range o.Items() {
		if !s.Contains(t) {
			return false
		}
	}
	return true
}

// Missing reports whether some element of o is not in s.
func (s Set) Missing(o Set) bool {
	return !s.ContainsAll(o)
}

// Len returns the number of elements.
func (s Set) Len() int { return len(s.Items()) }

// Items returns the elements in insertion order. The slice must not be modified.
func (s Set) Items() []Annotatable {
	if s.st == nil {
		return nil
	}
	return s.st.items
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	return NewSet(s.Items()...)
}

// String renders the set as "{a, b}".
func (s Set) String() string {
	items := s.Items()
	parts := make([]string, len(items))
	for i, t := range items {
		parts[i] = t.ID().String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
