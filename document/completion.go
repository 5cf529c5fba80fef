package document

import (
	"sort"

	"github.com/hupe1980/annogo/types"
)

// Completion records that a type has been fully computed for a document.
type Completion struct {
	Type types.Annotatable
	// Provenance names the producer, conventionally "annotator::version".
	Provenance string
}

// IsCompleted reports whether t has been marked completed.
func (s *Store) IsCompleted(t types.Annotatable) bool {
	if t == nil {
		return false
	}
	_, ok := s.completed[t.ID()]
	return ok
}

// SetCompleted marks t completed by provenance.
func (s *Store) SetCompleted(t types.Annotatable, provenance string) {
	s.completed[t.ID()] = Completion{Type: t, Provenance: provenance}
}

// SetUncompleted clears t's completion flag.
func (s *Store) SetUncompleted(t types.Annotatable) {
	delete(s.completed, t.ID())
}

// Provenance returns who completed t.
func (s *Store) Provenance(t types.Annotatable) (string, bool) {
	c, ok := s.completed[t.ID()]
	return c.Provenance, ok
}

// Completions returns the completion record sorted by type id.
func (s *Store) Completions() []Completion {
	out := make([]Completion, 0, len(s.completed))
	for _, c := range s.completed {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Type.ID().String() < out[j].Type.ID().String()
	})
	return out
}

// Completed returns the completed types sorted by id.
func (s *Store) Completed() types.Set {
	var set types.Set
	for _, c := range s.Completions() {
		set.Add(c.Type)
	}
	return set
}
