package document

import (
	"fmt"

	"github.com/hupe1980/annogo/types"
)

// Relation is a directed, typed, valued edge.
//
// On a source's outgoing set Target is the target id; on the mirror entry in
// the target's incoming set Target holds the source id.
type Relation struct {
	Type   *types.RelationType
	Value  string
	Target uint64
}

// String renders the relation as TYPE:value->id.
func (r Relation) String() string {
	return fmt.Sprintf("%s:%s->%d", r.Type, r.Value, r.Target)
}

func addRelation(rs []Relation, r Relation) []Relation {
	for _, x := range rs {
		if x == r {
			return rs
		}
	}
	return append(rs, r)
}

func removeRelation(rs []Relation, r Relation) ([]Relation, bool) {
	for i, x := range rs {
		if x == r {
			return append(rs[:i:i], rs[i+1:]...), true
		}
	}
	return rs, false
}

// AddRelation adds an outgoing relation. On an attached annotation the target
// is resolved and the mirrored incoming entry is written in the same critical
// section; an unresolvable target is ErrDanglingRelation.
func (a *Annotation) AddRelation(r Relation) error {
	if a.empty {
		return ErrEmpty
	}
	if r.Type == nil {
		return ErrInvalidRelation
	}
	d := a.doc
	d.relMu.Lock()
	defer d.relMu.Unlock()

	if a.id == Detached {
		a.outgoing = addRelation(a.outgoing, r)
		return nil
	}
	target, ok := d.store.byID[r.Target]
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrDanglingRelation, r, a)
	}
	a.outgoing = addRelation(a.outgoing, r)
	target.incoming = addRelation(target.incoming, Relation{Type: r.Type, Value: r.Value, Target: a.id})
	return nil
}

// Relate adds an outgoing relation of type rt to target.
func (a *Annotation) Relate(rt *types.RelationType, value string, target *Annotation) error {
	if target.IsEmpty() {
		return ErrEmpty
	}
	if target.doc != a.doc {
		return ErrForeignAnnotation
	}
	if target.id == Detached {
		return fmt.Errorf("%w: relation target %s", ErrDetached, target)
	}
	return a.AddRelation(Relation{Type: rt, Value: value, Target: target.id})
}

// RemoveRelation removes an outgoing relation and its mirror.
func (a *Annotation) RemoveRelation(r Relation) bool {
	if a.empty {
		return false
	}
	d := a.doc
	d.relMu.Lock()
	defer d.relMu.Unlock()

	var ok bool
	a.outgoing, ok = removeRelation(a.outgoing, r)
	if !ok || a.id == Detached {
		return ok
	}
	if target, found := d.store.byID[r.Target]; found {
		target.incoming, _ = removeRelation(target.incoming, Relation{Type: r.Type, Value: r.Value, Target: a.id})
	}
	return true
}

// Outgoing returns outgoing relations of type rt (nil for any type).
//
// With includeSub on a non-leaf annotation the result also holds the
// relations of every enclosed annotation whose target lies outside a, so
// edges wholly inside the span are not reported.
func (a *Annotation) Outgoing(rt *types.RelationType, includeSub bool) []Relation {
	return a.relations(rt, includeSub, func(x *Annotation) []Relation { return x.outgoing })
}

// Incoming returns incoming relations of type rt (nil for any type). Each
// entry's Target is the source id. includeSub behaves as for Outgoing.
func (a *Annotation) Incoming(rt *types.RelationType, includeSub bool) []Relation {
	return a.relations(rt, includeSub, func(x *Annotation) []Relation { return x.incoming })
}

func (a *Annotation) relations(rt *types.RelationType, includeSub bool, side func(*Annotation) []Relation) []Relation {
	if a.empty {
		return nil
	}
	d := a.doc
	d.relMu.RLock()
	defer d.relMu.RUnlock()

	var out []Relation
	for _, r := range side(a) {
		if rt == nil || r.Type == rt {
			out = addRelation(out, r)
		}
	}
	if !includeSub || a.typ.IsInstance(d.leaf) || !d.store.Contains(a) {
		return out
	}
	d.store.tree.Enclosed(a.span, func(_ keyT, sub *Annotation) bool {
		if sub == a {
			return true
		}
		for _, r := range side(sub) {
			if rt != nil && r.Type != rt {
				continue
			}
			other, ok := d.store.byID[r.Target]
			if !ok || a.span.Encloses(other.span) {
				continue
			}
			out = addRelation(out, r)
		}
		return true
	})
	return out
}

// Targets resolves the targets of Outgoing(rt, includeSub). Unresolvable
// targets are skipped.
func (a *Annotation) Targets(rt *types.RelationType, includeSub bool) []*Annotation {
	return a.resolve(a.Outgoing(rt, includeSub))
}

// Sources resolves the sources of Incoming(rt, includeSub). Unresolvable
// sources are skipped.
func (a *Annotation) Sources(rt *types.RelationType, includeSub bool) []*Annotation {
	return a.resolve(a.Incoming(rt, includeSub))
}

func (a *Annotation) resolve(rs []Relation) []*Annotation {
	var out []*Annotation
	seen := make(map[uint64]struct{}, len(rs))
	for _, r := range rs {
		if _, dup := seen[r.Target]; dup {
			continue
		}
		seen[r.Target] = struct{}{}
		if x, ok := a.doc.store.Get(r.Target); ok {
			out = append(out, x)
		}
	}
	return out
}

// Dependency returns the label and head of the first outgoing dependency
// relation whose target does not overlap a. It returns ("", empty) when
// there is none.
func (a *Annotation) Dependency() (string, *Annotation) {
	if a.empty {
		return "", a
	}
	for _, r := range a.Outgoing(a.doc.dependency, true) {
		head, ok := a.doc.store.Get(r.Target)
		if !ok || head.span.Overlaps(a.span) {
			continue
		}
		return r.Value, head
	}
	return "", a.doc.empty
}

// Head returns the dependency head of a, or the empty annotation.
func (a *Annotation) Head() *Annotation {
	_, h := a.Dependency()
	return h
}

// Dependents returns the annotations whose dependency relation points into a
// from outside it.
func (a *Annotation) Dependents() []*Annotation {
	if a.empty {
		return nil
	}
	return a.Sources(a.doc.dependency, true)
}
