package document

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/annogo/internal/interval"
	"github.com/hupe1980/annogo/span"
	"github.com/hupe1980/annogo/types"
)

type keyT = interval.Key

// Store is the queryable container of a document's annotations.
//
// Annotations are indexed four ways: an interval tree keyed by (span, id)
// for overlap queries, one such tree per concrete annotation type for
// neighbor queries, an id map, and one roaring bitmap of ids per concrete
// annotation type.
type Store struct {
	doc      *Document
	tree     *interval.Tree[*Annotation]
	byID     map[uint64]*Annotation
	byType   map[*types.AnnotationType]*roaring64.Bitmap
	typeTree map[*types.AnnotationType]*interval.Tree[*Annotation]

	completed map[types.ID]Completion
}

func newStore(d *Document) *Store {
	return &Store{
		doc:       d,
		tree:      interval.New[*Annotation](),
		byID:      make(map[uint64]*Annotation),
		byType:    make(map[*types.AnnotationType]*roaring64.Bitmap),
		typeTree:  make(map[*types.AnnotationType]*interval.Tree[*Annotation]),
		completed: make(map[types.ID]Completion),
	}
}

func keyOf(a *Annotation) keyT {
	return keyT{Span: a.span, ID: a.id}
}

// Len returns the number of attached annotations.
func (s *Store) Len() int { return len(s.byID) }

// Add attaches a detached annotation created by this store's document and
// reports whether it was added. It returns false for foreign, empty or
// already attached annotations, out-of-bounds spans and dangling relations.
// Document.Attach does the same and reports why.
func (s *Store) Add(a *Annotation) bool {
	return s.attach(a) == nil
}

// attach validates a, assigns its id, indexes it and mirrors its outgoing
// relations onto their targets. All targets are resolved before anything is
// indexed, so a failed attach leaves the store untouched.
func (s *Store) attach(a *Annotation) error {
	d := s.doc
	if a == nil || a.doc != d {
		return ErrForeignAnnotation
	}
	if a.empty {
		return ErrEmpty
	}
	if a.id != Detached {
		return fmt.Errorf("%w: id %d", ErrAlreadyAttached, a.id)
	}
	if err := d.checkSpan(a.span); err != nil {
		return err
	}

	d.relMu.Lock()
	defer d.relMu.Unlock()

	targets := make([]*Annotation, len(a.outgoing))
	for i, r := range a.outgoing {
		t, ok := s.byID[r.Target]
		if !ok {
			return fmt.Errorf("%w: %s -> %d", ErrDanglingRelation, r.Type, r.Target)
		}
		targets[i] = t
	}

	d.nextID++
	a.id = d.nextID
	s.add(a)
	for i, r := range a.outgoing {
		targets[i].incoming = addRelation(targets[i].incoming, Relation{Type: r.Type, Value: r.Value, Target: a.id})
	}
	return nil
}

func (s *Store) add(a *Annotation) bool {
	if !s.tree.Insert(keyOf(a), a) {
		return false
	}
	s.byID[a.id] = a
	bm, ok := s.byType[a.typ]
	if !ok {
		bm = roaring64.New()
		s.byType[a.typ] = bm
	}
	bm.Add(a.id)
	tr, ok := s.typeTree[a.typ]
	if !ok {
		tr = interval.New[*Annotation]()
		s.typeTree[a.typ] = tr
	}
	tr.Insert(keyOf(a), a)
	return true
}

// Remove detaches a: its relations are torn down on both sides, it is
// dropped from every index and its id is reset to Detached.
func (s *Store) Remove(a *Annotation) bool {
	if !s.Contains(a) {
		return false
	}
	d := s.doc
	d.relMu.Lock()
	for _, r := range a.outgoing {
		if t, ok := s.byID[r.Target]; ok {
			t.incoming, _ = removeRelation(t.incoming, Relation{Type: r.Type, Value: r.Value, Target: a.id})
		}
	}
	for _, r := range a.incoming {
		if src, ok := s.byID[r.Target]; ok {
			src.outgoing, _ = removeRelation(src.outgoing, Relation{Type: r.Type, Value: r.Value, Target: a.id})
		}
	}
	a.outgoing = nil
	a.incoming = nil
	d.relMu.Unlock()

	s.tree.Delete(keyOf(a))
	delete(s.byID, a.id)
	if bm, ok := s.byType[a.typ]; ok {
		bm.Remove(a.id)
		if bm.IsEmpty() {
			delete(s.byType, a.typ)
		}
	}
	if tr, ok := s.typeTree[a.typ]; ok {
		tr.Delete(keyOf(a))
		if tr.Len() == 0 {
			delete(s.typeTree, a.typ)
		}
	}
	a.id = Detached
	return true
}

// Get returns the attached annotation with the given id.
func (s *Store) Get(id uint64) (*Annotation, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Contains reports whether a is attached and the store holds this very
// instance under its id.
func (s *Store) Contains(a *Annotation) bool {
	if a == nil || a.id == Detached {
		return false
	}
	return s.byID[a.id] == a
}

// Select returns every annotation matching pred in span order. A nil pred
// matches everything.
func (s *Store) Select(pred func(*Annotation) bool) []*Annotation {
	var out []*Annotation
	s.tree.Ascend(func(_ keyT, a *Annotation) bool {
		if pred == nil || pred(a) {
			out = append(out, a)
		}
		return true
	})
	return out
}

// Overlapping returns annotations overlapping sp that match pred, in span order.
func (s *Store) Overlapping(sp span.Span, pred func(*Annotation) bool) []*Annotation {
	var out []*Annotation
	s.tree.Overlapping(sp, func(_ keyT, a *Annotation) bool {
		if pred == nil || pred(a) {
			out = append(out, a)
		}
		return true
	})
	return out
}

// Enclosed returns annotations lying inside sp that match pred, in span
// order. Empty annotations at either edge of sp are included.
func (s *Store) Enclosed(sp span.Span, pred func(*Annotation) bool) []*Annotation {
	var out []*Annotation
	s.tree.Enclosed(sp, func(_ keyT, a *Annotation) bool {
		if pred == nil || pred(a) {
			out = append(out, a)
		}
		return true
	})
	return out
}

// Enclosing returns annotations whose span encloses sp that match pred, in
// span order.
func (s *Store) Enclosing(sp span.Span, pred func(*Annotation) bool) []*Annotation {
	var out []*Annotation
	s.tree.Enclosing(sp, func(_ keyT, a *Annotation) bool {
		if pred == nil || pred(a) {
			out = append(out, a)
		}
		return true
	})
	return out
}

// ids returns the ids of every annotation that is an instance of t.
func (s *Store) ids(t *types.AnnotationType) *roaring64.Bitmap {
	out := roaring64.New()
	for typ, bm := range s.byType {
		if typ.IsInstance(t) {
			out.Or(bm)
		}
	}
	return out
}

// Annotations returns every annotation that is an instance of t, in span order.
func (s *Store) Annotations(t *types.AnnotationType) []*Annotation {
	ids := s.ids(t)
	out := make([]*Annotation, 0, ids.GetCardinality())
	it := ids.Iterator()
	for it.HasNext() {
		out = append(out, s.byID[it.Next()])
	}
	slices.SortFunc(out, func(a, b *Annotation) int {
		return keyOf(a).Compare(keyOf(b))
	})
	return out
}

// Count returns the number of annotations that are instances of t.
func (s *Store) Count(t *types.AnnotationType) int {
	n := 0
	for typ, bm := range s.byType {
		if typ.IsInstance(t) {
			n += int(bm.GetCardinality())
		}
	}
	return n
}

// Next returns the smallest other annotation of type t (nil for any) whose
// span is >= a's span. It returns the empty annotation when none exists.
func (s *Store) Next(a *Annotation, t *types.AnnotationType) *Annotation {
	found := s.doc.empty
	if a.IsEmpty() {
		return found
	}
	for _, tr := range s.trees(t) {
		tr.AscendFrom(keyT{Span: a.span}, func(k keyT, b *Annotation) bool {
			if b == a {
				return true
			}
			if found.empty || k.Compare(keyOf(found)) < 0 {
				found = b
			}
			return false
		})
	}
	return found
}

// Previous returns the largest annotation of type t (nil for any) whose span
// is < a's span and that does not overlap a. It returns the empty annotation
// when none exists.
func (s *Store) Previous(a *Annotation, t *types.AnnotationType) *Annotation {
	found := s.doc.empty
	if a.IsEmpty() {
		return found
	}
	for _, tr := range s.trees(t) {
		tr.DescendBelow(keyT{Span: a.span}, func(k keyT, b *Annotation) bool {
			if b == a || b.span.Overlaps(a.span) {
				return true
			}
			if found.empty || k.Compare(keyOf(found)) > 0 {
				found = b
			}
			return false
		})
	}
	return found
}

// trees returns the tree to scan for neighbors of type t: the full tree for
// nil, otherwise the per-type tree of every instance of t.
func (s *Store) trees(t *types.AnnotationType) []*interval.Tree[*Annotation] {
	if t == nil {
		return []*interval.Tree[*Annotation]{s.tree}
	}
	var out []*interval.Tree[*Annotation]
	for typ, tr := range s.typeTree {
		if typ.IsInstance(t) {
			out = append(out, tr)
		}
	}
	return out
}

// RemoveAll removes everything of type t and then clears t's completion flag.
//
// For an annotation type every instance is removed. For an attribute type
// the attribute is stripped from every annotation and the document. For a
// relation type every relation of that type is removed. The returned slice
// holds the removed or modified annotations in span order.
func (s *Store) RemoveAll(t types.Annotatable) []*Annotation {
	var affected []*Annotation
	switch x := t.(type) {
	case *types.AnnotationType:
		affected = s.Annotations(x)
		for _, a := range affected {
			s.Remove(a)
		}
	case *types.AttributeType:
		affected = s.Select(func(a *Annotation) bool { return a.HasAttribute(x) })
		for _, a := range affected {
			a.RemoveAttribute(x)
		}
		s.doc.RemoveAttribute(x)
	case *types.RelationType:
		affected = s.Select(func(a *Annotation) bool { return len(a.Outgoing(x, false)) > 0 })
		for _, a := range affected {
			for _, r := range a.Outgoing(x, false) {
				a.RemoveRelation(r)
			}
		}
	}
	s.SetUncompleted(t)
	return affected
}
