package interval

import (
	"cmp"

	"github.com/hupe1980/annogo/span"
)

// Key orders entries by span and breaks ties by ID, so identical spans can
// coexist in one tree.
type Key struct {
	Span span.Span
	ID   uint64
}

// Compare orders keys by (Span, ID).
func (k Key) Compare(o Key) int {
	if c := k.Span.Compare(o.Span); c != 0 {
		return c
	}
	return cmp.Compare(k.ID, o.ID)
}

type node[V any] struct {
	key    Key
	val    V
	left   *node[V]
	right  *node[V]
	height int
	maxEnd int // largest span end in this subtree
}

// Tree is an AVL tree of Key → V augmented with the maximum span end of each
// subtree. It is not safe for concurrent mutation.
type Tree[V any] struct {
	root *node[V]
	size int
}

// New returns an empty tree.
func New[V any]() *Tree[V] {
	return &Tree[V]{}
}

// Len returns the number of entries.
func (t *Tree[V]) Len() int { return t.size }

// Clear removes every entry.
func (t *Tree[V]) Clear() {
	t.root = nil
	t.size = 0
}

// Insert adds k → v. It returns false if k is already present.
func (t *Tree[V]) Insert(k Key, v V) bool {
	var ok bool
	t.root, ok = insert(t.root, k, v)
	if ok {
		t.size++
	}
	return ok
}

// Delete removes k and reports whether it was present.
func (t *Tree[V]) Delete(k Key) bool {
	var ok bool
	t.root, ok = remove(t.root, k)
	if ok {
		t.size--
	}
	return ok
}

// Get returns the value stored under k.
func (t *Tree[V]) Get(k Key) (V, bool) {
	n := t.root
	for n != nil {
		switch c := k.Compare(n.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.val, true
		}
	}
	var zero V
	return zero, false
}

// Ascend calls fn for every entry in key order until fn returns false.
func (t *Tree[V]) Ascend(fn func(Key, V) bool) {
	ascend(t.root, fn)
}

// AscendFrom calls fn in key order for every entry whose key is >= pivot.
func (t *Tree[V]) AscendFrom(pivot Key, fn func(Key, V) bool) {
	ascendFrom(t.root, pivot, fn)
}

// DescendBelow calls fn in reverse key order for every entry whose key is < pivot.
func (t *Tree[V]) DescendBelow(pivot Key, fn func(Key, V) bool) {
	descendBelow(t.root, pivot, fn)
}

// Overlapping calls fn in key order for every entry whose span overlaps q.
//
// Subtrees whose maximum end is at or before q.Start, and right subtrees of
// nodes starting at or after q.End, are never visited.
func (t *Tree[V]) Overlapping(q span.Span, fn func(Key, V) bool) {
	overlapping(t.root, q, fn)
}

// Enclosed calls fn in key order for every entry whose span lies inside q,
// including empty spans at either edge of q.
func (t *Tree[V]) Enclosed(q span.Span, fn func(Key, V) bool) {
	ascendFrom(t.root, Key{Span: span.Span{Start: q.Start, End: q.Start}}, func(k Key, v V) bool {
		if k.Span.Start > q.End {
			return false
		}
		if q.Encloses(k.Span) {
			return fn(k, v)
		}
		return true
	})
}

// Enclosing calls fn in key order for every entry whose span encloses q.
func (t *Tree[V]) Enclosing(q span.Span, fn func(Key, V) bool) {
	enclosing(t.root, q, fn)
}

func height[V any](n *node[V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func update[V any](n *node[V]) {
	n.height = 1 + max(height(n.left), height(n.right))
	n.maxEnd = n.key.Span.End
	if n.left != nil && n.left.maxEnd > n.maxEnd {
		n.maxEnd = n.left.maxEnd
	}
	if n.right != nil && n.right.maxEnd > n.maxEnd {
		n.maxEnd = n.right.maxEnd
	}
}

func rotateRight[V any](y *node[V]) *node[V] {
	x := y.left
	y.left = x.right
	x.right = y
	update(y)
	update(x)
	return x
}

func rotateLeft[V any](x *node[V]) *node[V] {
	y := x.right
	x.right = y.left
	y.left = x
	update(x)
	update(y)
	return y
}

func rebalance[V any](n *node[V]) *node[V] {
	update(n)
	switch bf := height(n.left) - height(n.right); {
	case bf > 1:
		if height(n.left.left) < height(n.left.right) {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if height(n.right.right) < height(n.right.left) {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func insert[V any](n *node[V], k Key, v V) (*node[V], bool) {
	if n == nil {
		return &node[V]{key: k, val: v, height: 1, maxEnd: k.Span.End}, true
	}
	var ok bool
	switch c := k.Compare(n.key); {
	case c < 0:
		n.left, ok = insert(n.left, k, v)
	case c > 0:
		n.right, ok = insert(n.right, k, v)
	default:
		return n, false
	}
	if !ok {
		return n, false
	}
	return rebalance(n), true
}

func remove[V any](n *node[V], k Key) (*node[V], bool) {
	if n == nil {
		return nil, false
	}
	var ok bool
	switch c := k.Compare(n.key); {
	case c < 0:
		n.left, ok = remove(n.left, k)
	case c > 0:
		n.right, ok = remove(n.right, k)
	default:
		ok = true
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		succ := n.right
		for succ.left != nil {
			succ = succ.left
		}
		n.key, n.val = succ.key, succ.val
		n.right, _ = remove(n.right, succ.key)
	}
	if !ok {
		return n, false
	}
	return rebalance(n), true
}

func ascend[V any](n *node[V], fn func(Key, V) bool) bool {
	if n == nil {
		return true
	}
	return ascend(n.left, fn) && fn(n.key, n.val) && ascend(n.right, fn)
}

func ascendFrom[V any](n *node[V], pivot Key, fn func(Key, V) bool) bool {
	if n == nil {
		return true
	}
	if n.key.Compare(pivot) >= 0 {
		if !ascendFrom(n.left, pivot, fn) || !fn(n.key, n.val) {
			return false
		}
	}
	return ascendFrom(n.right, pivot, fn)
}

func descendBelow[V any](n *node[V], pivot Key, fn func(Key, V) bool) bool {
	if n == nil {
		return true
	}
	if n.key.Compare(pivot) < 0 {
		if !descendBelow(n.right, pivot, fn) || !fn(n.key, n.val) {
			return false
		}
	}
	return descendBelow(n.left, pivot, fn)
}

func overlapping[V any](n *node[V], q span.Span, fn func(Key, V) bool) bool {
	if n == nil || n.maxEnd <= q.Start {
		return true
	}
	if !overlapping(n.left, q, fn) {
		return false
	}
	if n.key.Span.Overlaps(q) && !fn(n.key, n.val) {
		return false
	}
	if n.key.Span.Start >= q.End {
		return true
	}
	return overlapping(n.right, q, fn)
}

func enclosing[V any](n *node[V], q span.Span, fn func(Key, V) bool) bool {
	if n == nil || n.maxEnd < q.End {
		return true
	}
	if !enclosing(n.left, q, fn) {
		return false
	}
	if n.key.Span.Start > q.Start {
		return true
	}
	if n.key.Span.Encloses(q) && !fn(n.key, n.val) {
		return false
	}
	return enclosing(n.right, q, fn)
}
