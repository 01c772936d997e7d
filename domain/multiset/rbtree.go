package multiset

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
)

// ErrOutOfRange is returned by Select for a position outside [1, Count].
var ErrOutOfRange = errors.New("multiset: index out of range")

// RBTree is an ordered multiset. Keys that compare equal are the same
// element; only one representative key is kept, with a count.
type RBTree[K cmp.Ordered] struct {
	arena[K]
	root ref
}

// NewRBTree returns an empty tree.
func NewRBTree[K cmp.Ordered]() *RBTree[K] {
	return &RBTree[K]{arena: newArena[K](), root: sentinel}
}

// Count is the number of stored occurrences, duplicates included.
func (t *RBTree[K]) Count() int { return t.size(t.root) }

// Distinct is the number of distinct keys (real nodes).
func (t *RBTree[K]) Distinct() int { return len(t.nodes) - 1 - len(t.free) }

// Insert adds one occurrence of key.
func (t *RBTree[K]) Insert(key K) {
	y := sentinel
	x := t.root
	// Every node on the path gains one occurrence whatever happens below it.
	for x != sentinel {
		n := &t.nodes[x]
		n.size++
		y = x
		switch c := cmp.Compare(key, n.key); {
		case c < 0:
			x = n.left
		case c > 0:
			x = n.right
		default:
			n.count++
			t.assertValid("insert duplicate")
			return
		}
	}

	z := t.alloc(key, y)
	switch {
	case y == sentinel:
		t.root = z
	case cmp.Less(key, t.key(y)):
		t.nodes[y].left = z
	default:
		t.nodes[y].right = z
	}
	t.insertFixup(z)
	t.assertValid("insert")
}

// Delete removes one occurrence of key and reports whether one was present.
func (t *RBTree[K]) Delete(key K) bool {
	z := t.find(key)
	if z == sentinel {
		return false
	}
	if t.nodes[z].count > 1 {
		t.nodes[z].count--
		for p := z; p != sentinel; p = t.parent(p) {
			t.nodes[p].size--
		}
		t.assertValid("delete duplicate")
		return true
	}
	t.removeNode(z)
	t.assertValid("delete")
	return true
}

// Contains reports whether at least one occurrence of key is stored.
func (t *RBTree[K]) Contains(key K) bool {
	return t.find(key) != sentinel
}

// CountOf returns the number of stored occurrences of key.
func (t *RBTree[K]) CountOf(key K) int {
	return t.nodes[t.find(key)].count
}

// Select returns the k-th smallest occurrence, 1-based.
func (t *RBTree[K]) Select(k int) (K, error) {
	if k < 1 || k > t.Count() {
		var zero K
		return zero, fmt.Errorf("%w: k=%d, valid range is [1, %d]", ErrOutOfRange, k, t.Count())
	}
	x := t.root
	for {
		n := &t.nodes[x]
		leftSize := t.size(n.left)
		switch {
		case k <= leftSize:
			x = n.left
		case k <= leftSize+n.count:
			return n.key, nil
		default:
			k -= leftSize + n.count
			x = n.right
		}
	}
}

// Rank returns the number of stored occurrences strictly less than key.
// A less-or-equal rank is Rank(key) + CountOf(key).
func (t *RBTree[K]) Rank(key K) int {
	rank := 0
	x := t.root
	for x != sentinel {
		n := &t.nodes[x]
		switch c := cmp.Compare(key, n.key); {
		case c < 0:
			x = n.left
		case c > 0:
			rank += t.size(n.left) + n.count
			x = n.right
		default:
			return rank + t.size(n.left)
		}
	}
	return rank
}

// Min returns the smallest key.
func (t *RBTree[K]) Min() (K, bool) {
	n := t.min(t.root)
	return t.key(n), n != sentinel
}

// Max returns the largest key.
func (t *RBTree[K]) Max() (K, bool) {
	n := t.max(t.root)
	return t.key(n), n != sentinel
}

// All yields every stored occurrence in ascending order, duplicates
// adjacent. Each call starts a fresh walk. The tree must not be modified
// while the sequence is being consumed.
func (t *RBTree[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for n := t.min(t.root); n != sentinel; n = t.next(n) {
			key := t.key(n)
			for range t.nodes[n].count {
				if !yield(key) {
					return
				}
			}
		}
	}
}

// Entries yields each distinct key once, ascending, with its count.
func (t *RBTree[K]) Entries() iter.Seq2[K, int] {
	return func(yield func(K, int) bool) {
		for n := t.min(t.root); n != sentinel; n = t.next(n) {
			if !yield(t.key(n), t.nodes[n].count) {
				return
			}
		}
	}
}

// Clear empties the tree, keeping the arena's capacity.
func (t *RBTree[K]) Clear() {
	t.reset()
	t.root = sentinel
}

/******************** Internal helpers ********************/

func (t *RBTree[K]) find(key K) ref {
	x := t.root
	for x != sentinel {
		switch c := cmp.Compare(key, t.key(x)); {
		case c < 0:
			x = t.left(x)
		case c > 0:
			x = t.right(x)
		default:
			return x
		}
	}
	return sentinel
}

// transplant puts v where u hangs. v may be the sentinel, whose parent link
// is left untouched; callers track that parent themselves.
func (t *RBTree[K]) transplant(u, v ref) {
	up := t.parent(u)
	switch {
	case up == sentinel:
		t.root = v
	case u == t.left(up):
		t.nodes[up].left = v
	default:
		t.nodes[up].right = v
	}
	if v != sentinel {
		t.nodes[v].parent = up
	}
}

// removeNode unlinks z, whose count is 1, and frees its slot.
func (t *RBTree[K]) removeNode(z ref) {
	y := z
	removed := t.color(y)
	var x, xParent ref

	switch {
	case t.left(z) == sentinel:
		x = t.right(z)
		xParent = t.parent(z)
		t.transplant(z, x)
	case t.right(z) == sentinel:
		x = t.left(z)
		xParent = t.parent(z)
		t.transplant(z, x)
	default:
		// y is the in-order successor; it keeps its own key and count and
		// takes over z's position and colour.
		y = t.min(t.right(z))
		removed = t.color(y)
		x = t.right(y)
		if t.parent(y) == z {
			xParent = y
		} else {
			xParent = t.parent(y)
			t.transplant(y, x)
			t.nodes[y].right = t.right(z)
			t.nodes[t.right(y)].parent = y
		}
		t.transplant(z, y)
		t.nodes[y].left = t.left(z)
		t.nodes[t.left(y)].parent = y
		t.setColor(y, t.color(z))
	}

	// Every subtree that lost z, or gained y, sits on this path.
	for p := xParent; p != sentinel; p = t.parent(p) {
		t.recalc(p)
	}

	if removed == black {
		t.deleteFixup(x, xParent)
	}
	t.release(z)
}
