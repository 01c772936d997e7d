package multiset

import (
	"cmp"
	"fmt"
)

// Verify walks the whole tree and checks the structural invariants: BST
// order with no equal keys, positive counts, subtree sizes, parent links,
// no red node with a red child, equal black height on every path, a black
// root and an untouched sentinel. It is O(n) and meant for tests and debug
// builds.
func (t *RBTree[K]) Verify() error {
	s := t.nodes[sentinel]
	if s.color != black || s.size != 0 || s.count != 0 ||
		s.left != sentinel || s.right != sentinel || s.parent != sentinel {
		return fmt.Errorf("sentinel was written: %+v", s)
	}
	if t.root == sentinel {
		return nil
	}
	if t.color(t.root) != black {
		return fmt.Errorf("root %v is red", t.key(t.root))
	}
	if p := t.parent(t.root); p != sentinel {
		return fmt.Errorf("root %v has parent %d", t.key(t.root), p)
	}
	_, err := t.verify(t.root, nil, nil)
	return err
}

// verify checks the subtree at i, whose keys must lie strictly between lo
// and hi when those are set, and returns its black height.
func (t *RBTree[K]) verify(i ref, lo, hi *K) (int, error) {
	if i == sentinel {
		return 1, nil
	}
	n := &t.nodes[i]
	if lo != nil && cmp.Compare(n.key, *lo) <= 0 {
		return 0, fmt.Errorf("key %v not above %v", n.key, *lo)
	}
	if hi != nil && cmp.Compare(n.key, *hi) >= 0 {
		return 0, fmt.Errorf("key %v not below %v", n.key, *hi)
	}
	if n.count < 1 {
		return 0, fmt.Errorf("key %v has count %d", n.key, n.count)
	}
	if want := t.size(n.left) + t.size(n.right) + n.count; n.size != want {
		return 0, fmt.Errorf("key %v has size %d, want %d", n.key, n.size, want)
	}
	for _, c := range [2]ref{n.left, n.right} {
		if c == sentinel {
			continue
		}
		if t.parent(c) != i {
			return 0, fmt.Errorf("child %v of %v points at parent %d", t.key(c), n.key, t.parent(c))
		}
		if n.color == red && t.color(c) == red {
			return 0, fmt.Errorf("red %v has red child %v", n.key, t.key(c))
		}
	}

	lh, err := t.verify(n.left, lo, &n.key)
	if err != nil {
		return 0, err
	}
	rh, err := t.verify(n.right, &n.key, hi)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("key %v has black heights %d and %d", n.key, lh, rh)
	}
	if n.color == black {
		lh++
	}
	return lh, nil
}

// assertValid panics when debug checks are compiled in and the tree is
// broken after op.
func (t *RBTree[K]) assertValid(op string) {
	if !debug {
		return
	}
	if err := t.Verify(); err != nil {
		panic(fmt.Sprintf("multiset: after %s: %v", op, err))
	}
}
