package multiset

import "cmp"

// Color is a node's red-black colour.
type Color uint8

// black is the zero value so the sentinel slot is black without a write.
const (
	black Color = iota
	red
)

func (c Color) String() string {
	if c == red {
		return "red"
	}
	return "black"
}

// ref is an index into the node arena.
type ref uint32

// sentinel is the reserved arena slot standing in for every absent child,
// absent parent and the empty root.
const sentinel ref = 0

type node[K cmp.Ordered] struct {
	key    K
	left   ref
	right  ref
	parent ref
	count  int // occurrences of key folded into this node
	size   int // count + left.size + right.size
	color  Color
}

// arena owns the node storage. Slot 0 is the sentinel: black, size 0,
// count 0, all links pointing at itself.
type arena[K cmp.Ordered] struct {
	nodes []node[K]
	free  []ref
}

func newArena[K cmp.Ordered]() arena[K] {
	return arena[K]{nodes: make([]node[K], 1, 16)}
}

// alloc returns a red leaf holding one occurrence of key.
func (a *arena[K]) alloc(key K, parent ref) ref {
	n := node[K]{
		key:    key,
		left:   sentinel,
		right:  sentinel,
		parent: parent,
		count:  1,
		size:   1,
		color:  red,
	}
	if l := len(a.free); l > 0 {
		i := a.free[l-1]
		a.free = a.free[:l-1]
		a.nodes[i] = n
		return i
	}
	a.nodes = append(a.nodes, n)
	return ref(len(a.nodes) - 1)
}

// release zeroes a detached slot and queues it for reuse.
func (a *arena[K]) release(i ref) {
	a.nodes[i] = node[K]{}
	a.free = append(a.free, i)
}

func (a *arena[K]) reset() {
	clear(a.nodes)
	a.nodes = a.nodes[:1]
	a.free = a.free[:0]
}

/******************** Accessors ********************/

// Reads through the sentinel are fine; writes to it are bugs.

func (a *arena[K]) left(i ref) ref { return a.nodes[i].left }
func (a *arena[K]) right(i ref) ref { return a.nodes[i].right }
func (a *arena[K]) parent(i ref) ref { return a.nodes[i].parent }
func (a *arena[K]) color(i ref) Color { return a.nodes[i].color }
func (a *arena[K]) size(i ref) int { return a.nodes[i].size }
func (a *arena[K]) key(i ref) K { return a.nodes[i].key }
func (a *arena[K]) setColor(i ref, c Color) { a.nodes[i].color = c }

// recalc rebuilds the size of i from its children.
func (a *arena[K]) recalc(i ref) {
	n := &a.nodes[i]
	n.size = a.nodes[n.left].size + a.nodes[n.right].size + n.count
}

func (a *arena[K]) min(i ref) ref {
	for i != sentinel && a.nodes[i].left != sentinel {
		i = a.nodes[i].left
	}
	return i
}

func (a *arena[K]) max(i ref) ref {
	for i != sentinel && a.nodes[i].right != sentinel {
		i = a.nodes[i].right
	}
	return i
}

// next is the in-order successor of i, or the sentinel.
func (a *arena[K]) next(i ref) ref {
	if r := a.nodes[i].right; r != sentinel {
		return a.min(r)
	}
	p := a.nodes[i].parent
	for p != sentinel && i == a.nodes[p].right {
		i = p
		p = a.nodes[p].parent
	}
	return p
}
