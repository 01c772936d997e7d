package multiset

// rotateLeft lifts x's right child y into x's place:
//
//	    x              y
//	   / \            / \
//	  a   y    =>    x   c
//	     / \        / \
//	    b   c      a   b
//
// It returns y. Sizes are rebuilt for x first, then y, since y's size is
// derived from x's.
func (t *RBTree[K]) rotateLeft(x ref) ref {
	y := t.right(x)
	b := t.left(y)

	t.nodes[x].right = b
	if b != sentinel {
		t.nodes[b].parent = x
	}
	t.transplant(x, y)
	t.nodes[y].left = x
	t.nodes[x].parent = y

	t.recalc(x)
	t.recalc(y)
	return y
}

// rotateRight is the mirror of rotateLeft; it lifts x's left child.
func (t *RBTree[K]) rotateRight(x ref) ref {
	y := t.left(x)
	b := t.right(y)

	t.nodes[x].left = b
	if b != sentinel {
		t.nodes[b].parent = x
	}
	t.transplant(x, y)
	t.nodes[y].right = x
	t.nodes[x].parent = y

	t.recalc(x)
	t.recalc(y)
	return y
}
