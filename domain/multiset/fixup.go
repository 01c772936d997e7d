package multiset

// insertFixup restores the red-black properties after z was linked in as a
// red leaf.
func (t *RBTree[K]) insertFixup(z ref) {
	for t.color(t.parent(z)) == red {
		p := t.parent(z)
		g := t.parent(p)
		if p == t.left(g) {
			u := t.right(g)
			if t.color(u) == red {
				t.setColor(p, black)
				t.setColor(u, black)
				t.setColor(g, red)
				z = g
				continue
			}
			if z == t.right(p) {
				z = p
				t.rotateLeft(z)
				p = t.parent(z)
			}
			t.setColor(p, black)
			t.setColor(g, red)
			t.rotateRight(g)
		} else {
			u := t.left(g)
			if t.color(u) == red {
				t.setColor(p, black)
				t.setColor(u, black)
				t.setColor(g, red)
				z = g
				continue
			}
			if z == t.left(p) {
				z = p
				t.rotateRight(z)
				p = t.parent(z)
			}
			t.setColor(p, black)
			t.setColor(g, red)
			t.rotateLeft(g)
		}
	}
	t.setColor(t.root, black)
}

// deleteFixup removes the extra black carried by x. x may be the sentinel,
// so its parent is passed in rather than read from the node.
func (t *RBTree[K]) deleteFixup(x, xParent ref) {
	for x != t.root && t.color(x) == black {
		if x == t.left(xParent) {
			w := t.right(xParent)
			if t.color(w) == red {
				t.setColor(w, black)
				t.setColor(xParent, red)
				t.rotateLeft(xParent)
				w = t.right(xParent)
			}
			if t.color(t.left(w)) == black && t.color(t.right(w)) == black {
				t.setColor(w, red)
				x = xParent
				xParent = t.parent(x)
				continue
			}
			if t.color(t.right(w)) == black {
				t.setColor(t.left(w), black)
				t.setColor(w, red)
				t.rotateRight(w)
				w = t.right(xParent)
			}
			t.setColor(w, t.color(xParent))
			t.setColor(xParent, black)
			t.setColor(t.right(w), black)
			t.rotateLeft(xParent)
			x = t.root
		} else {
			w := t.left(xParent)
			if t.color(w) == red {
				t.setColor(w, black)
				t.setColor(xParent, red)
				t.rotateRight(xParent)
				w = t.left(xParent)
			}
			if t.color(t.left(w)) == black && t.color(t.right(w)) == black {
				t.setColor(w, red)
				x = xParent
				xParent = t.parent(x)
				continue
			}
			if t.color(t.left(w)) == black {
				t.setColor(t.right(w), black)
				t.setColor(w, red)
				t.rotateLeft(w)
				w = t.left(xParent)
			}
			t.setColor(w, t.color(xParent))
			t.setColor(xParent, black)
			t.setColor(t.left(w), black)
			t.rotateRight(xParent)
			x = t.root
		}
	}
	if x != sentinel {
		t.setColor(x, black)
	}
}
