package multiset

import (
	"fmt"
	"io"

	"github.com/xlab/treeprint"
)

// NodeInfo is a snapshot of one node for diagnostics.
type NodeInfo[K any] struct {
	Key   K
	Color Color
	Count int
	Size  int
}

func (n NodeInfo[K]) String() string {
	return fmt.Sprintf("%v %s count=%d size=%d", n.Key, n.Color, n.Count, n.Size)
}

// Nodes lists every node in ascending key order.
func (t *RBTree[K]) Nodes() []NodeInfo[K] {
	out := make([]NodeInfo[K], 0, t.Distinct())
	for n := t.min(t.root); n != sentinel; n = t.next(n) {
		out = append(out, t.info(n))
	}
	return out
}

// Dump writes one line per node in ascending order followed by the tree
// shape, right subtree listed before the left one under each node.
func (t *RBTree[K]) Dump(w io.Writer) error {
	for _, n := range t.Nodes() {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	if t.root == sentinel {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	shape := treeprint.NewWithRoot(t.info(t.root).String())
	t.addBranches(shape, t.root)
	_, err := io.WriteString(w, shape.String())
	return err
}

func (t *RBTree[K]) addBranches(tree treeprint.Tree, i ref) {
	for _, c := range [2]ref{t.right(i), t.left(i)} {
		if c == sentinel {
			continue
		}
		t.addBranches(tree.AddBranch(t.info(c).String()), c)
	}
}

func (t *RBTree[K]) info(i ref) NodeInfo[K] {
	n := &t.nodes[i]
	return NodeInfo[K]{Key: n.key, Color: n.color, Count: n.count, Size: n.size}
}
