// Command msdemo walks through the multiset operations on a small fixed
// input and prints the results.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"rankd/domain/multiset"
)

var demoKeys = []int{10, 10, 5, 12, 3, 7, 15, 10}

func main() {
	if err := demo(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "msdemo:", err)
		os.Exit(1)
	}
}

func demo(out io.Writer) error {
	tree := multiset.NewRBTree[int]()
	for _, k := range demoKeys {
		tree.Insert(k)
	}

	fmt.Fprintf(out, "inserted %v\n", demoKeys)
	fmt.Fprintf(out, "count:    %d\n", tree.Count())
	fmt.Fprintf(out, "in order: %s\n", join(tree))

	lo, err := tree.Select(1)
	if err != nil {
		return err
	}
	hi, err := tree.Select(tree.Count())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "min: %d  max: %d\n", lo, hi)
	fmt.Fprintf(out, "rank(10): %d\n", tree.Rank(10))

	fmt.Fprintln(out, "\nnodes:")
	if err := tree.Dump(out); err != nil {
		return err
	}

	fmt.Fprintf(out, "\ndelete(10): %v\n", tree.Delete(10))
	fmt.Fprintf(out, "contains(10): %v  count: %d\n", tree.Contains(10), tree.Count())
	fmt.Fprintf(out, "in order: %s\n", join(tree))

	for tree.Delete(10) {
	}
	fmt.Fprintf(out, "after removing every 10: contains(10): %v  count: %d\n", tree.Contains(10), tree.Count())

	if _, err := tree.Select(tree.Count() + 1); err != nil {
		fmt.Fprintf(out, "select(%d): %v\n", tree.Count()+1, err)
	}
	return tree.Verify()
}

func join(tree *multiset.RBTree[int]) string {
	var b strings.Builder
	for v := range tree.All() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, v)
	}
	return b.String()
}
