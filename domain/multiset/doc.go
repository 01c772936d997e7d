// Package multiset implements an ordered multiset on top of a red-black
// tree whose nodes carry subtree sizes, giving O(log n) insert, delete,
// membership, rank and select.
//
// Duplicates of a key share one node that counts its occurrences. Nodes
// live in an arena slice and refer to each other by index; index 0 is the
// black sentinel and is never written.
//
// An RBTree is not safe for concurrent use. Callers that share one across
// goroutines must serialise access themselves.
package multiset
