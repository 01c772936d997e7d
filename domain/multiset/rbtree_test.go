package multiset_test

import (
	"bytes"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankd/domain/multiset"
)

func sample() *multiset.RBTree[int] {
	tree := multiset.NewRBTree[int]()
	for _, k := range []int{10, 10, 5, 12, 3, 7, 15, 10} {
		tree.Insert(k)
	}
	return tree
}

func TestInsertWithDuplicates(t *testing.T) {
	tree := sample()
	require.NoError(t, tree.Verify())
	assert.Equal(t, 8, tree.Count())
	assert.Equal(t, 6, tree.Distinct())
	assert.Equal(t, []int{3, 5, 7, 10, 10, 10, 12, 15}, slices.Collect(tree.All()))
}

func TestContains(t *testing.T) {
	tree := sample()
	assert.True(t, tree.Contains(10))
	assert.False(t, tree.Contains(999))
	assert.Equal(t, 3, tree.CountOf(10))
	assert.Equal(t, 0, tree.CountOf(999))
}

func TestSelectAndRank(t *testing.T) {
	tree := sample()

	first, err := tree.Select(1)
	require.NoError(t, err)
	assert.Equal(t, 3, first)

	last, err := tree.Select(8)
	require.NoError(t, err)
	assert.Equal(t, 15, last)

	for k := 4; k <= 6; k++ {
		v, err := tree.Select(k)
		require.NoError(t, err)
		assert.Equal(t, 10, v, "k=%d", k)
	}

	assert.Equal(t, 3, tree.Rank(10))
	assert.Equal(t, 0, tree.Rank(3))
	assert.Equal(t, 0, tree.Rank(-1))
	assert.Equal(t, 6, tree.Rank(11))
	assert.Equal(t, 8, tree.Rank(100))
}

func TestDeleteDuplicatesThenNode(t *testing.T) {
	tree := sample()

	require.True(t, tree.Delete(10))
	require.NoError(t, tree.Verify())
	assert.Equal(t, 7, tree.Count())
	assert.Equal(t, []int{3, 5, 7, 10, 10, 12, 15}, slices.Collect(tree.All()))

	require.True(t, tree.Delete(10))
	require.True(t, tree.Delete(10))
	require.NoError(t, tree.Verify())
	assert.Equal(t, 5, tree.Count())
	assert.Equal(t, 5, tree.Distinct())
	assert.False(t, tree.Contains(10))
	assert.False(t, tree.Delete(10))
	assert.Equal(t, []int{3, 5, 7, 12, 15}, slices.Collect(tree.All()))
}

func TestEmptyTree(t *testing.T) {
	tree := multiset.NewRBTree[int]()
	assert.Equal(t, 0, tree.Count())
	assert.False(t, tree.Delete(42))
	assert.False(t, tree.Contains(42))
	assert.Equal(t, 0, tree.Rank(42))
	assert.Empty(t, slices.Collect(tree.All()))

	_, err := tree.Select(1)
	require.ErrorIs(t, err, multiset.ErrOutOfRange)

	_, ok := tree.Min()
	assert.False(t, ok)
	_, ok = tree.Max()
	assert.False(t, ok)
	require.NoError(t, tree.Verify())
}

func TestSelectOutOfRange(t *testing.T) {
	tree := sample()
	for _, k := range []int{-1, 0, 9, 100} {
		_, err := tree.Select(k)
		require.ErrorIs(t, err, multiset.ErrOutOfRange, "k=%d", k)
		assert.Contains(t, err.Error(), "[1, 8]")
	}
}

func TestMinMax(t *testing.T) {
	tree := sample()
	lo, ok := tree.Min()
	require.True(t, ok)
	assert.Equal(t, 3, lo)
	hi, ok := tree.Max()
	require.True(t, ok)
	assert.Equal(t, 15, hi)
}

func TestEntries(t *testing.T) {
	tree := sample()
	var keys, counts []int
	for k, c := range tree.Entries() {
		keys = append(keys, k)
		counts = append(counts, c)
	}
	assert.Equal(t, []int{3, 5, 7, 10, 12, 15}, keys)
	assert.Equal(t, []int{1, 1, 1, 3, 1, 1}, counts)
}

func TestAllStopsEarly(t *testing.T) {
	tree := sample()
	var got []int
	for k := range tree.All() {
		got = append(got, k)
		if len(got) == 4 {
			break
		}
	}
	assert.Equal(t, []int{3, 5, 7, 10}, got)
	// A second walk starts from the beginning.
	assert.Len(t, slices.Collect(tree.All()), 8)
}

func TestClearReusesTree(t *testing.T) {
	tree := sample()
	tree.Clear()
	require.NoError(t, tree.Verify())
	assert.Equal(t, 0, tree.Count())
	assert.Equal(t, 0, tree.Distinct())

	tree.Insert(1)
	tree.Insert(1)
	assert.Equal(t, []int{1, 1}, slices.Collect(tree.All()))
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	tree := sample()
	before := slices.Collect(tree.All())
	for _, k := range []int{10, 3, 1, 99, 8} {
		tree.Insert(k)
		require.True(t, tree.Delete(k))
		require.NoError(t, tree.Verify())
		assert.Equal(t, before, slices.Collect(tree.All()), "key %d", k)
		assert.Equal(t, len(before), tree.Count())
	}
}

func TestStringKeys(t *testing.T) {
	tree := multiset.NewRBTree[string]()
	for _, s := range []string{"pear", "apple", "fig", "apple"} {
		tree.Insert(s)
	}
	assert.Equal(t, []string{"apple", "apple", "fig", "pear"}, slices.Collect(tree.All()))
	assert.Equal(t, 2, tree.Rank("banana"))
}

func TestSequentialInsertDelete(t *testing.T) {
	tree := multiset.NewRBTree[int]()
	const n = 1000
	for i := range n {
		tree.Insert(i)
	}
	require.NoError(t, tree.Verify())
	for i := 0; i < n; i += 2 {
		require.True(t, tree.Delete(i))
	}
	require.NoError(t, tree.Verify())
	assert.Equal(t, n/2, tree.Count())
	for i := n - 1; i >= 0; i-- {
		assert.Equal(t, i%2 == 1, tree.Delete(i))
	}
	require.NoError(t, tree.Verify())
	assert.Equal(t, 0, tree.Count())
}

// model is a sorted slice holding the same occurrences as the tree.
type model []int

func (m *model) insert(k int) {
	i, _ := slices.BinarySearch(*m, k)
	*m = slices.Insert(*m, i, k)
}

func (m *model) delete(k int) bool {
	i, ok := slices.BinarySearch(*m, k)
	if ok {
		*m = slices.Delete(*m, i, i+1)
	}
	return ok
}

func (m model) rank(k int) int {
	i, _ := slices.BinarySearch(m, k)
	return i
}

func TestRandomOperationsAgainstModel(t *testing.T) {
	for seed := uint64(1); seed <= 8; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*31))
		tree := multiset.NewRBTree[int]()
		var ref model

		for step := range 2000 {
			k := rng.IntN(200)
			if rng.IntN(3) == 0 {
				assert.Equal(t, ref.delete(k), tree.Delete(k), "seed %d step %d delete %d", seed, step, k)
			} else {
				tree.Insert(k)
				ref.insert(k)
			}
			require.NoError(t, tree.Verify(), "seed %d step %d", seed, step)
			require.Equal(t, len(ref), tree.Count(), "seed %d step %d", seed, step)
		}
		require.Equal(t, len(ref), tree.Count())
		require.Equal(t, []int(ref), slices.Collect(tree.All()))

		for k := -1; k <= 201; k++ {
			assert.Equal(t, ref.rank(k), tree.Rank(k), "rank %d", k)
		}
		for i := range ref {
			v, err := tree.Select(i + 1)
			require.NoError(t, err)
			assert.Equal(t, ref[i], v)
		}
	}
}

func TestRankSelectDuality(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	tree := multiset.NewRBTree[int]()
	for range 500 {
		tree.Insert(rng.IntN(60))
	}

	prev := -1
	for k := 1; k <= tree.Count(); k++ {
		v, err := tree.Select(k)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, prev, "select must not decrease")
		prev = v

		r := tree.Rank(v)
		assert.Less(t, r, k)
		assert.LessOrEqual(t, k, r+tree.CountOf(v))
	}
}

func TestDump(t *testing.T) {
	tree := multiset.NewRBTree[int]()
	for _, k := range []int{2, 1, 3, 3} {
		tree.Insert(k)
	}

	nodes := tree.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, multiset.NodeInfo[int]{Key: 2, Color: nodes[1].Color, Count: 1, Size: 4}, nodes[1])
	assert.Equal(t, "black", nodes[1].Color.String())
	assert.Equal(t, 3, nodes[2].Key)
	assert.Equal(t, 2, nodes[2].Count)
	assert.Equal(t, 2, nodes[2].Size)

	var buf bytes.Buffer
	require.NoError(t, tree.Dump(&buf))
	out := buf.String()
	assert.Contains(t, out, "1 red count=1 size=1\n")
	assert.Contains(t, out, "3 red count=2 size=2\n")
	assert.Contains(t, out, "2 black count=1 size=4")

	buf.Reset()
	require.NoError(t, multiset.NewRBTree[int]().Dump(&buf))
	assert.Equal(t, "(empty)\n", buf.String())
}
