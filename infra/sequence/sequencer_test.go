package sequence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekDoesNotAdvance(t *testing.T) {
	s := New(0)
	assert.Equal(t, uint64(1), s.Peek())
	assert.Equal(t, uint64(1), s.Peek())
	assert.Zero(t, s.Current())

	require.NoError(t, s.Commit(1))
	assert.Equal(t, uint64(2), s.Peek())
	assert.Equal(t, uint64(1), s.Current())
}

func TestCommitRejectsGapsAndRepeats(t *testing.T) {
	s := New(5)
	require.ErrorIs(t, s.Commit(7), ErrOutOfOrder)
	require.ErrorIs(t, s.Commit(5), ErrOutOfOrder)
	assert.Equal(t, uint64(5), s.Current())

	require.NoError(t, s.Commit(6))
	require.ErrorIs(t, s.Commit(6), ErrOutOfOrder)
}

func TestResetOnlyMovesForward(t *testing.T) {
	s := New(0)
	require.NoError(t, s.Reset(100))
	assert.Equal(t, uint64(101), s.Peek())

	require.NoError(t, s.Reset(100))
	require.ErrorIs(t, s.Reset(99), ErrBackwards)
	assert.Equal(t, uint64(100), s.Current())
}

func TestCommitIsUniqueAcrossGoroutines(t *testing.T) {
	s := New(10)
	const workers, each = 8, 1000

	var mu sync.Mutex
	seen := make(map[uint64]struct{}, workers*each)
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for range each {
				for {
					n := s.Peek()
					if s.Commit(n) != nil {
						continue
					}
					mu.Lock()
					seen[n] = struct{}{}
					mu.Unlock()
					break
				}
			}
		})
	}
	wg.Wait()

	assert.Len(t, seen, workers*each)
	assert.Equal(t, uint64(10+workers*each), s.Current())
}
