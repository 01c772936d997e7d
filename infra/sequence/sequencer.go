// Package sequence hands out the monotonic numbers that order WAL records
// and checkpoints.
package sequence

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrOutOfOrder = errors.New("sequence: commit out of order")
	ErrBackwards  = errors.New("sequence: reset below committed number")
)

// Sequencer numbers mutations in two steps: Peek proposes the next number
// and Commit records it once the mutation is durable, so a failed write
// never burns a number. Zero means nothing has been committed yet.
type Sequencer struct {
	last atomic.Uint64
}

// New returns a sequencer whose last committed number is start.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.last.Store(start)
	return s
}

// Peek returns the number the next Commit expects.
func (s *Sequencer) Peek() uint64 {
	return s.last.Load() + 1
}

// Commit marks seq as used. It fails unless seq directly follows the last
// committed number.
func (s *Sequencer) Commit(seq uint64) error {
	if !s.last.CompareAndSwap(seq-1, seq) {
		return fmt.Errorf("%w: %d after %d", ErrOutOfOrder, seq, s.last.Load())
	}
	return nil
}

// Current returns the last committed number.
func (s *Sequencer) Current() uint64 {
	return s.last.Load()
}

// Reset moves the sequencer forward to v after recovery. Moving it back
// would hand out numbers that already sit in the WAL.
func (s *Sequencer) Reset(v uint64) error {
	for {
		cur := s.last.Load()
		if v < cur {
			return fmt.Errorf("%w: %d < %d", ErrBackwards, v, cur)
		}
		if s.last.CompareAndSwap(cur, v) {
			return nil
		}
	}
}
