package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rankd/domain/multiset"
	"rankd/infra/sequence"
	"rankd/infra/wal"
)

/*
IndexService is the ONLY write entry point into the index.

Every mutation runs in this order under the lock:
  1. append the WAL record under the next sequence number
  2. commit that number
  3. apply to the tree
  4. update metrics
and the change event is published after the lock is released.
*/
type IndexService struct {
	mu   sync.RWMutex
	tree *multiset.RBTree[int64]
	seq  *sequence.Sequencer
	wal  *wal.WAL
	sink EventSink
	log  *slog.Logger
}

// NewIndexService wires the dependencies. w may be nil for an index that
// is never persisted; sink may be nil when nobody listens for changes.
func NewIndexService(
	tree *multiset.RBTree[int64],
	seq *sequence.Sequencer,
	w *wal.WAL,
	sink EventSink,
	log *slog.Logger,
) *IndexService {
	if log == nil {
		log = slog.Default()
	}
	elements.Set(float64(tree.Count()))
	distinctKeys.Set(float64(tree.Distinct()))
	return &IndexService{
		tree: tree,
		seq:  seq,
		wal:  w,
		sink: sink,
		log:  log,
	}
}

//
// ──────────────────────────────────────────────────────────
// Commands
// ──────────────────────────────────────────────────────────
//

// Insert adds one occurrence of key and returns its sequence number.
func (s *IndexService) Insert(ctx context.Context, key int64) (uint64, error) {
	start := time.Now()
	s.mu.Lock()
	seq, err := s.logMutation(wal.RecordInsert, key)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.tree.Insert(key)
	count := s.tree.CountOf(key)
	s.observe("insert", start)
	s.mu.Unlock()

	s.publish(ctx, Event{V: EventVersion, Type: EventInsert, Key: key, Seq: seq, Count: count})
	return seq, nil
}

// Delete removes one occurrence of key. An absent key is not an error and
// is not logged; it reports false with sequence 0.
func (s *IndexService) Delete(ctx context.Context, key int64) (bool, uint64, error) {
	start := time.Now()
	s.mu.Lock()
	if !s.tree.Contains(key) {
		s.observe("delete_miss", start)
		s.mu.Unlock()
		return false, 0, nil
	}
	seq, err := s.logMutation(wal.RecordDelete, key)
	if err != nil {
		s.mu.Unlock()
		return false, 0, err
	}
	s.tree.Delete(key)
	count := s.tree.CountOf(key)
	s.observe("delete", start)
	s.mu.Unlock()

	s.publish(ctx, Event{V: EventVersion, Type: EventDelete, Key: key, Seq: seq, Count: count})
	return true, seq, nil
}

//
// ──────────────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────────────
//

func (s *IndexService) Contains(key int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	operations.WithLabelValues("contains").Inc()
	return s.tree.Contains(key)
}

func (s *IndexService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Count()
}

func (s *IndexService) Distinct() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Distinct()
}

func (s *IndexService) CountOf(key int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	operations.WithLabelValues("count_of").Inc()
	return s.tree.CountOf(key)
}

// Select returns the k-th smallest occurrence, 1-based. The error wraps
// multiset.ErrOutOfRange when k is outside [1, Count].
func (s *IndexService) Select(k int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	operations.WithLabelValues("select").Inc()
	return s.tree.Select(k)
}

// Rank returns how many stored occurrences are strictly less than key.
func (s *IndexService) Rank(key int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	operations.WithLabelValues("rank").Inc()
	return s.tree.Rank(key)
}

func (s *IndexService) Min() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Min()
}

func (s *IndexService) Max() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Max()
}

// Values copies up to limit occurrences in ascending order; limit <= 0
// copies everything.
func (s *IndexService) Values(limit int) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.tree.Count()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]int64, 0, n)
	for v := range s.tree.All() {
		if len(out) == n {
			break
		}
		out = append(out, v)
	}
	return out
}

// Seq returns the sequence number of the last applied mutation.
func (s *IndexService) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq.Current()
}

//
// ──────────────────────────────────────────────────────────
// Internals
// ──────────────────────────────────────────────────────────
//

// logMutation must run with the write lock held. The sequence number is
// committed only once the record is in the WAL.
func (s *IndexService) logMutation(t wal.RecordType, key int64) (uint64, error) {
	seq := s.seq.Peek()
	if s.wal != nil {
		if err := s.wal.Append(wal.NewRecord(t, seq, key)); err != nil {
			walAppends.WithLabelValues("error").Inc()
			s.log.Error("wal append failed", "type", t, "key", key, "seq", seq, "err", err)
			return 0, fmt.Errorf("wal append: %w", err)
		}
		walAppends.WithLabelValues("ok").Inc()
	}
	if err := s.seq.Commit(seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// observe must run with the write lock held.
func (s *IndexService) observe(op string, start time.Time) {
	operations.WithLabelValues(op).Inc()
	opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	elements.Set(float64(s.tree.Count()))
	distinctKeys.Set(float64(s.tree.Distinct()))
}

func (s *IndexService) publish(ctx context.Context, ev Event) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, ev); err != nil {
		publishErrors.Inc()
		s.log.Warn("publish event failed", "type", ev.Type, "key", ev.Key, "seq", ev.Seq, "err", err)
	}
}
