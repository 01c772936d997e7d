package service

import (
	"context"
	"fmt"
	"iter"
	"time"
)

// SnapshotSaver persists a full snapshot; *checkpoint.Store implements it.
type SnapshotSaver interface {
	Save(seq uint64, entries iter.Seq2[int64, int]) error
}

// Checkpoint saves the index at its current sequence number and then drops
// WAL segments the snapshot makes redundant. Mutations wait while it runs.
func (s *IndexService) Checkpoint(store SnapshotSaver) (uint64, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seq.Current()
	if err := store.Save(seq, s.tree.Entries()); err != nil {
		return 0, fmt.Errorf("save checkpoint: %w", err)
	}
	if s.wal != nil {
		if err := s.wal.TruncateBefore(seq); err != nil {
			// The snapshot is durable; stale segments only cost replay time.
			s.log.Warn("wal truncation failed", "seq", seq, "err", err)
		}
	}

	checkpointDuration.Observe(time.Since(start).Seconds())
	checkpointSeq.Set(float64(seq))
	s.log.Info("checkpoint written", "seq", seq, "keys", s.tree.Distinct(), "took", time.Since(start))
	return seq, nil
}

// StartCheckpointJob checkpoints every interval until ctx is cancelled,
// skipping ticks where nothing changed. The returned channel is closed when
// the job has stopped.
func (s *IndexService) StartCheckpointJob(ctx context.Context, store SnapshotSaver, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		t := time.NewTicker(interval)
		defer t.Stop()

		var last uint64
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			if s.Seq() == last {
				continue
			}
			seq, err := s.Checkpoint(store)
			if err != nil {
				s.log.Error("periodic checkpoint failed", "err", err)
				continue
			}
			last = seq
		}
	}()
	return done
}
