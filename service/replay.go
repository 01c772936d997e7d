package service

import (
	"fmt"
	"log/slog"

	"rankd/domain/multiset"
	"rankd/infra/sequence"
	"rankd/infra/wal"
)

// SnapshotLoader yields a stored snapshot; *checkpoint.Store implements it.
type SnapshotLoader interface {
	Load(fn func(key int64, count int) error) (uint64, error)
}

/*
Recover rebuilds tree from the latest checkpoint plus the WAL written
after it, then positions seqGen after the last applied record.

IMPORTANT:
- This MUST run before the service accepts traffic
- tree must be empty
- store may be nil when checkpoints are disabled
*/
func Recover(
	walDir string,
	store SnapshotLoader,
	tree *multiset.RBTree[int64],
	seqGen *sequence.Sequencer,
	log *slog.Logger,
) (uint64, error) {
	if log == nil {
		log = slog.Default()
	}

	var base uint64
	if store != nil {
		var err error
		base, err = store.Load(func(key int64, count int) error {
			for range count {
				tree.Insert(key)
			}
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("load checkpoint: %w", err)
		}
		log.Info("checkpoint loaded", "seq", base, "count", tree.Count(), "distinct", tree.Distinct())
	}

	replayed := 0
	lastSeq, err := wal.Replay(walDir, base, log, func(rec *wal.Record) error {
		replayed++
		switch rec.Type {
		case wal.RecordInsert:
			tree.Insert(rec.Key)
		case wal.RecordDelete:
			if !tree.Delete(rec.Key) {
				return fmt.Errorf("seq %d deletes absent key %d", rec.Seq, rec.Key)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replay wal: %w", err)
	}

	// Resume sequencing AFTER replay
	if err := seqGen.Reset(lastSeq); err != nil {
		return 0, err
	}

	log.Info("wal replay completed", "last_seq", lastSeq, "records", replayed, "count", tree.Count())
	return lastSeq, nil
}
