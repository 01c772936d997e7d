// Package checkpoint persists a snapshot of the multiset in pebble so that
// recovery only has to replay the WAL written after it.
package checkpoint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// -------------------- Layout --------------------

var (
	seqKey    = []byte("m/seq")
	keyPrefix = []byte("k/")
	keyUpper  = []byte("k0") // '0' follows '/', so this bounds every k/ key
)

// ErrCorruptValue is returned when a stored value has the wrong width.
var ErrCorruptValue = errors.New("checkpoint: corrupt value")

type Options struct {
	// FS overrides the filesystem; tests pass vfs.NewMem().
	FS  vfs.FS
	Log *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = slog.Default()
	}
	return o
}

// -------------------- Store --------------------

type Store struct {
	db  *pebble.DB
	log *slog.Logger
}

func Open(dir string, opts Options) (*Store, error) {
	opts = opts.withDefaults()
	db, err := pebble.Open(dir, &pebble.Options{FS: opts.FS})
	if err != nil {
		return nil, fmt.Errorf("open checkpoint store: %w", err)
	}
	return &Store{db: db, log: opts.Log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot with entries, stamped with seq, in a
// single synced batch.
func (s *Store) Save(seq uint64, entries iter.Seq2[int64, int]) error {
	b := s.db.NewBatch()
	defer b.Close()

	if err := b.DeleteRange(keyPrefix, keyUpper, nil); err != nil {
		return err
	}
	n := 0
	var val [8]byte
	for key, count := range entries {
		binary.BigEndian.PutUint64(val[:], uint64(count))
		if err := b.Set(encodeKey(key), val[:], nil); err != nil {
			return err
		}
		n++
	}
	binary.BigEndian.PutUint64(val[:], seq)
	if err := b.Set(seqKey, val[:], nil); err != nil {
		return err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	s.log.Debug("checkpoint saved", "seq", seq, "keys", n)
	return nil
}

// Seq returns the sequence number of the stored snapshot, 0 if none.
func (s *Store) Seq() (uint64, error) {
	val, closer, err := s.db.Get(seqKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()

	if len(val) != 8 {
		return 0, fmt.Errorf("%w: seq has %d bytes", ErrCorruptValue, len(val))
	}
	return binary.BigEndian.Uint64(val), nil
}

// Load calls fn for every stored key in ascending order and returns the
// snapshot's sequence number.
func (s *Store) Load(fn func(key int64, count int) error) (uint64, error) {
	seq, err := s.Seq()
	if err != nil {
		return 0, err
	}

	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: keyUpper,
	})
	if err != nil {
		return 0, err
	}
	defer it.Close()

	for it.First(); it.Valid(); it.Next() {
		key, err := decodeKey(it.Key())
		if err != nil {
			return 0, err
		}
		val := it.Value()
		if len(val) != 8 {
			return 0, fmt.Errorf("%w: key %d has %d bytes", ErrCorruptValue, key, len(val))
		}
		if err := fn(key, int(binary.BigEndian.Uint64(val))); err != nil {
			return 0, err
		}
	}
	if err := it.Error(); err != nil {
		return 0, err
	}
	return seq, nil
}

// -------------------- Helpers --------------------

// encodeKey flips the sign bit so byte order matches int64 order.
func encodeKey(k int64) []byte {
	b := make([]byte, len(keyPrefix)+8)
	copy(b, keyPrefix)
	binary.BigEndian.PutUint64(b[len(keyPrefix):], uint64(k)^(1<<63))
	return b
}

func decodeKey(b []byte) (int64, error) {
	if len(b) != len(keyPrefix)+8 {
		return 0, fmt.Errorf("%w: key has %d bytes", ErrCorruptValue, len(b))
	}
	return int64(binary.BigEndian.Uint64(b[len(keyPrefix):]) ^ (1 << 63)), nil
}
