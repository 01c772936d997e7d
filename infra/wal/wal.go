package wal

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
)

const (
	headerSize = 1 + 8 + 8 + 4
	crcSize    = 4

	DefaultSegmentSize = 64 << 20
)

type Config struct {
	Dir         string
	SegmentSize int64
	Log         *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.SegmentSize <= 0 {
		c.SegmentSize = DefaultSegmentSize
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
	return c
}

// WAL appends framed records to numbered segment files. It is not safe for
// concurrent use; the owning service serialises all calls.
type WAL struct {
	dir     string
	segSize int64
	current *segment
	log     *slog.Logger
}

// Open starts a fresh segment after the highest one already in cfg.Dir, so
// a torn tail left by a crash is never appended to.
func Open(cfg Config) (*WAL, error) {
	cfg = cfg.withDefaults()
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create wal dir: %w", err)
	}

	existing, err := listSegments(cfg.Dir)
	if err != nil {
		return nil, err
	}
	next := 0
	if len(existing) > 0 {
		next = existing[len(existing)-1] + 1
	}

	seg, err := openSegment(cfg.Dir, next)
	if err != nil {
		return nil, fmt.Errorf("open segment %d: %w", next, err)
	}
	cfg.Log.Debug("wal opened", "dir", cfg.Dir, "segment", next)

	return &WAL{
		dir:     cfg.Dir,
		segSize: cfg.SegmentSize,
		current: seg,
		log:     cfg.Log,
	}, nil
}

// Append writes r to the active segment. A full or sealed segment is
// rotated out before the write, so an error always means r is not in the
// log.
func (w *WAL) Append(r *Record) error {
	buf, err := encodeFrame(r)
	if err != nil {
		return err
	}
	if w.current.sealed || w.current.offset >= w.segSize {
		if err := w.rotate(); err != nil {
			return fmt.Errorf("append seq %d: %w", r.Seq, err)
		}
	}
	if err := w.current.append(buf); err != nil {
		if w.current.sealed {
			w.log.Warn("wal segment sealed after failed write", "segment", w.current.index, "seq", r.Seq)
		}
		return fmt.Errorf("append seq %d: %w", r.Seq, err)
	}
	return nil
}

// Sync flushes the active segment to stable storage.
func (w *WAL) Sync() error {
	return w.current.sync()
}

func (w *WAL) Close() error {
	if err := w.current.sync(); err != nil {
		_ = w.current.close()
		return err
	}
	return w.current.close()
}

// rotate leaves w.current untouched on failure.
func (w *WAL) rotate() error {
	next, err := openSegment(w.dir, w.current.index+1)
	if err != nil {
		return fmt.Errorf("rotate: %w", err)
	}
	if err := w.current.sync(); err != nil {
		if !w.current.sealed {
			_ = next.close()
			_ = os.Remove(segmentPath(w.dir, next.index))
			return fmt.Errorf("rotate: sync segment %d: %w", w.current.index, err)
		}
		w.log.Warn("sync of sealed wal segment failed", "segment", w.current.index, "err", err)
	}
	_ = w.current.close()

	w.log.Debug("wal segment rotated", "segment", next.index)
	w.current = next
	return nil
}

// TruncateBefore removes closed segments holding nothing newer than seq.
func (w *WAL) TruncateBefore(seq uint64) error {
	indexes, err := listSegments(w.dir)
	if err != nil {
		return err
	}

	for _, i := range indexes {
		if i >= w.current.index {
			break
		}
		path := segmentPath(w.dir, i)
		maxSeq, err := maxSeqInSegment(path)
		if err != nil {
			w.log.Warn("skip segment during truncation", "path", path, "err", err)
			continue
		}
		if maxSeq <= seq {
			if err := os.Remove(path); err != nil {
				return err
			}
			w.log.Debug("wal segment removed", "segment", i, "max_seq", maxSeq)
		}
	}
	return nil
}

// Frame:
// [type:1][seq:8][time:8][len:4][payload][crc:4]
func encodeFrame(r *Record) ([]byte, error) {
	payload, err := encodeKey(r.Key)
	if err != nil {
		return nil, err
	}
	payloadLen := uint32(len(payload))

	buf := make([]byte, headerSize+payloadLen+crcSize)
	buf[0] = byte(r.Type)
	binary.BigEndian.PutUint64(buf[1:9], r.Seq)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.Time))
	binary.BigEndian.PutUint32(buf[17:21], payloadLen)
	copy(buf[headerSize:], payload)

	crc := checksum(buf[:headerSize+payloadLen])
	binary.BigEndian.PutUint32(buf[headerSize+payloadLen:], crc)
	return buf, nil
}
