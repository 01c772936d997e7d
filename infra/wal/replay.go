package wal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var (
	ErrCorruptRecord   = errors.New("wal: corrupt record")
	ErrNonMonotonicSeq = errors.New("wal: non-monotonic sequence")
)

// maxPayload bounds the length field so a damaged header cannot ask for an
// absurd allocation.
const maxPayload = 1 << 16

type ReplayHandler func(*Record) error

// Replay feeds every record with Seq > after to fn, oldest segment first,
// and returns the highest sequence number seen. A frame cut short at the
// end of a segment is where a crash interrupted the write; the rest of that
// segment is skipped.
func Replay(dir string, after uint64, log *slog.Logger, fn ReplayHandler) (lastSeq uint64, err error) {
	if log == nil {
		log = slog.Default()
	}
	indexes, err := listSegments(dir)
	if err != nil {
		return 0, err
	}

	lastSeq = after
	var prev uint64
	for _, i := range indexes {
		path := segmentPath(dir, i)
		f, err := os.Open(path)
		if err != nil {
			return lastSeq, err
		}
		prev, err = replaySegment(f, prev, after, fn)
		_ = f.Close()
		switch {
		case errors.Is(err, io.ErrUnexpectedEOF):
			log.Warn("torn wal frame", "segment", i, "after_seq", prev)
		case err != nil:
			return max(lastSeq, prev), fmt.Errorf("segment %d: %w", i, err)
		}
		lastSeq = max(lastSeq, prev)
	}
	return lastSeq, nil
}

func replaySegment(r io.Reader, prev, after uint64, fn ReplayHandler) (uint64, error) {
	for {
		rec, err := readRecord(r)
		if err == io.EOF {
			return prev, nil
		}
		if err != nil {
			return prev, err
		}

		if rec.Seq <= prev {
			return prev, fmt.Errorf("%w: %d after %d", ErrNonMonotonicSeq, rec.Seq, prev)
		}
		prev = rec.Seq
		if rec.Seq <= after {
			continue
		}
		if err := fn(rec); err != nil {
			return prev, err
		}
	}
}

// readRecord returns io.EOF on a clean frame boundary and
// io.ErrUnexpectedEOF on a partial frame.
func readRecord(r io.Reader) (*Record, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	t := RecordType(header[0])
	seq := binary.BigEndian.Uint64(header[1:9])
	ts := binary.BigEndian.Uint64(header[9:17])
	l := binary.BigEndian.Uint32(header[17:21])
	if l > maxPayload {
		return nil, fmt.Errorf("%w: payload length %d at seq %d", ErrCorruptRecord, l, seq)
	}

	data := make([]byte, l+crcSize)
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	payload := data[:l]
	crc := binary.BigEndian.Uint32(data[l:])
	if checksum(append(header, payload...)) != crc {
		return nil, fmt.Errorf("%w: crc mismatch at seq %d", ErrCorruptRecord, seq)
	}
	if t != RecordInsert && t != RecordDelete {
		return nil, fmt.Errorf("%w: unknown type %d at seq %d", ErrCorruptRecord, t, seq)
	}

	key, err := decodeKey(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: seq %d: %v", ErrCorruptRecord, seq, err)
	}

	return &Record{
		Type: t,
		Seq:  seq,
		Time: int64(ts),
		Key:  key,
	}, nil
}
