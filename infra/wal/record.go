package wal

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type RecordType uint8

const (
	RecordInsert RecordType = iota + 1
	RecordDelete
)

func (t RecordType) String() string {
	switch t {
	case RecordInsert:
		return "insert"
	case RecordDelete:
		return "delete"
	default:
		return fmt.Sprintf("RecordType(%d)", uint8(t))
	}
}

// Record is one logged mutation of the multiset.
type Record struct {
	Type RecordType
	Seq  uint64
	Time int64
	Key  int64
}

func NewRecord(t RecordType, seq uint64, key int64) *Record {
	return &Record{
		Type: t,
		Seq:  seq,
		Time: time.Now().UnixNano(),
		Key:  key,
	}
}

// The key travels as a protobuf Int64Value so the frame payload stays
// self-describing if more fields are added later.
func encodeKey(key int64) ([]byte, error) {
	return proto.Marshal(wrapperspb.Int64(key))
}

func decodeKey(b []byte) (int64, error) {
	var v wrapperspb.Int64Value
	if err := proto.Unmarshal(b, &v); err != nil {
		return 0, err
	}
	return v.GetValue(), nil
}
