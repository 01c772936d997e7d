package service

import "context"

const EventVersion = 1

const (
	EventInsert = "insert"
	EventDelete = "delete"
)

// Event describes one applied mutation. Count is the key's multiplicity
// after the mutation.
type Event struct {
	V     int    `json:"v"`
	Type  string `json:"type"`
	Key   int64  `json:"key"`
	Seq   uint64 `json:"seq"`
	Count int    `json:"count"`
}

// EventSink receives events after they are applied. Delivery is best
// effort; a failing sink never rolls back a mutation.
type EventSink interface {
	Publish(ctx context.Context, ev Event) error
}
