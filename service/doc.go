// Package service wraps the in-memory multiset with durability and
// notification: every mutation is numbered, written to the WAL, applied to
// the tree and then announced to an optional event sink.
//
// It provides the API used by transports such as gRPC; nothing here knows
// about the wire.
package service
