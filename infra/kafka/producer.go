// Package kafka publishes index change events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"rankd/service"
)

type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 10 * time.Millisecond
	}
	return c
}

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer implements service.EventSink. Messages are keyed by the
// big-endian key so every event for one key lands on the same partition,
// in order.
type Producer struct {
	writer messageWriter
}

var _ service.EventSink = (*Producer)(nil)

func NewProducer(cfg Config) *Producer {
	cfg = cfg.withDefaults()
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, ev service.Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], uint64(ev.Key))

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key[:],
		Value: value,
	}); err != nil {
		return fmt.Errorf("write event seq %d: %w", ev.Seq, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
