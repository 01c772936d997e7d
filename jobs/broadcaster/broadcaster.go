// Package broadcaster periodically publishes a digest of the index to a
// Kafka topic so downstream consumers can follow its distribution without
// querying it.
package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"rankd/service"
)

// DigestSource is satisfied by *service.IndexService.
type DigestSource interface {
	Digest() service.Digest
}

type Config struct {
	Topic    string
	Interval time.Duration
	Log      *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
	return c
}

type Broadcaster struct {
	src      DigestSource
	producer sarama.SyncProducer
	cfg      Config

	last      service.Digest
	published bool
}

// ------------------------------------------------
// CONSTRUCTORS
// ------------------------------------------------

func New(src DigestSource, producer sarama.SyncProducer, cfg Config) *Broadcaster {
	return &Broadcaster{
		src:      src,
		producer: producer,
		cfg:      cfg.withDefaults(),
	}
}

// Dial connects a sync producer to brokers and wraps it.
func Dial(src DigestSource, brokers []string, cfg Config) (*Broadcaster, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("connect stats producer: %w", err)
	}
	return New(src, producer, cfg), nil
}

// ------------------------------------------------
// LOOP
// ------------------------------------------------

// Start publishes every interval until ctx is cancelled. The returned
// channel is closed once the loop has exited.
func (b *Broadcaster) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	b.cfg.Log.Info("broadcaster started", "topic", b.cfg.Topic, "interval", b.cfg.Interval)

	go func() {
		defer close(done)
		ticker := time.NewTicker(b.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := b.PublishOnce(); err != nil {
					// retried on the next tick
					b.cfg.Log.Warn("publish digest failed", "err", err)
				}
			}
		}
	}()
	return done
}

// PublishOnce sends the current digest unless it equals the last one sent.
// It reports whether a message went out.
func (b *Broadcaster) PublishOnce() (bool, error) {
	d := b.src.Digest()
	if b.published && d == b.last {
		return false, nil
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return false, err
	}
	msg := &sarama.ProducerMessage{
		Topic: b.cfg.Topic,
		Key:   sarama.StringEncoder("digest"),
		Value: sarama.ByteEncoder(payload),
	}
	partition, offset, err := b.producer.SendMessage(msg)
	if err != nil {
		return false, err
	}

	b.last, b.published = d, true
	b.cfg.Log.Debug("digest published", "seq", d.Seq, "partition", partition, "offset", offset)
	return true, nil
}

// ------------------------------------------------
// SHUTDOWN
// ------------------------------------------------

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
