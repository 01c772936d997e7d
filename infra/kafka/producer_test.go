package kafka

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankd/service"
)

type captureWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	c.msgs = append(c.msgs, msgs...)
	return c.err
}

func (c *captureWriter) Close() error {
	c.closed = true
	return nil
}

func TestPublishEncodesEvent(t *testing.T) {
	w := &captureWriter{}
	p := &Producer{writer: w}

	ev := service.Event{V: service.EventVersion, Type: service.EventDelete, Key: -7, Seq: 12, Count: 2}
	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	var got service.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, ev, got)
	assert.Equal(t, int64(-7), int64(binary.BigEndian.Uint64(w.msgs[0].Key)))
	assert.JSONEq(t, `{"v":1,"type":"delete","key":-7,"seq":12,"count":2}`, string(w.msgs[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWrapsWriterError(t *testing.T) {
	cause := errors.New("leader not available")
	p := &Producer{writer: &captureWriter{err: cause}}

	err := p.Publish(context.Background(), service.Event{Seq: 5})
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "seq 5")
}

func TestNewProducerConfiguresWriter(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"localhost:9092"}, Topic: "rankd.events"})
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "rankd.events", w.Topic)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.NotZero(t, w.BatchTimeout)
}
