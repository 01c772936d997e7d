package broadcaster

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rankd/service"
)

type fakeSource struct {
	mu    sync.Mutex
	d     service.Digest
	calls int
}

func (f *fakeSource) Digest() service.Digest {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.d
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) set(d service.Digest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.d = d
}

func mockConfig() *sarama.Config {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	return cfg
}

func TestPublishOnceSkipsUnchangedDigest(t *testing.T) {
	src := &fakeSource{d: service.Digest{Seq: 3, Count: 3, Distinct: 2, Min: 1, P50: 2, P90: 2, P99: 2, Max: 2}}
	producer := mocks.NewSyncProducer(t, mockConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got service.Digest
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Seq != 3 || got.Max != 2 {
			return errors.New("unexpected digest payload")
		}
		return nil
	})
	producer.ExpectSendMessageAndSucceed()

	b := New(src, producer, Config{Topic: "rankd.stats"})

	sent, err := b.PublishOnce()
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = b.PublishOnce()
	require.NoError(t, err)
	assert.False(t, sent, "unchanged digest must not be resent")

	src.set(service.Digest{Seq: 4, Count: 4})
	sent, err = b.PublishOnce()
	require.NoError(t, err)
	assert.True(t, sent)

	require.NoError(t, b.Close())
}

func TestPublishFailureIsRetried(t *testing.T) {
	src := &fakeSource{d: service.Digest{Seq: 1, Count: 1}}
	producer := mocks.NewSyncProducer(t, mockConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndSucceed()

	b := New(src, producer, Config{Topic: "rankd.stats"})

	_, err := b.PublishOnce()
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	sent, err := b.PublishOnce()
	require.NoError(t, err)
	assert.True(t, sent)

	require.NoError(t, b.Close())
}

func TestStartStopsOnCancel(t *testing.T) {
	src := &fakeSource{d: service.Digest{Seq: 9}}
	producer := mocks.NewSyncProducer(t, mockConfig())
	producer.ExpectSendMessageAndSucceed()

	b := New(src, producer, Config{Topic: "rankd.stats", Interval: 5 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := b.Start(ctx)

	// Nothing changes after the first send, so later ticks send nothing.
	require.Eventually(t, func() bool { return src.callCount() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	<-done

	require.NoError(t, b.Close())
}
