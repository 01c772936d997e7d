package main

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartupErrorReturnsWithKafkaEnabled(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	dir := t.TempDir()
	done := make(chan error, 1)
	go func() {
		done <- run([]string{"rankd",
			"--listen", busy.Addr().String(),
			"--metrics-listen", "",
			"--wal-dir", filepath.Join(dir, "wal"),
			"--checkpoint-dir", filepath.Join(dir, "checkpoint"),
			"--kafka-brokers", "127.0.0.1:1",
		})
	}()

	select {
	case err := <-done:
		require.ErrorContains(t, err, "listen")
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not return after a startup error")
	}
}
