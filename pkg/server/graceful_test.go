package server

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGracefulServerDefaults(t *testing.T) {
	gs := NewGracefulServer(Options{Addr: ":0"})

	assert.Equal(t, 30*time.Second, gs.server.ReadTimeout)
	assert.Equal(t, 30*time.Second, gs.server.WriteTimeout)
	assert.Equal(t, 30*time.Second, gs.shutdownTimeout)
	assert.NotNil(t, gs.logger)
}

func TestShutdownIsIdempotent(t *testing.T) {
	gs := NewGracefulServer(Options{
		Addr:    ":0",
		Handler: http.NewServeMux(),
	})

	assert.False(t, gs.IsShuttingDown())
	require.NoError(t, gs.Shutdown(time.Second))
	assert.True(t, gs.IsShuttingDown())

	// Second call is a no-op, not a double close.
	require.NoError(t, gs.Shutdown(time.Second))
}

func TestStartReturnsAfterShutdown(t *testing.T) {
	gs := NewGracefulServer(Options{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	})

	done := make(chan error, 1)
	go func() { done <- gs.Start() }()

	// Give the listener a moment, then shut down.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, gs.Shutdown(time.Second))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}

func TestReloadConfig(t *testing.T) {
	gs := NewGracefulServer(Options{Addr: ":0"})

	// Without a reload function the request is a logged no-op.
	require.NoError(t, gs.ReloadConfig())

	calls := 0
	gs.SetConfigReloadFunc(func() error {
		calls++
		return nil
	})
	require.NoError(t, gs.ReloadConfig())
	assert.Equal(t, 1, calls)

	gs.SetConfigReloadFunc(func() error { return errors.New("bad config") })
	assert.EqualError(t, gs.ReloadConfig(), "bad config")
}
