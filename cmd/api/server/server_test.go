package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-registration-service/cmd/api/di"
	"user-registration-service/internal/config"
)

func testServer(t *testing.T) *Server {
	cfg := &config.Config{}
	cfg.App.HTTPPort = "0"
	cfg.Storage.MaxMemoryMB = 8
	return New(cfg, zaptest.NewLogger(t), &di.Container{})
}

func TestNew_UploadsAreNotTimeBounded(t *testing.T) {
	s := testServer(t)

	assert.Equal(t, ":0", s.http.Addr)
	assert.Zero(t, s.http.ReadTimeout)
	assert.Zero(t, s.http.WriteTimeout)
	assert.Equal(t, 2*time.Second, s.http.ReadHeaderTimeout)
	assert.NotNil(t, s.http.Handler)
}

func TestStart_ReturnsNilAfterShutdown(t *testing.T) {
	s := testServer(t)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
