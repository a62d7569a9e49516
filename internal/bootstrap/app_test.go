package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yanqian/ar-shop/internal/infra/config"
)

type blockingRunner struct {
	started chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context) error {
	close(r.started)
	<-ctx.Done()
	return ctx.Err()
}

type failingRunner struct{}

func (failingRunner) Run(context.Context) error {
	return errors.New("queue unreachable")
}

func newTestApp(consumer Runner) *App {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}
	server := &http.Server{Addr: cfg.HTTP.Address, Handler: http.NotFoundHandler()}
	return NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, consumer)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	runner := &blockingRunner{started: make(chan struct{})}
	app := newTestApp(runner)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	<-runner.started
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRunReturnsConsumerFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	err := newTestApp(failingRunner{}).Run(context.Background())
	require.EqualError(t, err, "queue unreachable")
}
