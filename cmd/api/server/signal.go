package server

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignal cancels the returned context on SIGINT or SIGTERM. After stop
// is called a second signal kills the process.
func WithSignal(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
