// Package context holds the timeouts shared by startup, health and shutdown paths.
package context

import (
	"context"
	"time"
)

const (
	// PingTimeout bounds a single dependency ping.
	PingTimeout = 5 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout = 10 * time.Second

	// AsyncTimeout bounds detached background work such as event publishing.
	AsyncTimeout = 5 * time.Second
)

// WithPingTimeout derives a ping-bounded context from parent.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, PingTimeout)
}

// WithShutdownTimeout returns a fresh context for shutdown. It does not derive
// from a request or signal context because those are usually already done.
func WithShutdownTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ShutdownTimeout)
}

// Detached returns a context for work that outlives the request that started
// it. Values such as the request logger are kept, cancellation is not.
func Detached(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), AsyncTimeout)
}
