package server

import "time"

const (
	// DefaultReadHeaderTimeout bounds how long a client may take to send headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultReadTimeout covers the full request body, so it must fit large uploads.
	DefaultReadTimeout = 10 * time.Minute

	// DefaultWriteTimeout covers the full response, so it must fit large downloads.
	DefaultWriteTimeout = 10 * time.Minute

	// DefaultIdleTimeout is the default timeout for idle keep-alive connections.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes is the default maximum size of request headers.
	DefaultMaxHeaderBytes = 1 << 20
)
