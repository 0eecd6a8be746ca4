package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/simplecdn/core/handler"
)

type requestIDContextKey struct{}

// RequestIDHeader is the header used to read and echo the request ID.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client-provided IDs.
const maxRequestIDLength = 128

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Generator creates new IDs. Defaults to UUID v4.
	Generator func() string

	// HeaderName overrides RequestIDHeader.
	HeaderName string

	// UseExisting keeps a well-formed ID sent by the client.
	UseExisting bool
}

// RequestID assigns every request an ID, stores it in the context and echoes
// it in the response header.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{UseExisting: true})
}

// RequestIDWithConfig creates a request ID middleware with custom configuration.
func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	if cfg.Generator == nil {
		cfg.Generator = func() string { return uuid.New().String() }
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = RequestIDHeader
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			id := ""
			if cfg.UseExisting {
				id = sanitizeRequestID(ctx.Request().Header.Get(cfg.HeaderName))
			}
			if id == "" {
				id = cfg.Generator()
			}

			ctx.SetValue(requestIDContextKey{}, id)
			ctx.ResponseWriter().Header().Set(cfg.HeaderName, id)

			return next(ctx)
		}
	}
}

// GetRequestID returns the request ID stored by the RequestID middleware.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok && id != ""
}

// sanitizeRequestID accepts printable ASCII without spaces up to maxRequestIDLength.
func sanitizeRequestID(id string) string {
	if id == "" || len(id) > maxRequestIDLength {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return ""
		}
	}
	return id
}

