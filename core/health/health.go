package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/simplecdn/core/handler"
	"github.com/dmitrymomot/simplecdn/core/logger"
	"github.com/dmitrymomot/simplecdn/core/response"
)

// DefaultTimeout bounds a single readiness check.
const DefaultTimeout = 5 * time.Second

// Check is a named dependency probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Liveness always answers "ok".
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ok")
}

// Readiness runs every check with DefaultTimeout and answers "ready", or 503
// with the names of the failed checks in details.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		var failed []string
		for _, c := range checks {
			checkCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
			err := c.Fn(checkCtx)
			cancel()
			if err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"),
					slog.String("check", c.Name),
					logger.Error(err),
				)
				failed = append(failed, c.Name)
			}
		}

		if len(failed) > 0 {
			return response.Error(response.ErrServiceUnavailable.WithDetails(map[string]any{
				"failed": failed,
			}))
		}
		return response.String("ready")
	}
}
