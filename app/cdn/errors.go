package cdn

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/simplecdn/core/logger"
	"github.com/dmitrymomot/simplecdn/core/response"
	"github.com/dmitrymomot/simplecdn/core/router"
	"github.com/dmitrymomot/simplecdn/core/static"
	"github.com/dmitrymomot/simplecdn/core/storage"
	"github.com/dmitrymomot/simplecdn/core/upload"
	"github.com/dmitrymomot/simplecdn/pkg/qrcode"
)

// toHTTPError maps domain errors to client-facing errors.
func toHTTPError(err error) response.HTTPError {
	var httpErr response.HTTPError
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, upload.ErrValidationFailed):
		return response.ErrBadRequest.WithMessage("Invalid file type").WithDetails(map[string]any{
			"reason": err.Error(),
		})
	case errors.Is(err, storage.ErrInvalidPath):
		return response.ErrBadRequest.WithMessage("invalid path")
	case errors.Is(err, storage.ErrInvalidOperation):
		return response.ErrBadRequest.WithMessage("operation not allowed")
	case errors.Is(err, storage.ErrNotDirectory):
		return response.ErrNotFound.WithMessage("not a directory")
	case errors.Is(err, storage.ErrNotFound), static.IsNotFound(err), errors.Is(err, router.ErrNotFound):
		return response.ErrNotFound
	case errors.As(err, &maxErr):
		return response.ErrRequestEntityTooLarge
	case errors.Is(err, qrcode.ErrInvalidSize):
		return response.ErrBadRequest.WithMessage("invalid size")
	default:
		return response.ToHTTPError(err)
	}
}

// handleError renders err as JSON or plain text depending on Accept.
// Server errors are logged with the original cause.
func (a *App) handleError(ctx *Context, err error) {
	if w, ok := ctx.ResponseWriter().(interface{ Written() bool }); ok && w.Written() {
		a.logger.WarnContext(ctx, "error after response was written",
			logger.Component("cdn"),
			logger.Path(ctx.Request().URL.Path),
			logger.Error(err),
		)
		return
	}

	httpErr := toHTTPError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		attrs := []any{
			logger.Component("cdn"),
			logger.Method(ctx.Request().Method),
			logger.Path(ctx.Request().URL.Path),
			logger.Error(err),
		}
		var panicErr router.PanicError
		if errors.As(err, &panicErr) {
			attrs = append(attrs, "stack", string(panicErr.Stack()))
		}
		a.logger.ErrorContext(ctx, "request failed", attrs...)
	}

	response.NegotiatedErrorHandler(ctx, httpErr)
}
