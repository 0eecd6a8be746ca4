package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/simplecdn/core/handler"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// ToHTTPError converts any error to an HTTPError. HTTPError values pass
// through unchanged; other errors are matched by their StatusCode() or fall
// back to 500. Causes of 5xx errors are not attached.
func ToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = NewHTTPError(status, "error")
		if http.StatusText(status) == "" {
			base = ErrInternalServerError
		}
	}
	if base.Status >= http.StatusInternalServerError {
		return base
	}
	return base.WithError(err)
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := ToHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as JSON.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := ToHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}

// NegotiatedErrorHandler renders JSON when the client accepts it and plain text otherwise.
func NegotiatedErrorHandler[C handler.Context](ctx C, err error) {
	if WantsJSON(ctx.Request()) {
		JSONErrorHandler(ctx, err)
		return
	}
	ErrorHandler(ctx, err)
}

// WantsJSON reports whether the request prefers a JSON response.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
