// Package middleware provides the HTTP middleware used in front of the file
// server: request IDs, request logging, security headers, body size limits,
// client IP extraction, rate limiting, and the two access guards (HTTP Basic
// with a shared password, or a Host allow-list).
//
// Every middleware is generic over the request context type and follows the
// same shape: a zero-config constructor and an XWithConfig variant taking a
// config struct with an optional Skip function.
//
//	r := router.New[*cdn.Context]()
//	r.Use(
//		middleware.RequestID[*cdn.Context](),
//		middleware.LoggingWithLogger[*cdn.Context](log),
//		middleware.SecurityHeaders[*cdn.Context](),
//	)
//
//	guard := middleware.BasicAuth[*cdn.Context]("s3cret")
//	r.With(guard).Get("/browse/{path...}", browse)
package middleware
