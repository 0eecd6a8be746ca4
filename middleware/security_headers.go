package middleware

import (
	"net/http"

	"github.com/dmitrymomot/simplecdn/core/handler"
)

// SecurityHeadersConfig lists the headers added to every response.
// Empty values are not sent.
type SecurityHeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	ContentTypeOptions        string
	FrameOptions              string
	ReferrerPolicy            string
	ContentSecurityPolicy     string
	StrictTransportSecurity   string
	CrossOriginResourcePolicy string

	// CustomHeaders are set after the predefined ones.
	CustomHeaders map[string]string
}

// DefaultSecurityHeaders suits the browse UI: inline styles and the upload
// script are allowed, framing is not. Files under /cdn stay embeddable from
// other origins.
var DefaultSecurityHeaders = SecurityHeadersConfig{
	ContentTypeOptions:        "nosniff",
	FrameOptions:              "DENY",
	ReferrerPolicy:            "strict-origin-when-cross-origin",
	ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'",
	CrossOriginResourcePolicy: "cross-origin",
}

// SecurityHeaders adds DefaultSecurityHeaders to every response.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](DefaultSecurityHeaders)
}

// SecurityHeadersWithConfig creates a security headers middleware with custom configuration.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	headers := map[string]string{
		"X-Content-Type-Options":       cfg.ContentTypeOptions,
		"X-Frame-Options":              cfg.FrameOptions,
		"Referrer-Policy":              cfg.ReferrerPolicy,
		"Content-Security-Policy":      cfg.ContentSecurityPolicy,
		"Strict-Transport-Security":    cfg.StrictTransportSecurity,
		"Cross-Origin-Resource-Policy": cfg.CrossOriginResourcePolicy,
	}
	for k, v := range cfg.CustomHeaders {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range headers {
		if v == "" {
			delete(headers, k)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)
			if resp == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				h := w.Header()
				for k, v := range headers {
					h.Set(k, v)
				}
				return resp(w, r)
			}
		}
	}
}
