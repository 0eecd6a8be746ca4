package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/simplecdn/core/router"
	"github.com/dmitrymomot/simplecdn/middleware"
)

func TestAllowedHosts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hosts []string
		host  string
		want  int
	}{
		{"empty list allows all", nil, "anything.example", http.StatusOK},
		{"exact match", []string{"cdn.example.com"}, "cdn.example.com", http.StatusOK},
		{"port stripped", []string{"cdn.example.com"}, "cdn.example.com:8000", http.StatusOK},
		{"case insensitive", []string{"CDN.example.com"}, "cdn.EXAMPLE.com", http.StatusOK},
		{"ipv6 with port", []string{"::1"}, "[::1]:8000", http.StatusOK},
		{"localhost", []string{" localhost ", "cdn.example.com"}, "localhost:8000", http.StatusOK},
		{"other host", []string{"cdn.example.com"}, "evil.example.com", http.StatusForbidden},
		{"suffix is not a match", []string{"example.com"}, "cdn.example.com", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := guardedRouter(middleware.AllowedHosts[*router.Context](tt.hosts...))

			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "Host not allowed")
			}
		})
	}
}

func TestHostWithoutPort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", middleware.HostWithoutPort("example.com:443"))
	assert.Equal(t, "example.com", middleware.HostWithoutPort("example.com"))
	assert.Equal(t, "::1", middleware.HostWithoutPort("[::1]:80"))
	assert.Equal(t, "::1", middleware.HostWithoutPort("[::1]"))
	assert.Equal(t, "", middleware.HostWithoutPort(""))
}
