package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/simplecdn/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		trust   bool
		want    string
	}{
		{name: "remote addr", remote: "192.0.2.10:5555", want: "192.0.2.10"},
		{name: "ipv6 remote addr", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "untrusted headers ignored", remote: "192.0.2.10:5555", headers: map[string]string{"X-Forwarded-For": "203.0.113.7"}, want: "192.0.2.10"},
		{name: "cloudflare first", remote: "10.0.0.1:1", trust: true, headers: map[string]string{"CF-Connecting-IP": "198.51.100.1", "X-Forwarded-For": "203.0.113.7"}, want: "198.51.100.1"},
		{name: "left-most valid forwarded", remote: "10.0.0.1:1", trust: true, headers: map[string]string{"X-Forwarded-For": "garbage, 203.0.113.7, 10.0.0.2"}, want: "203.0.113.7"},
		{name: "real ip", remote: "10.0.0.1:1", trust: true, headers: map[string]string{"X-Real-IP": "203.0.113.9"}, want: "203.0.113.9"},
		{name: "invalid headers fall back", remote: "10.0.0.1:1", trust: true, headers: map[string]string{"X-Real-IP": "nope"}, want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetIP(r, tt.trust))
		})
	}
}
