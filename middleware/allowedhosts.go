package middleware

import (
	"net"
	"strings"

	"github.com/dmitrymomot/simplecdn/core/handler"
	"github.com/dmitrymomot/simplecdn/core/response"
)

// AllowedHostsConfig configures the Host allow-list guard.
type AllowedHostsConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Hosts are compared case-insensitively against the Host header without
	// its port. An empty list allows every host.
	Hosts []string
}

// AllowedHosts rejects requests whose Host is not in hosts with 403.
func AllowedHosts[C handler.Context](hosts ...string) handler.Middleware[C] {
	return AllowedHostsWithConfig[C](AllowedHostsConfig{Hosts: hosts})
}

// AllowedHostsWithConfig creates a Host allow-list guard with custom configuration.
func AllowedHostsWithConfig[C handler.Context](cfg AllowedHostsConfig) handler.Middleware[C] {
	allowed := make(map[string]struct{}, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed[h] = struct{}{}
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if len(allowed) == 0 || (cfg.Skip != nil && cfg.Skip(ctx)) {
				return next(ctx)
			}

			host := HostWithoutPort(ctx.Request().Host)
			if _, ok := allowed[strings.ToLower(host)]; !ok {
				return response.Error(response.ErrForbidden.WithMessage("Host not allowed"))
			}

			return next(ctx)
		}
	}
}

// HostWithoutPort strips an optional port and IPv6 brackets from a Host header value.
func HostWithoutPort(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return strings.TrimSuffix(strings.TrimPrefix(hostport, "["), "]")
}
