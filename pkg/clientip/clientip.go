package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the client IP. With trustProxy false only RemoteAddr is used.
func GetIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := validIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
			return ip
		}
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			for _, part := range strings.Split(xff, ",") {
				if ip := validIP(part); ip != "" {
					return ip
				}
			}
		}
		if ip := validIP(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	return remoteIP(r.RemoteAddr)
}

func remoteIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	if ip := validIP(host); ip != "" {
		return ip
	}
	return host
}

func validIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
