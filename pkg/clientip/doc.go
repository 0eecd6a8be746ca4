// Package clientip extracts the client IP address from an HTTP request.
//
// Proxy headers are only consulted when the caller trusts them; otherwise
// the connection's RemoteAddr is used. Trusted headers are checked in order:
// CF-Connecting-IP, X-Forwarded-For (left-most valid entry) and X-Real-IP.
package clientip
