package static

import (
	"errors"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/dmitrymomot/simplecdn/core/handler"
)

// ErrNotFound is returned to the router when the requested file does not exist.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string   { return "file not found" }
func (notFoundError) StatusCode() int { return http.StatusNotFound }

// Resolver maps a relative path to a confined absolute path.
type Resolver interface {
	Resolve(segments ...string) (string, error)
}

type dirConfig struct {
	stripPrefix  string
	cacheControl string
	notFound     func(w http.ResponseWriter, r *http.Request) error
}

// DirOption configures directory serving behavior.
type DirOption func(*dirConfig)

// WithStripPrefix removes the given prefix from the URL path before serving files.
func WithStripPrefix(prefix string) DirOption {
	return func(c *dirConfig) {
		c.stripPrefix = strings.TrimSuffix(prefix, "/")
	}
}

// WithCacheControl sets the Cache-Control header on served files.
func WithCacheControl(value string) DirOption {
	return func(c *dirConfig) {
		c.cacheControl = value
	}
}

// WithNotFound sets a custom handler for missing files. By default
// ErrNotFound is returned to the router's error handler.
func WithNotFound(h func(w http.ResponseWriter, r *http.Request) error) DirOption {
	return func(c *dirConfig) {
		c.notFound = h
	}
}

// Dir creates a handler that serves regular files resolved through res.
// Files are served as stored; there is no index.html redirect.
func Dir[C handler.Context](res Resolver, opts ...DirOption) handler.HandlerFunc[C] {
	cfg := &dirConfig{
		notFound: func(http.ResponseWriter, *http.Request) error { return ErrNotFound },
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx C) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), cfg.stripPrefix)
			rel = strings.TrimPrefix(rel, "/")

			abs, err := res.Resolve(rel)
			if err != nil {
				return cfg.notFound(w, r)
			}
			f, err := os.Open(abs)
			if err != nil {
				return cfg.notFound(w, r)
			}
			defer func() { _ = f.Close() }()

			info, err := f.Stat()
			if err != nil || !info.Mode().IsRegular() {
				return cfg.notFound(w, r)
			}

			if cfg.cacheControl != "" {
				w.Header().Set("Cache-Control", cfg.cacheControl)
			}
			http.ServeContent(w, r, info.Name(), info.ModTime(), f)
			return nil
		}
	}
}

// IsNotFound reports whether err is the static not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
