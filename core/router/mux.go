package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"runtime/debug"

	"github.com/dmitrymomot/simplecdn/core/handler"
)

// wildcardPattern matches ServeMux wildcards such as {name} and {name...}.
var wildcardPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(?:\.\.\.)?\}`)

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	serveMux     *http.ServeMux
	routes       *[]Route
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	parent       *mux[C] // for inline groups
	inline       bool
	hasRoutes    bool
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		serveMux:     http.NewServeMux(),
		routes:       &[]Route{},
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	// Catch-all so unmatched requests reach the error handler instead of
	// the plain-text ServeMux 404.
	m.serveMux.Handle("/", m.routeHandler(nil, nil))

	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.root().serveMux.ServeHTTP(w, r)
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodHead, pattern, h)
}

func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

// Use appends middleware to the router.
// Middleware of the top-level router must be registered before any route.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if !m.inline && m.hasRoutes {
		panic("router: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates a new inline router with additional middleware.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		inline:      true,
		parent:      m,
		middlewares: middlewares,
	}
}

// Group creates a new inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Routes returns all registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	routes := *m.root().routes
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

func (m *mux[C]) root() *mux[C] {
	curr := m
	for curr.inline {
		curr = curr.parent
	}
	return curr
}

func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	root := m.root()
	root.hasRoutes = true

	h := fn
	if m.inline {
		// Parent inline middlewares wrap child ones.
		var all []handler.Middleware[C]
		for curr := m; curr != nil && curr.inline; curr = curr.parent {
			if len(curr.middlewares) > 0 {
				all = append(append([]handler.Middleware[C]{}, curr.middlewares...), all...)
			}
		}
		if len(all) > 0 {
			h = chain(all, fn)
		}
	}

	full := pattern
	if method != "" {
		full = method + " " + pattern
	}

	var names []string
	for _, match := range wildcardPattern.FindAllStringSubmatch(pattern, -1) {
		names = append(names, match[1])
	}

	root.serveMux.Handle(full, m.routeHandler(h, names))
	*root.routes = append(*root.routes, Route{Method: method, Pattern: pattern})
}

// routeHandler adapts a typed handler to http.Handler. A nil fn renders not found.
func (m *mux[C]) routeHandler(fn handler.HandlerFunc[C], names []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		root := m.root()
		ww := newResponseWriter(w)

		var params map[string]string
		if len(names) > 0 {
			params = make(map[string]string, len(names))
			for _, name := range names {
				params[name] = r.PathValue(name)
			}
		}

		ctx := root.newContext(ww, r, params)

		defer func() {
			if p := recover(); p != nil {
				panicErr := &panicError{value: p, stack: debug.Stack()}
				if ww.Written() {
					root.logger.Error("panic after response written",
						"value", panicErr.value,
						"stack", string(panicErr.stack),
						"path", r.URL.Path,
						"method", r.Method,
						"status", ww.Status(),
					)
					return
				}
				root.errorHandler(ctx, panicErr)
			}
		}()

		if fn == nil {
			root.errorHandler(ctx, notFoundError{})
			return
		}

		h := fn
		if len(root.middlewares) > 0 {
			h = chain(root.middlewares, h)
		}

		response := h(ctx)
		if response == nil {
			root.errorHandler(ctx, ErrNilResponse)
			return
		}

		if err := response(ww, ctx.Request()); err != nil {
			root.errorHandler(ctx, err)
		}
	})
}

// chain wraps h so that the first middleware is the outermost.
func chain[C handler.Context](middlewares []handler.Middleware[C], h handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
