package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simplecdn/core/handler"
	"github.com/dmitrymomot/simplecdn/core/router"
)

func text(body string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(body))
		return err
	}
}

type statusErr struct{ code int }

func (e statusErr) Error() string   { return "status error" }
func (e statusErr) StatusCode() int { return e.code }

func TestMuxServeHTTP(t *testing.T) {
	t.Parallel()

	t.Run("successful request handling", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/test", func(ctx *router.Context) handler.Response {
			return text("Hello World")
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Hello World", w.Body.String())
	})

	t.Run("wildcard params", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/browse/{path...}", func(ctx *router.Context) handler.Response {
			return text(ctx.Param("path"))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/browse/a/b/c.png", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "a/b/c.png", w.Body.String())
	})

	t.Run("exact root does not swallow other paths", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/{$}", func(ctx *router.Context) handler.Response {
			return text("root")
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "root", w.Body.String())

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("not found goes through error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New[*router.Context](
			router.WithErrorHandler(func(ctx *router.Context, err error) {
				got = err
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.ErrorIs(t, got, router.ErrNotFound)
	})

	t.Run("response error uses status code", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Post("/fail", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				return statusErr{code: http.StatusBadRequest}
			}
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/fail", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New[*router.Context](
			router.WithErrorHandler(func(ctx *router.Context, err error) { got = err }),
		)
		r.Get("/nil", func(ctx *router.Context) handler.Response { return nil })

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nil", nil))
		assert.ErrorIs(t, got, router.ErrNilResponse)
	})

	t.Run("panic recovery", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New[*router.Context](
			router.WithErrorHandler(func(ctx *router.Context, err error) {
				got = err
				ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
			}),
		)
		r.Get("/panic", func(ctx *router.Context) handler.Response {
			panic(errors.New("boom"))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var pe router.PanicError
		require.ErrorAs(t, got, &pe)
		assert.Contains(t, pe.Error(), "boom")
		assert.NotEmpty(t, pe.Stack())
	})
}

func TestMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) handler.Middleware[*router.Context] {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				order = append(order, name)
				return next(ctx)
			}
		}
	}

	r := router.New[*router.Context](router.WithMiddleware(mw("global")))
	r.Group(func(g router.Router[*router.Context]) {
		g.Use(mw("group"))
		g.With(mw("inline")).Get("/x", func(ctx *router.Context) handler.Response {
			order = append(order, "handler")
			return text("ok")
		})
	})
	r.Get("/y", func(ctx *router.Context) handler.Response { return text("y") })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, []string{"global", "group", "inline", "handler"}, order)

	order = nil
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/y", nil))
	assert.Equal(t, []string{"global"}, order)
}

func TestUseAfterRoutesPanics(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/a", func(ctx *router.Context) handler.Response { return text("a") })

	assert.Panics(t, func() {
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] { return next })
	})
}

func TestInvalidPatternPanics(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	assert.Panics(t, func() {
		r.Get("no-slash", func(ctx *router.Context) handler.Response { return text("") })
	})
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/a", func(ctx *router.Context) handler.Response { return text("a") })
	r.Post("/b", func(ctx *router.Context) handler.Response { return text("b") })
	r.Handle("/c/{path...}", func(ctx *router.Context) handler.Response { return text("c") })

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.Route{Method: http.MethodGet, Pattern: "/a"}, routes[0])
	assert.Equal(t, router.Route{Method: http.MethodPost, Pattern: "/b"}, routes[1])
	assert.Equal(t, router.Route{Pattern: "/c/{path...}"}, routes[2])

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/c/x", strings.NewReader("")))
	assert.Equal(t, "c", w.Body.String())
}

type appContext struct {
	*router.Context
	Tag string
}

func TestMuxWithContextFactory(t *testing.T) {
	t.Parallel()

	r := router.New[*appContext](router.WithContextFactory(
		func(w http.ResponseWriter, r *http.Request, params map[string]string) *appContext {
			return &appContext{Context: router.NewContext(w, r, params), Tag: "custom"}
		},
	))

	var got *appContext
	r.Get("/files/{name}", func(ctx *appContext) handler.Response {
		got = ctx
		return text(ctx.Param("name"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/a.png", nil))

	require.NotNil(t, got)
	assert.Equal(t, "custom", got.Tag)
	assert.Equal(t, "a.png", w.Body.String())
}

func TestMuxPanicsWithoutContextFactory(t *testing.T) {
	t.Parallel()

	r := router.New[*appContext]()
	r.Get("/test", func(ctx *appContext) handler.Response { return text("") })

	assert.Panics(t, func() {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	})
}
