// Package router provides a generic HTTP router built on the pattern matching of
// net/http.ServeMux.
//
// Patterns use the ServeMux syntax: "/browse/{path...}" captures the remainder of
// the path, "/{$}" matches the root exactly. Captured wildcards are exposed through
// Context.Param. Handlers receive a typed context created by the configured
// context factory and return a handler.Response that the router renders.
//
// Basic usage:
//
//	r := router.New[*router.Context]()
//	r.Use(middleware.RequestID[*router.Context]())
//
//	r.Get("/{$}", indexHandler)
//	r.Get("/download/{path...}", downloadHandler)
//
//	r.Group(func(admin router.Router[*router.Context]) {
//		admin.Use(middleware.BasicAuth[*router.Context](password))
//		admin.Post("/upload", uploadHandler)
//	})
//
//	http.ListenAndServe(":8080", r)
//
// Unmatched requests and errors returned from responses are passed to the error
// handler (see WithErrorHandler). Panics in handlers are recovered and reported to
// the error handler as PanicError values.
package router
