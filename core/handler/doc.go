// Package handler defines the request processing contract shared by the router,
// the middleware chain and the application handlers.
//
// A handler receives a typed request context and returns a Response. The Response
// is a deferred rendering function: middleware can wrap it to add headers or to
// observe the status code before anything reaches the client.
//
//	func listHandler(store *storage.Local) handler.HandlerFunc[*cdn.Context] {
//		return func(ctx *cdn.Context) handler.Response {
//			dirs, files, err := store.List(ctx.Param("path"))
//			if err != nil {
//				return response.Error(err)
//			}
//			return response.JSON(map[string]any{"dirs": dirs, "files": files})
//		}
//	}
//
// Errors returned from a Response are passed to the router's ErrorHandler, which
// decides how they are rendered.
package handler
