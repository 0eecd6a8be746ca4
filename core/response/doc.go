// Package response provides helpers that build handler.Response values: plain
// text, HTML, JSON, html/template pages, redirects, file downloads and
// structured HTTP errors.
//
// Every helper returns a closure that writes to the http.ResponseWriter when
// the router executes it. Returning an error from the closure hands the error
// to the router's error handler.
//
// # Basic Usage
//
//	func browse(ctx *cdn.Context) handler.Response {
//		return response.TemplateName(pages, "browse", data)
//	}
//
//	func upload(ctx *cdn.Context) handler.Response {
//		return response.JSON(map[string]string{"status": "ok"})
//	}
//
// # Errors
//
// HTTPError carries a status, a machine-readable code and a message. Domain
// errors are usually mapped to one of the predefined values:
//
//	return response.Error(response.ErrBadRequest.WithMessage("invalid path"))
//
// ErrorHandler and JSONErrorHandler render any error as plain text or JSON,
// using HTTPError or the StatusCode() interface to pick the status.
package response
