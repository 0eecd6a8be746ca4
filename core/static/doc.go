// Package static serves files from a confined directory tree.
//
// Paths are mapped to disk through a Resolver, so requests cannot leave the
// root through ".." segments or symlinks. Directories are never listed.
// Range requests, conditional GETs and content types are handled by
// http.ServeContent, and index.html is served like any other file.
//
//	r.Get("/cdn/{path...}", static.Dir[*cdn.Context](store,
//		static.WithStripPrefix("/cdn"),
//		static.WithCacheControl("public, max-age=3600"),
//	))
package static
