// Package server wraps http.Server with environment-driven configuration and
// graceful shutdown.
//
// Run returns a function suitable for errgroup.Group.Go: it serves until the
// context is cancelled, then drains in-flight requests (uploads included)
// within the shutdown timeout.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
package server
