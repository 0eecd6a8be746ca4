// Package health provides liveness and readiness handlers.
//
//	r.Get("/live", health.Liveness[*cdn.Context])
//	r.Get("/ready", health.Readiness[*cdn.Context](logger,
//		health.Check{Name: "storage", Fn: store.Ping},
//		health.Check{Name: "s3", Fn: mirror.Ping},
//	))
//
// Readiness runs every check and answers 503 naming the failed ones.
package health
