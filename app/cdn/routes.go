package cdn

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/simplecdn/core/handler"
	"github.com/dmitrymomot/simplecdn/core/health"
	"github.com/dmitrymomot/simplecdn/core/router"
	"github.com/dmitrymomot/simplecdn/core/static"
	"github.com/dmitrymomot/simplecdn/middleware"
)

// formBodyLimit bounds the urlencoded forms posted to /mkdir and /delete.
const formBodyLimit = 64 << 10

// isPublicFile matches the routes serving stored files to anyone.
func isPublicFile(ctx handler.Context) bool {
	p := ctx.Request().URL.Path
	return strings.HasPrefix(p, "/cdn/") || strings.HasPrefix(p, "/download/")
}

func (a *App) globalMiddleware() []handler.Middleware[*Context] {
	mws := []handler.Middleware[*Context]{
		middleware.RequestID[*Context](),
		middleware.ClientIPWithConfig[*Context](middleware.ClientIPConfig{
			TrustProxyHeaders: a.config.TrustProxyHeaders,
		}),
		middleware.LoggingWithLogger[*Context](a.logger),
		middleware.SecurityHeadersWithConfig[*Context](withSkip(middleware.DefaultSecurityHeaders, isPublicFile)),
		middleware.SecurityHeadersWithConfig[*Context](middleware.SecurityHeadersConfig{
			Skip:                      func(ctx handler.Context) bool { return !isPublicFile(ctx) },
			ContentTypeOptions:        "nosniff",
			CrossOriginResourcePolicy: "cross-origin",
		}),
	}

	// The Host allow-list applies to every route, public files included.
	if a.config.AuthMode == AuthHosts {
		mws = append(mws, middleware.AllowedHosts[*Context](a.config.AllowedHosts...))
	}
	return mws
}

func withSkip(cfg middleware.SecurityHeadersConfig, skip func(handler.Context) bool) middleware.SecurityHeadersConfig {
	cfg.Skip = skip
	return cfg
}

// guards returns the middleware protecting browse and mutating routes.
func (a *App) guards() ([]handler.Middleware[*Context], error) {
	var mws []handler.Middleware[*Context]

	if a.bucket != nil {
		mws = append(mws, middleware.RateLimit[*Context](a.bucket))
	}

	if a.config.AuthMode == AuthBasic {
		auth, err := middleware.BasicAuthWithConfig[*Context](middleware.BasicAuthConfig{
			Username:     a.config.AdminUser,
			Password:     a.config.AdminPassword,
			PasswordHash: a.config.AdminPasswordHash,
			Realm:        a.config.AppName,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, auth)
	}

	return mws, nil
}

func (a *App) routes(r router.Router[*Context], guards []handler.Middleware[*Context]) {
	r.Get("/live", health.Liveness[*Context])
	r.Get("/ready", health.Readiness[*Context](a.logger, a.readinessChecks()...))
	r.Get("/cdn/{path...}", static.Dir[*Context](a.store,
		static.WithStripPrefix("/cdn"),
		static.WithCacheControl(a.config.CDNCacheControl),
	))
	r.Get("/download/{path...}", a.download)

	r.Group(func(g router.Router[*Context]) {
		g.Use(guards...)

		g.Get("/{$}", a.index)
		g.Get("/browse/{path...}", a.browse)
		g.Get("/qr/{path...}", a.qr)
		g.With(middleware.BodyLimitWithSize[*Context](a.config.MaxUploadSize)).Post("/upload", a.upload)
		g.With(middleware.BodyLimitWithSize[*Context](formBodyLimit)).Post("/mkdir", a.mkdir)
		g.With(middleware.BodyLimitWithSize[*Context](formBodyLimit)).Post("/delete", a.remove)

		if a.config.MetricsEnabled {
			g.Get("/metrics", wrapHTTP(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry})))
		}
	})
}

func (a *App) readinessChecks() []health.Check {
	checks := []health.Check{{Name: "storage", Fn: a.store.Ping}}
	if a.mirror != nil {
		checks = append(checks, health.Check{Name: "s3", Fn: a.mirror.Ping})
	}
	return checks
}

// wrapHTTP adapts a plain http.Handler.
func wrapHTTP(h http.Handler) handler.HandlerFunc[*Context] {
	return func(ctx *Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			h.ServeHTTP(w, r)
			return nil
		}
	}
}
