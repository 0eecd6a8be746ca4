package cdn

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/simplecdn/core/logger"
	"github.com/dmitrymomot/simplecdn/core/router"
	"github.com/dmitrymomot/simplecdn/core/server"
	"github.com/dmitrymomot/simplecdn/core/storage"
	"github.com/dmitrymomot/simplecdn/core/upload"
	"github.com/dmitrymomot/simplecdn/integration/prometheus"
	"github.com/dmitrymomot/simplecdn/integration/storage/s3"
	"github.com/dmitrymomot/simplecdn/pkg/ratelimiter"
)

// App wires storage, validation, the HTTP router and the server.
type App struct {
	config    Config
	logger    *slog.Logger
	store     *storage.Local
	mirror    *s3.Mirror
	validator *upload.Validator
	registry  *promclient.Registry
	limiter   *ratelimiter.MemoryStore
	bucket    ratelimiter.RateLimiter
	pages     *template.Template
	router    router.Router[*Context]
	server    *server.Server
}

type AppOption func(*App) error

// NewApp builds the application from cfg. Unset dependencies are created
// from the configuration: the storage root is created if missing, and the
// S3 mirror is attached when S3_BUCKET is set.
func NewApp(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{config: cfg}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(cfg)
	}
	log := app.logger.With(logger.Component("app"))

	if cfg.AuthMode == AuthBasic && cfg.AdminPasswordHash == "" && cfg.AdminPassword == DefaultAdminPassword {
		log.Warn("ADMIN_PASSWORD is the default placeholder; set a real password before exposing the server")
	}
	if cfg.AuthMode == AuthHosts && len(cfg.AllowedHosts) == 0 {
		log.Warn("AUTH_MODE=hosts with an empty ALLOWED_HOSTS accepts every host")
	}

	if app.registry == nil {
		app.registry = promclient.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if app.store == nil {
		store, err := app.newStore(ctx)
		if err != nil {
			return nil, err
		}
		app.store = store
	}

	if app.validator == nil {
		app.validator = upload.DefaultValidator
	}

	if cfg.RateLimitEnabled && app.bucket == nil {
		app.limiter = ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreLogger(app.logger))
		bucket, err := ratelimiter.NewBucket(app.limiter, ratelimiter.Config{
			Capacity:       cfg.RateLimitBurst,
			RefillRate:     cfg.RateLimitRefill,
			RefillInterval: cfg.RateLimitInterval,
		})
		if err != nil {
			return nil, err
		}
		app.bucket = bucket
	}

	if app.pages == nil {
		pages, err := parsePages()
		if err != nil {
			return nil, err
		}
		app.pages = pages
	}

	guards, err := app.guards()
	if err != nil {
		return nil, err
	}
	app.router = router.New[*Context](
		router.WithContextFactory(newContext),
		router.WithErrorHandler[*Context](app.handleError),
		router.WithLogger[*Context](app.logger),
		router.WithMiddleware(app.globalMiddleware()...),
	)
	app.routes(app.router, guards)

	if app.server == nil {
		srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = srv
	}

	return app, nil
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{logger.WithLevel(logger.ParseLevel(cfg.LogLevel))}
	if cfg.IsProduction() {
		opts = append([]logger.Option{logger.WithProduction(cfg.AppName)}, opts...)
	} else {
		opts = append([]logger.Option{logger.WithDevelopment(cfg.AppName)}, opts...)
	}
	return logger.New(opts...)
}

func (a *App) newStore(ctx context.Context) (*storage.Local, error) {
	opts := []storage.Option{storage.WithLogger(a.logger)}

	if a.config.MetricsEnabled {
		obs, err := prometheus.NewObserver("", a.registry)
		if err != nil {
			return nil, err
		}
		opts = append(opts, storage.WithObserver(obs))
	}

	if a.config.S3.Enabled() {
		mirror, err := s3.New(ctx, a.config.S3)
		if err != nil {
			return nil, err
		}
		opts = append(opts, storage.WithReplica(mirror))
		a.mirror = mirror
		a.logger.Info("mirroring uploads to s3",
			logger.Component("app"),
			slog.String("bucket", a.config.S3.Bucket),
			slog.String("prefix", a.config.S3.Prefix),
		)
	}

	return storage.NewLocal(a.config.StorageRoot, opts...)
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Router exposes the router for route introspection.
func (a *App) Router() router.Router[*Context] {
	return a.router
}

// Run serves HTTP and runs background jobs until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting",
		logger.Component("app"),
		slog.String("storage_root", a.store.Root()),
		slog.String("auth_mode", a.config.AuthMode),
		slog.String("addr", a.config.Server.Addr),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(ctx, a.Handler()))
	if a.limiter != nil {
		g.Go(a.limiter.Run(ctx))
	}
	return g.Wait()
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) AppOption {
	return func(app *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = l
		return nil
	}
}

// WithStorage sets a pre-built storage. Metrics and the S3 mirror from the
// configuration are not attached to it.
func WithStorage(s *storage.Local) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("storage cannot be nil")
		}
		app.store = s
		return nil
	}
}

// WithValidator replaces the default upload policy.
func WithValidator(v *upload.Validator) AppOption {
	return func(app *App) error {
		if v == nil {
			return errors.New("validator cannot be nil")
		}
		app.validator = v
		return nil
	}
}

// WithRegistry sets the Prometheus registry used for storage metrics and /metrics.
func WithRegistry(reg *promclient.Registry) AppOption {
	return func(app *App) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		app.registry = reg
		return nil
	}
}

// WithRateLimiter replaces the in-memory limiter for guarded routes.
func WithRateLimiter(l ratelimiter.RateLimiter) AppOption {
	return func(app *App) error {
		if l == nil {
			return errors.New("rate limiter cannot be nil")
		}
		app.bucket = l
		return nil
	}
}

// WithServer sets the HTTP server.
func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}
