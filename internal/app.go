package internal

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/health"
	"github.com/dmitrymomot/jobrpc/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// App serves the admin RPC endpoint and optional health probes.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router       chi.Router
	dispatcher   *Dispatcher
	healthConfig *healthConfig
	logger       *slog.Logger
	basePath     string
	dispatchOpts []DispatcherOption
	middlewares  []Middleware
}

// New creates an application routing /api/{operation} to biz.
//
// Example:
//
//	app := internal.New(adminService,
//	    internal.WithAccessToken(cfg.AccessToken),
//	    internal.WithBasePath("/xxl-job-admin"),
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	)
func New(biz adminbiz.AdminBiz, opts ...Option) *App {
	a := &App{
		router: chi.NewRouter(),
		logger: logger.NewNope(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.dispatcher = NewDispatcher(biz, append([]DispatcherOption{WithDispatcherLogger(a.logger)}, a.dispatchOpts...)...)
	a.setupRoutes()
	return a
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// Dispatcher returns the dispatcher mounted under /api.
func (a *App) Dispatcher() *Dispatcher {
	return a.dispatcher
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080",
//	    internal.Logger(log),
//	    internal.StartupHook(queue.Start),
//	    internal.ShutdownHook(db.Shutdown(pool)),
//	)
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
		onListen:        cfg.onListen,
	})
}

// setupRoutes configures the router with middleware and endpoints.
func (a *App) setupRoutes() {
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}

	// chi answers unknown or lowercase methods with a bare 405 before
	// routing; the RPC endpoint must answer them with an envelope.
	a.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if a.isAPIPath(r.URL.Path) {
			a.dispatcher.ServeHTTP(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	mount := func(r chi.Router) {
		// Every method reaches the dispatcher so it can answer with an envelope.
		r.HandleFunc("/api", a.dispatcher.ServeHTTP)
		r.HandleFunc("/api/", a.dispatcher.ServeHTTP)
		r.HandleFunc("/api/{"+URIParam+"}", a.dispatcher.ServeHTTP)
	}

	if a.basePath == "" || a.basePath == "/" {
		mount(a.router)
		return
	}
	a.router.Route(a.basePath, mount)
}

func (a *App) isAPIPath(path string) bool {
	prefix := "/api"
	if a.basePath != "" && a.basePath != "/" {
		prefix = a.basePath + prefix
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	internal.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn func(context.Context) error) HealthOption {
	return func(c *healthConfig) {
		if fn == nil {
			return
		}
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
