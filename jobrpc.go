package jobrpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/jobrpc/internal"
	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/logger"
)

// Type aliases - public API
type (
	// App serves the admin RPC endpoint.
	App = internal.App

	// Dispatcher routes /api/{operation} requests to an AdminBiz.
	Dispatcher = internal.Dispatcher

	// DispatcherOption configures a standalone Dispatcher.
	DispatcherOption = internal.DispatcherOption

	// Middleware wraps an http.Handler.
	Middleware = internal.Middleware

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// AdminBiz is the operation set served by the admin.
	AdminBiz = adminbiz.AdminBiz
)

// New creates an application serving biz under /api/{operation}.
func New(biz AdminBiz, opts ...Option) *App {
	return internal.New(biz, opts...)
}

// NewDispatcher creates a dispatcher for mounting on another router.
func NewDispatcher(biz AdminBiz, opts ...DispatcherOption) *Dispatcher {
	return internal.NewDispatcher(biz, opts...)
}

// Application options

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithAccessToken requires executors to send this XXL-JOB-ACCESS-TOKEN.
func WithAccessToken(token string) Option {
	return internal.WithAccessToken(token)
}

// WithMaxRequestBody limits request bodies.
func WithMaxRequestBody(n int64) Option {
	return internal.WithMaxRequestBody(n)
}

// WithBasePath mounts all routes under path, e.g. "/xxl-job-admin".
func WithBasePath(path string) Option {
	return internal.WithBasePath(path)
}

// WithMiddleware adds global middleware.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHealthChecks enables liveness and readiness endpoints.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLivenessPath sets the liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets the readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn func(context.Context) error) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server accepts requests.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Dispatcher options

// WithDispatcherAccessToken sets the token on a standalone Dispatcher.
func WithDispatcherAccessToken(token string) DispatcherOption {
	return internal.WithDispatcherAccessToken(token)
}

// WithDispatcherLogger sets the logger on a standalone Dispatcher.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return internal.WithDispatcherLogger(l)
}

// WithMaxBodySize limits request bodies on a standalone Dispatcher.
func WithMaxBodySize(n int64) DispatcherOption {
	return internal.WithMaxBodySize(n)
}
