package internal

import (
	"log/slog"
	"strings"
)

// Option configures the application.
type Option func(*App)

// WithLogger sets the application logger.
// The dispatcher and health probes log through it.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithAccessToken requires the XXL-JOB-ACCESS-TOKEN header to equal token.
// An empty token leaves the endpoint open.
func WithAccessToken(token string) Option {
	return func(a *App) {
		a.dispatchOpts = append(a.dispatchOpts, WithDispatcherAccessToken(token))
	}
}

// WithMaxRequestBody limits the size of request bodies accepted by /api.
func WithMaxRequestBody(n int64) Option {
	return func(a *App) {
		a.dispatchOpts = append(a.dispatchOpts, WithMaxBodySize(n))
	}
}

// WithBasePath mounts every route under path, e.g. "/xxl-job-admin".
func WithBasePath(path string) Option {
	return func(a *App) {
		a.basePath = "/" + strings.Trim(path, "/")
	}
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	internal.New(biz,
//	    internal.WithHealthChecks(
//	        internal.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    ),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}
