// Package logger builds the structured loggers used by the admin service,
// the executor tooling and the RPC layer.
//
// Loggers are plain [*slog.Logger] values. The package adds three things on
// top of log/slog:
//   - context extractors that attach request-scoped attributes (request id,
//     operation name) on every call
//   - optional Sentry fan-out for warnings and errors
//   - a no-op logger used as the default everywhere a logger is optional
//
// # Usage
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithComponent("jobadmin"),
//	    logger.WithExtractors(middlewares.RequestIDExtractor()),
//	)
//
// With Sentry:
//
//	log := logger.New(
//	    logger.WithSentry(logger.SentryConfig{DSN: os.Getenv("SENTRY_DSN")}),
//	)
//
// An empty DSN or a failed Sentry initialisation falls back to stdout only.
package logger
