// Package middlewares provides HTTP middleware for the admin App.
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing. It reuses an
// incoming X-Request-ID or X-Correlation-ID header, or generates a UUID.
//
//	app := internal.New(service,
//	    internal.WithMiddleware(middlewares.RequestID()),
//	)
//
// Use RequestIDExtractor() with logger.WithExtractors for automatic
// request_id in all logs:
//
//	log := logger.New(logger.WithExtractors(middlewares.RequestIDExtractor()))
//
// # Recover
//
// Recover catches panics raised outside the dispatcher and answers with a
// failure envelope, so executors always receive {code, msg}.
//
// # Timeout
//
// Timeout bounds the request context handed to operation handlers.
//
// # Access log
//
// AccessLog writes one structured log line per request.
package middlewares
