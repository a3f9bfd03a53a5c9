// Package internal implements the admin side of the RPC layer: the
// dispatcher that turns HTTP requests into AdminBiz calls, and the App that
// mounts it on a chi router with health probes and graceful shutdown.
//
// Import "github.com/dmitrymomot/jobrpc" instead, which re-exports the
// public API.
//
// # Dispatch
//
// Every request to /api/{operation} is answered with HTTP 200 and a JSON
// envelope. Validation runs in a fixed order and stops at the first failure:
//
//  1. the method must be POST
//  2. the operation name must be non-empty
//  3. the access token must match when one is configured
//  4. the operation must be one of the eight known names
//
// The body is then decoded into the operation's request record. A body that
// does not decode yields a failure envelope naming the operation; a handler
// panic is recovered, logged and answered with a failure envelope.
//
// # Application
//
//	app := internal.New(service,
//	    internal.WithAccessToken(token),
//	    internal.WithHealthChecks(
//	        internal.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	    ),
//	)
//	if err := app.Run(":8080", internal.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then shuts the server down and runs
// the shutdown hooks in registration order.
package internal
