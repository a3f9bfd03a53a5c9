// Package health serves the admin's liveness and readiness probes.
//
// Readiness runs named [Checks] concurrently under one timeout. Probes get
// plain "OK" or "unavailable: <names>"; clients asking for JSON
// (Accept: application/json or ?format=json) get the same {code,msg,data}
// envelope the RPC endpoint speaks, with per-check status in data.
//
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//	}, health.WithLogger(log)))
package health
