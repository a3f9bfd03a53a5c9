// Package redis opens the go-redis client backing the executor registry.
//
// [Connect] takes an env-tagged [Config] and pings the server with a linear
// retry so the admin can start before Redis is reachable. [Open] is the
// shorthand used by tests and tooling.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	store := registry.NewRedis(client)
//
// [Healthcheck] and [Shutdown] plug into the admin's readiness checks and
// shutdown hooks.
package redis
