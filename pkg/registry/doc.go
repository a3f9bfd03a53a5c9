// Package registry stores the addresses executors register with the admin.
//
// Each registration is identified by (group, key, value) and expires when it
// is not refreshed within the TTL, three beat intervals by default. Two
// implementations are provided: [Redis] for shared deployments and [Memory]
// for tests and single-node setups.
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"))
//	if err != nil {
//	    return err
//	}
//	store := registry.NewRedis(client, registry.WithTTL(90*time.Second))
//
//	err = store.Register(ctx, adminbiz.RegistryParam{
//	    RegistryGroup: adminbiz.RegistryTypeExecutor,
//	    RegistryKey:   "demo-executor",
//	    RegistryValue: "http://10.0.0.1:9999/",
//	})
//
//	addrs, err := store.List(ctx, adminbiz.RegistryTypeExecutor, "demo-executor")
package registry
