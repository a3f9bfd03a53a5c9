// Package adminbiz defines the operations the admin service exposes to
// executors, the records they exchange, and the remote-invocation client.
//
// [AdminBiz] is the single method set shared by both sides: the admin
// service implements it with real handlers and the dispatcher routes to it,
// while [Client] implements it by calling the admin over HTTP. Compile-time
// assertions keep the two in lock-step.
//
// # Client
//
//	client := adminbiz.NewClient("http://admin:8080/xxl-job-admin", os.Getenv("ACCESS_TOKEN"),
//	    adminbiz.WithTimeout(5),
//	)
//
//	res := client.Registry(ctx, adminbiz.RegistryParam{
//	    RegistryGroup: adminbiz.RegistryTypeExecutor,
//	    RegistryKey:   "demo-executor",
//	    RegistryValue: "http://10.0.0.1:9999/",
//	})
//	if !res.IsSuccess() {
//	    log.Warn("registry failed", "msg", res.Msg)
//	}
//
// Client methods never return errors. Transport and decoding failures come
// back as failure envelopes whose message names the URL and the cause.
//
// # Registrar
//
// [Registrar] keeps an executor registered by calling Registry on every
// admin address at a fixed interval and RegistryRemove when it stops.
package adminbiz
