// Package jobrpc is the RPC layer between a job-scheduler admin service and
// its executors.
//
// Executors call the admin with JSON over HTTP POST at
// <base>/api/<operation>; the admin answers every call with HTTP 200 and an
// envelope {code, msg, data}, where code 200 is success and 500 is failure.
// The operation set is closed:
//
//	registry, registryRemove           executor registration heartbeat
//	callback                           batch of execution results
//	addXxlJob, updateXxlJob            job definitions
//	removeXxlJob, startXxlJob,
//	stopXxlJob                         job lifecycle by id
//
// # Admin side
//
// New builds an App that validates requests, checks the shared access token
// and routes each operation to an [AdminBiz]:
//
//	admin := service.NewAdmin(registryStore, jobStore, callbackSink)
//	app := jobrpc.New(admin,
//	    jobrpc.WithAccessToken(os.Getenv("JOBRPC_ACCESS_TOKEN")),
//	    jobrpc.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    jobrpc.WithHealthChecks(),
//	)
//	if err := app.Run(":8080", jobrpc.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Executor side
//
// adminbiz.Client implements the same [AdminBiz] interface over HTTP, and
// adminbiz.Registrar keeps an executor registered:
//
//	client := adminbiz.NewClient("http://admin:8080/", token)
//	res := client.StartJob(ctx, 42)
//
// # Packages
//
//   - pkg/envelope: envelope type and shape-driven JSON codec
//   - pkg/transport: single-exchange HTTP POST with connect and read timeouts
//   - pkg/adminbiz: operations, records, client and registrar
//   - pkg/registry, pkg/jobstore, pkg/callback: admin-side storage
//   - service: AdminBiz implementation over the stores
//   - middlewares: request id, panic recovery, timeout, access log
//   - cmd/jobadmin: the admin service binary
//   - cmd/jobctl: executor-side command line client
package jobrpc
