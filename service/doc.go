// Package service implements the admin operations behind the dispatcher.
//
// [Admin] satisfies adminbiz.AdminBiz by composing a registry store, a job
// store and a callback sink. Every dependency is passed in explicitly:
//
//	admin := service.NewAdmin(
//	    registry.NewRedis(redisClient),
//	    jobstore.NewPostgres(pool),
//	    callbackQueue,
//	    service.WithLogger(log),
//	)
//	app := jobrpc.New(admin, jobrpc.WithAccessToken(token))
package service
