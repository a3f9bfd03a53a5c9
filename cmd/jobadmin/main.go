// Command jobadmin serves the admin side of the executor RPC protocol.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/jobrpc"
	"github.com/dmitrymomot/jobrpc/middlewares"
	"github.com/dmitrymomot/jobrpc/pkg/callback"
	"github.com/dmitrymomot/jobrpc/pkg/db"
	"github.com/dmitrymomot/jobrpc/pkg/jobstore"
	"github.com/dmitrymomot/jobrpc/pkg/logger"
	"github.com/dmitrymomot/jobrpc/pkg/redis"
	"github.com/dmitrymomot/jobrpc/pkg/registry"
	"github.com/dmitrymomot/jobrpc/service"
)

func main() {
	cfg, err := loadConfig(os.Getenv("JOBRPC_CONFIG_FILE"), env.ToMap(os.Environ()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(cfg.LogFormat),
		logger.WithComponent("jobadmin"),
		logger.WithExtractors(middlewares.RequestIDExtractor()),
		logger.WithSentry(cfg.Sentry),
	)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("jobadmin stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// deps holds what run wires around the admin service.
type deps struct {
	registry  registry.Store
	jobs      jobstore.Store
	callbacks service.CallbackSink
	checks    []jobrpc.HealthOption
	startup   []func(context.Context) error
	shutdown  []func(context.Context) error
}

func run(ctx context.Context, cfg config, log *slog.Logger) error {
	var d deps
	if err := d.openRegistry(ctx, cfg, log); err != nil {
		return err
	}
	if err := d.openJobs(ctx, cfg, log); err != nil {
		return err
	}

	admin := service.NewAdmin(d.registry, d.jobs, d.callbacks, service.WithLogger(log))

	app := jobrpc.New(admin,
		jobrpc.WithLogger(log),
		jobrpc.WithAccessToken(cfg.AccessToken),
		jobrpc.WithBasePath(cfg.BasePath),
		jobrpc.WithMaxRequestBody(cfg.MaxRequestBody),
		jobrpc.WithMiddleware(
			middlewares.RequestID(),
			middlewares.AccessLog(log),
			middlewares.Recover(middlewares.WithRecoverLogger(log)),
			middlewares.Timeout(cfg.RequestTimeout),
		),
		jobrpc.WithHealthChecks(d.checks...),
	)

	runOpts := []jobrpc.RunOption{
		jobrpc.Logger(log),
		jobrpc.ShutdownTimeout(cfg.ShutdownTimeout),
		jobrpc.WithContext(ctx),
	}
	for _, hook := range d.startup {
		runOpts = append(runOpts, jobrpc.StartupHook(hook))
	}
	for _, hook := range d.shutdown {
		runOpts = append(runOpts, jobrpc.ShutdownHook(hook))
	}

	return app.Run(cfg.Addr, runOpts...)
}

func (d *deps) openRegistry(ctx context.Context, cfg config, log *slog.Logger) error {
	if cfg.Redis.URL == "" {
		log.Warn("REDIS_URL not set, executor registry kept in memory")
		d.registry = registry.NewMemory(registry.WithTTL(cfg.RegistryTTL))
		return nil
	}

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	d.registry = registry.NewRedis(client, registry.WithTTL(cfg.RegistryTTL))
	d.checks = append(d.checks, jobrpc.WithReadinessCheck("redis", redis.Healthcheck(client)))
	d.shutdown = append(d.shutdown, redis.Shutdown(client))
	return nil
}

func (d *deps) openJobs(ctx context.Context, cfg config, log *slog.Logger) error {
	if cfg.Database.ConnectionString == "" {
		log.Warn("DATABASE_CONN_URL not set, jobs and callbacks kept in memory")
		jobs := jobstore.NewMemory()
		d.jobs = jobs
		d.callbacks = callback.NewDirect(jobs, callback.WithLogger(log))
		return nil
	}

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, pool, jobstore.Migrations(), cfg.Database.MigrationsTable, log); err != nil {
		pool.Close()
		return err
	}
	if err := callback.Migrate(ctx, pool); err != nil {
		pool.Close()
		return err
	}

	jobs := jobstore.NewPostgres(pool)
	queue, err := callback.NewQueue(pool, jobs,
		callback.WithLogger(log),
		callback.WithMaxWorkers(cfg.CallbackWorkers),
		callback.WithMaxAttempts(cfg.CallbackAttempts),
	)
	if err != nil {
		pool.Close()
		return err
	}

	d.jobs = jobs
	d.callbacks = queue
	d.checks = append(d.checks,
		jobrpc.WithReadinessCheck("postgres", db.Healthcheck(pool)),
		jobrpc.WithReadinessCheck("callbacks", callback.Healthcheck(queue)),
	)
	d.startup = append(d.startup, func(ctx context.Context) error {
		// Workers outlive the signal context; the shutdown hook stops them.
		return queue.Start(context.WithoutCancel(ctx))
	})
	// Queue first: workers need the pool while draining.
	d.shutdown = append([]func(context.Context) error{queue.Shutdown(), db.Shutdown(pool)}, d.shutdown...)
	return nil
}
