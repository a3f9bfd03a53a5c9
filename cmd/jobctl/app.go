package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/envelope"
	"github.com/dmitrymomot/jobrpc/pkg/logger"
)

var errNoAdmin = errors.New("jobctl: at least one --admin address is required")

func newApp(stdout io.Writer, stdin io.Reader) *cli.App {
	registryFlags := []cli.Flag{
		&cli.StringFlag{Name: "group", Value: adminbiz.RegistryTypeExecutor, Usage: "registry group"},
		&cli.StringFlag{Name: "key", Required: true, Usage: "executor app name"},
		&cli.StringFlag{Name: "value", Required: true, Usage: "executor address"},
	}
	idFlags := []cli.Flag{
		&cli.IntFlag{Name: "id", Required: true, Usage: "job id"},
	}
	jobFlags := []cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: "-", Usage: "job JSON file, - for stdin"},
	}

	return &cli.App{
		Name:      "jobctl",
		Usage:     "call admin RPC operations as an executor",
		Writer:    stdout,
		Reader:    stdin,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "admin",
				Aliases: []string{"a"},
				EnvVars: []string{"JOBRPC_ADMIN_ADDRESSES"},
				Usage:   "admin base URL; repeat for several admins",
			},
			&cli.StringFlag{Name: "token", EnvVars: []string{"JOBRPC_ACCESS_TOKEN"}, Usage: "XXL-JOB-ACCESS-TOKEN"},
			&cli.IntFlag{Name: "timeout", Value: 3, Usage: "read timeout in seconds"},
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"JOBRPC_LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "registry",
				Usage: "register an executor address",
				Flags: registryFlags,
				Action: func(c *cli.Context) error {
					return call(c, func(biz adminbiz.AdminBiz) envelope.Result {
						return biz.Registry(c.Context, registryParam(c))
					})
				},
			},
			{
				Name:  "registry-remove",
				Usage: "remove an executor address",
				Flags: registryFlags,
				Action: func(c *cli.Context) error {
					return call(c, func(biz adminbiz.AdminBiz) envelope.Result {
						return biz.RegistryRemove(c.Context, registryParam(c))
					})
				},
			},
			{
				Name:  "callback",
				Usage: "report the result of one execution",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "log-id", Required: true},
					&cli.Int64Flag{Name: "log-date", Usage: "trigger time, unix millis"},
					&cli.IntFlag{Name: "code", Value: envelope.SuccessCode, Usage: "handle code"},
					&cli.StringFlag{Name: "msg", Usage: "handle message"},
				},
				Action: func(c *cli.Context) error {
					param := adminbiz.HandleCallbackParam{
						LogID:       c.Int64("log-id"),
						LogDateTime: c.Int64("log-date"),
						HandleCode:  c.Int("code"),
						HandleMsg:   c.String("msg"),
					}
					return call(c, func(biz adminbiz.AdminBiz) envelope.Result {
						return biz.Callback(c.Context, []adminbiz.HandleCallbackParam{param})
					})
				},
			},
			{
				Name:  "add",
				Usage: "create a job from JSON",
				Flags: jobFlags,
				Action: func(c *cli.Context) error {
					job, err := readJob(c)
					if err != nil {
						return err
					}
					return call(c, func(biz adminbiz.AdminBiz) envelope.Result {
						return biz.AddJob(c.Context, job)
					})
				},
			},
			{
				Name:  "update",
				Usage: "replace a job from JSON",
				Flags: jobFlags,
				Action: func(c *cli.Context) error {
					job, err := readJob(c)
					if err != nil {
						return err
					}
					return call(c, func(biz adminbiz.AdminBiz) envelope.Result {
						return biz.UpdateJob(c.Context, job)
					})
				},
			},
			idCommand("remove", "delete a job", adminbiz.AdminBiz.RemoveJob, idFlags),
			idCommand("start", "start scheduling a job", adminbiz.AdminBiz.StartJob, idFlags),
			idCommand("stop", "stop scheduling a job", adminbiz.AdminBiz.StopJob, idFlags),
			{
				Name:  "beat",
				Usage: "keep an executor registered until interrupted",
				Flags: append(registryFlags[:len(registryFlags):len(registryFlags)],
					&cli.DurationFlag{Name: "interval", Value: adminbiz.DefaultBeatInterval},
				),
				Action: beat,
			},
		},
	}
}

func idCommand(name, usage string, op func(adminbiz.AdminBiz, context.Context, int) envelope.Result, flags []cli.Flag) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: flags,
		Action: func(c *cli.Context) error {
			return call(c, func(biz adminbiz.AdminBiz) envelope.Result {
				return op(biz, c.Context, c.Int("id"))
			})
		},
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	return logger.New(
		logger.WithOutput(c.App.ErrWriter),
		logger.WithFormat("text"),
		logger.WithLevel(logger.ParseLevel(c.String("log-level"))),
		logger.WithComponent("jobctl"),
	)
}

func clients(c *cli.Context) ([]adminbiz.AdminBiz, error) {
	addrs := c.StringSlice("admin")
	if len(addrs) == 0 {
		return nil, errNoAdmin
	}
	log := newLogger(c)
	out := make([]adminbiz.AdminBiz, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, adminbiz.NewClient(addr, c.String("token"),
			adminbiz.WithTimeout(c.Int("timeout")),
			adminbiz.WithLogger(log),
		))
	}
	return out, nil
}

// call runs fn against the first admin, prints the envelope and exits 1
// unless it succeeded.
func call(c *cli.Context, fn func(adminbiz.AdminBiz) envelope.Result) error {
	admins, err := clients(c)
	if err != nil {
		return err
	}

	res := fn(admins[0])
	raw, err := envelope.Encode(res)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(raw))

	if !res.IsSuccess() {
		return cli.Exit("", 1)
	}
	return nil
}

func registryParam(c *cli.Context) adminbiz.RegistryParam {
	return adminbiz.RegistryParam{
		RegistryGroup: c.String("group"),
		RegistryKey:   c.String("key"),
		RegistryValue: c.String("value"),
	}
}

func readJob(c *cli.Context) (adminbiz.JobInfo, error) {
	var r io.Reader = c.App.Reader
	if path := c.String("file"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return adminbiz.JobInfo{}, err
		}
		defer f.Close()
		r = f
	}

	var job adminbiz.JobInfo
	if err := json.NewDecoder(r).Decode(&job); err != nil {
		return job, fmt.Errorf("jobctl: decode job: %w", err)
	}
	return job, nil
}

func beat(c *cli.Context) error {
	admins, err := clients(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := adminbiz.NewRegistrar(registryParam(c), admins,
		adminbiz.WithInterval(c.Duration("interval")),
		adminbiz.WithRegistrarLogger(newLogger(c)),
	)
	return r.Run(ctx)
}
