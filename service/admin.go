package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/envelope"
	"github.com/dmitrymomot/jobrpc/pkg/jobstore"
	"github.com/dmitrymomot/jobrpc/pkg/logger"
	"github.com/dmitrymomot/jobrpc/pkg/registry"
)

// Failure messages returned to executors.
const (
	MsgIllegalArgument = "Illegal Argument."
	MsgJobNotFound     = "job not found"
	MsgNoneNotStart    = "schedule type NONE not support start"
)

var _ adminbiz.AdminBiz = (*Admin)(nil)

// CallbackSink accepts callback batches. callback.Direct and callback.Queue
// implement it.
type CallbackSink interface {
	Submit(ctx context.Context, params []adminbiz.HandleCallbackParam) error
}

// Admin is the admin-side AdminBiz implementation.
type Admin struct {
	registry  registry.Store
	jobs      jobstore.Store
	callbacks CallbackSink
	logger    *slog.Logger
}

// Option configures Admin.
type Option func(*Admin)

// WithLogger sets the logger for store failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Admin) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdmin creates an Admin over the given stores.
func NewAdmin(reg registry.Store, jobs jobstore.Store, callbacks CallbackSink, opts ...Option) *Admin {
	a := &Admin{
		registry:  reg,
		jobs:      jobs,
		callbacks: callbacks,
		logger:    logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Admin) Callback(ctx context.Context, params []adminbiz.HandleCallbackParam) envelope.Result {
	if err := a.callbacks.Submit(ctx, params); err != nil {
		return a.fail(ctx, adminbiz.OpCallback, err)
	}
	return envelope.OK()
}

func (a *Admin) Registry(ctx context.Context, p adminbiz.RegistryParam) envelope.Result {
	if p.Validate() != nil {
		return envelope.Fail(MsgIllegalArgument)
	}
	if err := a.registry.Register(ctx, p); err != nil {
		return a.fail(ctx, adminbiz.OpRegistry, err)
	}
	return envelope.OK()
}

func (a *Admin) RegistryRemove(ctx context.Context, p adminbiz.RegistryParam) envelope.Result {
	if p.Validate() != nil {
		return envelope.Fail(MsgIllegalArgument)
	}
	if err := a.registry.Remove(ctx, p); err != nil {
		return a.fail(ctx, adminbiz.OpRegistryRemove, err)
	}
	return envelope.OK()
}

// AddJob returns the new job id as the envelope data.
func (a *Admin) AddJob(ctx context.Context, job adminbiz.JobInfo) envelope.Result {
	id, err := a.jobs.Add(ctx, job)
	if err != nil {
		return a.fail(ctx, adminbiz.OpAddJob, err)
	}
	return envelope.Success(strconv.Itoa(id))
}

func (a *Admin) UpdateJob(ctx context.Context, job adminbiz.JobInfo) envelope.Result {
	if err := a.jobs.Update(ctx, job); err != nil {
		return a.fail(ctx, adminbiz.OpUpdateJob, err)
	}
	return envelope.OK()
}

// RemoveJob succeeds for unknown ids; removal is idempotent.
func (a *Admin) RemoveJob(ctx context.Context, id int) envelope.Result {
	if err := a.jobs.Remove(ctx, id); err != nil && !errors.Is(err, jobstore.ErrNotFound) {
		return a.fail(ctx, adminbiz.OpRemoveJob, err)
	}
	return envelope.OK()
}

func (a *Admin) StartJob(ctx context.Context, id int) envelope.Result {
	if err := a.jobs.Start(ctx, id); err != nil {
		return a.fail(ctx, adminbiz.OpStartJob, err)
	}
	return envelope.OK()
}

func (a *Admin) StopJob(ctx context.Context, id int) envelope.Result {
	if err := a.jobs.Stop(ctx, id); err != nil {
		return a.fail(ctx, adminbiz.OpStopJob, err)
	}
	return envelope.OK()
}

// fail maps store errors to executor-facing messages. Validation errors
// carry their details; infrastructure errors are logged and summarized.
func (a *Admin) fail(ctx context.Context, op adminbiz.Operation, err error) envelope.Result {
	switch {
	case errors.Is(err, jobstore.ErrNotFound):
		return envelope.Fail(MsgJobNotFound)
	case errors.Is(err, jobstore.ErrNotSchedulable):
		return envelope.Fail(MsgNoneNotStart)
	case errors.Is(err, adminbiz.ErrInvalidJobInfo),
		errors.Is(err, jobstore.ErrInvalidSchedule),
		errors.Is(err, jobstore.ErrInvalidChildJobIDs):
		return envelope.Fail(flatten(err))
	case errors.Is(err, registry.ErrInvalidParam):
		return envelope.Fail(MsgIllegalArgument)
	}

	a.logger.ErrorContext(ctx, "operation failed",
		slog.String("operation", op.String()),
		slog.Any("error", err),
	)
	return envelope.Failf("%s failed, please retry later.", op)
}

// flatten puts errors.Join output on one line.
func flatten(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
