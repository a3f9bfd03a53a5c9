package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/callback"
	"github.com/dmitrymomot/jobrpc/pkg/envelope"
	"github.com/dmitrymomot/jobrpc/pkg/jobstore"
	"github.com/dmitrymomot/jobrpc/pkg/registry"
	"github.com/dmitrymomot/jobrpc/service"
)

type fixture struct {
	admin *service.Admin
	reg   *registry.Memory
	jobs  *jobstore.Memory
}

func newFixture() fixture {
	reg := registry.NewMemory()
	jobs := jobstore.NewMemory()
	return fixture{
		admin: service.NewAdmin(reg, jobs, callback.NewDirect(jobs)),
		reg:   reg,
		jobs:  jobs,
	}
}

func validJob() adminbiz.JobInfo {
	return adminbiz.JobInfo{
		JobGroup:        1,
		JobDesc:         "demo",
		Author:          "ops",
		ScheduleType:    adminbiz.ScheduleTypeCron,
		ScheduleConf:    "0 0/5 * * * ?",
		ExecutorHandler: "demoJobHandler",
		GlueType:        "BEAN",
	}
}

func TestAdmin_Registry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()
	p := adminbiz.RegistryParam{RegistryGroup: "EXECUTOR", RegistryKey: "demoGroup", RegistryValue: "http://10.0.0.1:9999/"}

	assert.Equal(t, envelope.OK(), f.admin.Registry(ctx, p))
	values, err := f.reg.List(ctx, "EXECUTOR", "demoGroup")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://10.0.0.1:9999/"}, values)

	assert.Equal(t, envelope.OK(), f.admin.RegistryRemove(ctx, p))
	values, err = f.reg.List(ctx, "EXECUTOR", "demoGroup")
	require.NoError(t, err)
	assert.Empty(t, values)

	assert.Equal(t, envelope.Fail(service.MsgIllegalArgument), f.admin.Registry(ctx, adminbiz.RegistryParam{RegistryGroup: "EXECUTOR"}))
	assert.Equal(t, envelope.Fail(service.MsgIllegalArgument), f.admin.RegistryRemove(ctx, adminbiz.RegistryParam{}))
}

func TestAdmin_JobLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	res := f.admin.AddJob(ctx, validJob())
	require.True(t, res.IsSuccess(), res.Msg)
	assert.Equal(t, "1", res.Data)

	job := validJob()
	job.ID = 1
	job.JobDesc = "renamed"
	assert.Equal(t, envelope.OK(), f.admin.UpdateJob(ctx, job))

	assert.Equal(t, envelope.OK(), f.admin.StartJob(ctx, 1))
	got, err := f.jobs.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, adminbiz.TriggerStatusRunning, got.TriggerStatus)
	assert.Equal(t, "renamed", got.JobDesc)

	assert.Equal(t, envelope.OK(), f.admin.StopJob(ctx, 1))
	assert.Equal(t, envelope.OK(), f.admin.RemoveJob(ctx, 1))
	assert.Equal(t, envelope.OK(), f.admin.RemoveJob(ctx, 1))
}

func TestAdmin_JobFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()

	assert.Equal(t, envelope.Fail(service.MsgJobNotFound), f.admin.StartJob(ctx, 42))
	assert.Equal(t, envelope.Fail(service.MsgJobNotFound), f.admin.StopJob(ctx, 42))

	missing := validJob()
	missing.ID = 42
	assert.Equal(t, envelope.Fail(service.MsgJobNotFound), f.admin.UpdateJob(ctx, missing))

	res := f.admin.AddJob(ctx, adminbiz.JobInfo{})
	assert.Equal(t, envelope.FailCode, res.Code)
	assert.Contains(t, res.Msg, "invalid job info")
	assert.NotContains(t, res.Msg, "\n")

	bad := validJob()
	bad.ScheduleConf = "nope"
	res = f.admin.AddJob(ctx, bad)
	assert.Equal(t, envelope.FailCode, res.Code)
	assert.Contains(t, res.Msg, "invalid schedule")

	none := validJob()
	none.ScheduleType = adminbiz.ScheduleTypeNone
	res = f.admin.AddJob(ctx, none)
	require.True(t, res.IsSuccess())
	id := res.Data
	require.Equal(t, "1", id)
	assert.Equal(t, envelope.Fail(service.MsgNoneNotStart), f.admin.StartJob(ctx, 1))
}

type brokenSink struct{}

func (brokenSink) Submit(context.Context, []adminbiz.HandleCallbackParam) error {
	return errors.New("queue down")
}

func TestAdmin_Callback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("records results", func(t *testing.T) {
		t.Parallel()

		f := newFixture()
		id, err := f.jobs.Add(ctx, validJob())
		require.NoError(t, err)
		logID, err := f.jobs.OpenLog(ctx, id)
		require.NoError(t, err)

		res := f.admin.Callback(ctx, []adminbiz.HandleCallbackParam{
			{LogID: logID, HandleCode: 200, HandleMsg: "ok"},
			{LogID: 12345, HandleCode: 200},
		})
		assert.Equal(t, envelope.OK(), res)

		code, msg, ok := f.jobs.Callback(logID)
		require.True(t, ok)
		assert.Equal(t, 200, code)
		assert.Equal(t, "ok", msg)
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, envelope.OK(), newFixture().admin.Callback(ctx, nil))
	})

	t.Run("sink failure", func(t *testing.T) {
		t.Parallel()

		admin := service.NewAdmin(registry.NewMemory(), jobstore.NewMemory(), brokenSink{})
		assert.Equal(t, envelope.Fail("callback failed, please retry later."), admin.Callback(ctx, nil))
	})
}
