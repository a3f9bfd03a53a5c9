package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/jobrpc"
	"github.com/dmitrymomot/jobrpc/pkg/callback"
	"github.com/dmitrymomot/jobrpc/pkg/envelope"
	"github.com/dmitrymomot/jobrpc/pkg/jobstore"
	"github.com/dmitrymomot/jobrpc/pkg/registry"
	"github.com/dmitrymomot/jobrpc/service"
)

func newAdmin(t *testing.T) string {
	t.Helper()

	jobs := jobstore.NewMemory()
	admin := service.NewAdmin(registry.NewMemory(), jobs, callback.NewDirect(jobs))
	srv := httptest.NewServer(jobrpc.New(admin, jobrpc.WithAccessToken("secret")))
	t.Cleanup(srv.Close)
	return srv.URL
}

func runCLI(t *testing.T, stdin string, args ...string) (envelope.Result, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp(&out, strings.NewReader(stdin))
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"jobctl"}, args...))

	var res envelope.Result
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	}
	return res, err
}

func TestJobctl_JobLifecycle(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t)
	base := []string{"--admin", admin, "--token", "secret"}

	job := `{"jobGroup":1,"jobDesc":"report","author":"ops","scheduleType":"CRON","scheduleConf":"0 0 * * * ?","executorHandler":"report","glueType":"BEAN"}`
	res, err := runCLI(t, job, append(base, "add")...)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	id := res.Data
	require.NotEmpty(t, id)

	for _, cmd := range []string{"start", "stop", "remove"} {
		res, err = runCLI(t, "", append(base, cmd, "--id", id)...)
		require.NoError(t, err, cmd)
		assert.True(t, res.IsSuccess(), cmd)
	}
}

func TestJobctl_Registry(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t)
	args := []string{"--admin", admin, "--token", "secret"}
	node := []string{"--key", "billing", "--value", "http://10.0.0.5:9999/"}

	res, err := runCLI(t, "", append(append(args, "registry"), node...)...)
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())

	res, err = runCLI(t, "", append(append(args, "registry-remove"), node...)...)
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
}

func TestJobctl_Failures(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t)

	t.Run("wrong token exits 1", func(t *testing.T) {
		t.Parallel()

		res, err := runCLI(t, "", "--admin", admin, "--token", "nope", "stop", "--id", "1")
		var exit cli.ExitCoder
		require.ErrorAs(t, err, &exit)
		assert.Equal(t, 1, exit.ExitCode())
		assert.Equal(t, "The access token is wrong.", res.Msg)
	})

	t.Run("no admin address", func(t *testing.T) {
		t.Parallel()

		_, err := runCLI(t, "", "stop", "--id", "1")
		require.ErrorIs(t, err, errNoAdmin)
	})

	t.Run("invalid job json", func(t *testing.T) {
		t.Parallel()

		_, err := runCLI(t, "{", "--admin", admin, "add")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode job")
	})
}

func TestJobctl_PrintsEnvelope(t *testing.T) {
	t.Parallel()

	admin := newAdmin(t)

	var out bytes.Buffer
	app := newApp(&out, strings.NewReader(""))
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}

	_ = app.Run([]string{"jobctl", "--admin", admin, "--token", "nope", "start", "--id", "1"})

	want, err := envelope.Encode(envelope.Fail("The access token is wrong."))
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", out.String())
}
