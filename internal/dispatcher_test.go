package internal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/jobrpc/internal"
	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/envelope"
	"github.com/dmitrymomot/jobrpc/pkg/transport"
)

// recorder is an AdminBiz that remembers the last call.
type recorder struct {
	mu        sync.Mutex
	op        adminbiz.Operation
	registry  adminbiz.RegistryParam
	job       adminbiz.JobInfo
	callbacks []adminbiz.HandleCallbackParam
	id        int
	calls     int
	result    envelope.Result
	panicWith any
}

func newRecorder() *recorder {
	return &recorder{result: envelope.OK()}
}

func (r *recorder) record(op adminbiz.Operation, fn func()) envelope.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panicWith != nil {
		panic(r.panicWith)
	}
	r.op = op
	r.calls++
	fn()
	return r.result
}

func (r *recorder) Callback(_ context.Context, p []adminbiz.HandleCallbackParam) envelope.Result {
	return r.record(adminbiz.OpCallback, func() { r.callbacks = p })
}

func (r *recorder) Registry(_ context.Context, p adminbiz.RegistryParam) envelope.Result {
	return r.record(adminbiz.OpRegistry, func() { r.registry = p })
}

func (r *recorder) RegistryRemove(_ context.Context, p adminbiz.RegistryParam) envelope.Result {
	return r.record(adminbiz.OpRegistryRemove, func() { r.registry = p })
}

func (r *recorder) AddJob(_ context.Context, j adminbiz.JobInfo) envelope.Result {
	return r.record(adminbiz.OpAddJob, func() { r.job = j })
}

func (r *recorder) UpdateJob(_ context.Context, j adminbiz.JobInfo) envelope.Result {
	return r.record(adminbiz.OpUpdateJob, func() { r.job = j })
}

func (r *recorder) RemoveJob(_ context.Context, id int) envelope.Result {
	return r.record(adminbiz.OpRemoveJob, func() { r.id = id })
}

func (r *recorder) StartJob(_ context.Context, id int) envelope.Result {
	return r.record(adminbiz.OpStartJob, func() { r.id = id })
}

func (r *recorder) StopJob(_ context.Context, id int) envelope.Result {
	return r.record(adminbiz.OpStopJob, func() { r.id = id })
}

var _ adminbiz.AdminBiz = (*recorder)(nil)

func TestDispatch_ValidationOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body := []byte(`{"registryGroup":"EXECUTOR","registryKey":"k","registryValue":"v"}`)

	tests := []struct {
		name   string
		method string
		uri    string
		token  string
		want   string
	}{
		{name: "GET is rejected before anything else", method: http.MethodGet, uri: "", token: "wrong", want: internal.MsgMethodNotSupported},
		{name: "empty uri before token", method: http.MethodPost, uri: "", token: "wrong", want: internal.MsgURIEmpty},
		{name: "blank uri", method: http.MethodPost, uri: "   ", token: "secret", want: internal.MsgURIEmpty},
		{name: "token before unknown operation", method: http.MethodPost, uri: "nope", token: "wrong", want: internal.MsgAccessTokenWrong},
		{name: "missing token", method: http.MethodPost, uri: "registry", token: "", want: internal.MsgAccessTokenWrong},
		{name: "unknown operation", method: http.MethodPost, uri: "nope", token: "secret", want: "invalid request, uri-mapping(nope) not found."},
		{name: "operation names are case-sensitive", method: http.MethodPost, uri: "Registry", token: "secret", want: "invalid request, uri-mapping(Registry) not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			biz := newRecorder()
			d := internal.NewDispatcher(biz, internal.WithDispatcherAccessToken("secret"))

			res := d.Dispatch(ctx, tt.method, strings.TrimSpace(tt.uri), tt.token, body)
			assert.Equal(t, envelope.Fail(tt.want), res)
			assert.Zero(t, biz.calls)
		})
	}
}

func TestDispatch_NoTokenConfigured(t *testing.T) {
	t.Parallel()

	biz := newRecorder()
	d := internal.NewDispatcher(biz)

	res := d.Dispatch(context.Background(), http.MethodPost, "startXxlJob", "anything", []byte(`{"id":5}`))
	assert.Equal(t, envelope.OK(), res)
	assert.Equal(t, 5, biz.id)
}

func TestDispatch_Routes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("registry", func(t *testing.T) {
		t.Parallel()

		biz := newRecorder()
		d := internal.NewDispatcher(biz)

		res := d.Dispatch(ctx, http.MethodPost, "registry", "", []byte(`{"registryGroup":"EXECUTOR","registryKey":"demoGroup","registryValue":"http://10.0.0.1:9999/"}`))
		assert.Equal(t, envelope.OK(), res)
		assert.Equal(t, adminbiz.OpRegistry, biz.op)
		assert.Equal(t, adminbiz.RegistryParam{RegistryGroup: "EXECUTOR", RegistryKey: "demoGroup", RegistryValue: "http://10.0.0.1:9999/"}, biz.registry)
	})

	t.Run("registryRemove", func(t *testing.T) {
		t.Parallel()

		biz := newRecorder()
		d := internal.NewDispatcher(biz)

		res := d.Dispatch(ctx, http.MethodPost, "registryRemove", "", []byte(`{"registryGroup":"EXECUTOR","registryKey":"k","registryValue":"v"}`))
		assert.Equal(t, envelope.OK(), res)
		assert.Equal(t, adminbiz.OpRegistryRemove, biz.op)
	})

	t.Run("callback batch", func(t *testing.T) {
		t.Parallel()

		biz := newRecorder()
		d := internal.NewDispatcher(biz)

		res := d.Dispatch(ctx, http.MethodPost, "callback", "", []byte(`[{"logId":1,"logDateTim":1700000000000,"handleCode":200,"handleMsg":"ok"},{"logId":2,"handleCode":500}]`))
		assert.Equal(t, envelope.OK(), res)
		require.Len(t, biz.callbacks, 2)
		assert.Equal(t, adminbiz.HandleCallbackParam{LogID: 1, LogDateTime: 1700000000000, HandleCode: 200, HandleMsg: "ok"}, biz.callbacks[0])
		assert.Equal(t, int64(2), biz.callbacks[1].LogID)
	})

	t.Run("empty callback batch", func(t *testing.T) {
		t.Parallel()

		biz := newRecorder()
		d := internal.NewDispatcher(biz)

		res := d.Dispatch(ctx, http.MethodPost, "callback", "", []byte(`[]`))
		assert.Equal(t, envelope.OK(), res)
		assert.Equal(t, adminbiz.OpCallback, biz.op)
		assert.Empty(t, biz.callbacks)
	})

	t.Run("add and update job", func(t *testing.T) {
		t.Parallel()

		biz := newRecorder()
		d := internal.NewDispatcher(biz)

		res := d.Dispatch(ctx, http.MethodPost, "addXxlJob", "", []byte(`{"jobGroup":1,"jobDesc":"demo","author":"ops","scheduleType":"CRON","scheduleConf":"0 0 * * * ?","glueType":"BEAN"}`))
		assert.Equal(t, envelope.OK(), res)
		assert.Equal(t, 1, biz.job.JobGroup)
		assert.Equal(t, "0 0 * * * ?", biz.job.ScheduleConf)

		res = d.Dispatch(ctx, http.MethodPost, "updateXxlJob", "", []byte(`{"id":9,"jobGroup":1,"jobDesc":"demo2"}`))
		assert.Equal(t, envelope.OK(), res)
		assert.Equal(t, adminbiz.OpUpdateJob, biz.op)
		assert.Equal(t, 9, biz.job.ID)
	})

	t.Run("id operations", func(t *testing.T) {
		t.Parallel()

		for _, op := range []adminbiz.Operation{adminbiz.OpRemoveJob, adminbiz.OpStartJob, adminbiz.OpStopJob} {
			biz := newRecorder()
			d := internal.NewDispatcher(biz)

			res := d.Dispatch(ctx, http.MethodPost, op.String(), "", []byte(`{"id":42}`))
			assert.Equal(t, envelope.OK(), res, op)
			assert.Equal(t, op, biz.op)
			assert.Equal(t, 42, biz.id)
		}
	})

	t.Run("handler failure envelope is returned verbatim", func(t *testing.T) {
		t.Parallel()

		biz := newRecorder()
		biz.result = envelope.Fail("job not found")
		d := internal.NewDispatcher(biz)

		res := d.Dispatch(ctx, http.MethodPost, "removeXxlJob", "", []byte(`{"id":42}`))
		assert.Equal(t, envelope.Fail("job not found"), res)
	})
}

func TestDispatch_InvalidPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		uri  string
		body string
	}{
		{name: "empty body", uri: "registry", body: ""},
		{name: "malformed json", uri: "registry", body: `{"registryGroup":`},
		{name: "list where record expected", uri: "addXxlJob", body: `[1,2]`},
		{name: "record where list expected", uri: "callback", body: `{"logId":1}`},
		{name: "null record", uri: "registry", body: `null`},
		{name: "missing id", uri: "removeXxlJob", body: `{}`},
		{name: "fractional id", uri: "startXxlJob", body: `{"id":1.5}`},
		{name: "string id", uri: "stopXxlJob", body: `{"id":"7"}`},
		{name: "null callback item", uri: "callback", body: `[null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			biz := newRecorder()
			d := internal.NewDispatcher(biz)

			res := d.Dispatch(context.Background(), http.MethodPost, tt.uri, "", []byte(tt.body))
			assert.Equal(t, envelope.FailCode, res.Code)
			assert.True(t, strings.HasPrefix(res.Msg, "invalid request, "+tt.uri+" payload invalid("), res.Msg)
			assert.Zero(t, biz.calls)
		})
	}
}

func TestDispatch_RecoversPanics(t *testing.T) {
	t.Parallel()

	biz := newRecorder()
	biz.panicWith = "boom"
	d := internal.NewDispatcher(biz)

	res := d.Dispatch(context.Background(), http.MethodPost, "startXxlJob", "", []byte(`{"id":1}`))
	assert.Equal(t, envelope.Fail("startXxlJob failed: boom"), res)
}

func TestDispatcher_ServeHTTP(t *testing.T) {
	t.Parallel()

	biz := newRecorder()
	app := internal.New(biz, internal.WithAccessToken("secret"))

	send := func(t *testing.T, method, path, token, body string) envelope.Result {
		t.Helper()

		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("XXL-JOB-ACCESS-TOKEN", token)
		}
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json;charset=UTF-8", rec.Header().Get("Content-Type"))

		var res envelope.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		return res
	}

	t.Run("GET answers with an envelope", func(t *testing.T) {
		assert.Equal(t, envelope.Fail(internal.MsgMethodNotSupported), send(t, http.MethodGet, "/api/registry", "secret", ""))
	})

	t.Run("empty uri", func(t *testing.T) {
		assert.Equal(t, envelope.Fail(internal.MsgURIEmpty), send(t, http.MethodPost, "/api/", "secret", ""))
		assert.Equal(t, envelope.Fail(internal.MsgURIEmpty), send(t, http.MethodPost, "/api", "secret", ""))
	})

	t.Run("wrong token", func(t *testing.T) {
		assert.Equal(t, envelope.Fail(internal.MsgAccessTokenWrong), send(t, http.MethodPost, "/api/registry", "other", "{}"))
	})

	t.Run("unknown operation", func(t *testing.T) {
		assert.Equal(t, envelope.Fail("invalid request, uri-mapping(nope) not found."), send(t, http.MethodPost, "/api/nope", "secret", "{}"))
	})

	t.Run("success", func(t *testing.T) {
		assert.Equal(t, envelope.OK(), send(t, http.MethodPost, "/api/removeXxlJob", "secret", `{"id":42}`))
	})
}

func TestDispatcher_BodyLimit(t *testing.T) {
	t.Parallel()

	oversized := `[{"logId":1,"handleCode":200,"handleMsg":"a long message"}]`
	serve := func(d *internal.Dispatcher, path, token string) envelope.Result {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(oversized))
		if token != "" {
			req.Header.Set(transport.HeaderAccessToken, token)
		}
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var res envelope.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		return res
	}

	t.Run("accepted request reports the payload", func(t *testing.T) {
		t.Parallel()

		d := internal.NewDispatcher(newRecorder(), internal.WithMaxBodySize(16))
		res := serve(d, "/api/callback", "")
		assert.Equal(t, envelope.FailCode, res.Code)
		assert.Contains(t, res.Msg, "invalid request, callback payload invalid(")
	})

	t.Run("token is checked before the body is read", func(t *testing.T) {
		t.Parallel()

		d := internal.NewDispatcher(newRecorder(),
			internal.WithMaxBodySize(8),
			internal.WithDispatcherAccessToken("secret"),
		)
		assert.Equal(t, internal.MsgAccessTokenWrong, serve(d, "/api/registry", "wrong").Msg)
		assert.Equal(t, internal.MsgAccessTokenWrong, serve(d, "/api/registry", "").Msg)
	})

	t.Run("route is checked before the body is read", func(t *testing.T) {
		t.Parallel()

		d := internal.NewDispatcher(newRecorder(),
			internal.WithMaxBodySize(8),
			internal.WithDispatcherAccessToken("secret"),
		)
		assert.Equal(t, "invalid request, uri-mapping(nope) not found.", serve(d, "/api/nope", "secret").Msg)
	})
}

func TestDispatch_MethodCaseInsensitive(t *testing.T) {
	t.Parallel()

	biz := newRecorder()
	d := internal.NewDispatcher(biz)

	res := d.Dispatch(context.Background(), "post", "stopXxlJob", "", []byte(`{"id":7}`))
	assert.True(t, res.IsSuccess(), res.Msg)
	assert.Equal(t, 7, biz.id)
}

func TestDispatcher_ExactToken(t *testing.T) {
	t.Parallel()

	d := internal.NewDispatcher(newRecorder(), internal.WithDispatcherAccessToken(" secret "))

	res := d.Dispatch(context.Background(), http.MethodPost, "stopXxlJob", "secret", []byte(`{"id":1}`))
	assert.Equal(t, internal.MsgAccessTokenWrong, res.Msg)

	res = d.Dispatch(context.Background(), http.MethodPost, "stopXxlJob", " secret ", []byte(`{"id":1}`))
	assert.True(t, res.IsSuccess(), res.Msg)
}
