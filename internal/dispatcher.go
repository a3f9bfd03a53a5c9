package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/envelope"
	"github.com/dmitrymomot/jobrpc/pkg/logger"
	"github.com/dmitrymomot/jobrpc/pkg/transport"
)

// Dispatcher failure messages. Executors match on these strings.
const (
	MsgMethodNotSupported = "invalid request, HttpMethod not support."
	MsgURIEmpty           = "invalid request, uri-mapping empty."
	MsgAccessTokenWrong   = "The access token is wrong."
)

// URIParam is the chi route parameter holding the operation name.
const URIParam = "uri"

const defaultMaxBodySize = 4 << 20 // 4MB

// route binds an operation to its payload shape and handler invocation.
type route struct {
	invoke func(ctx context.Context, biz adminbiz.AdminBiz, payload any) (envelope.Result, error)
	shape  envelope.Shape
}

// routes is the fixed dispatch table. It is built once and never mutated.
var routes = map[adminbiz.Operation]route{
	adminbiz.OpCallback: {
		shape: envelope.ListOf(envelope.RecordOf[adminbiz.HandleCallbackParam]()),
		invoke: func(ctx context.Context, biz adminbiz.AdminBiz, payload any) (envelope.Result, error) {
			items, _ := payload.([]any)
			params := make([]adminbiz.HandleCallbackParam, 0, len(items))
			for i, item := range items {
				p, ok := item.(*adminbiz.HandleCallbackParam)
				if !ok || p == nil {
					return envelope.Result{}, fmt.Errorf("item %d is null", i)
				}
				params = append(params, *p)
			}
			return biz.Callback(ctx, params), nil
		},
	},
	adminbiz.OpRegistry: {
		shape: envelope.RecordOf[adminbiz.RegistryParam](),
		invoke: func(ctx context.Context, biz adminbiz.AdminBiz, payload any) (envelope.Result, error) {
			p, err := record[adminbiz.RegistryParam](payload)
			if err != nil {
				return envelope.Result{}, err
			}
			return biz.Registry(ctx, p), nil
		},
	},
	adminbiz.OpRegistryRemove: {
		shape: envelope.RecordOf[adminbiz.RegistryParam](),
		invoke: func(ctx context.Context, biz adminbiz.AdminBiz, payload any) (envelope.Result, error) {
			p, err := record[adminbiz.RegistryParam](payload)
			if err != nil {
				return envelope.Result{}, err
			}
			return biz.RegistryRemove(ctx, p), nil
		},
	},
	adminbiz.OpAddJob: {
		shape: envelope.RecordOf[adminbiz.JobInfo](),
		invoke: func(ctx context.Context, biz adminbiz.AdminBiz, payload any) (envelope.Result, error) {
			job, err := record[adminbiz.JobInfo](payload)
			if err != nil {
				return envelope.Result{}, err
			}
			return biz.AddJob(ctx, job), nil
		},
	},
	adminbiz.OpUpdateJob: {
		shape: envelope.RecordOf[adminbiz.JobInfo](),
		invoke: func(ctx context.Context, biz adminbiz.AdminBiz, payload any) (envelope.Result, error) {
			job, err := record[adminbiz.JobInfo](payload)
			if err != nil {
				return envelope.Result{}, err
			}
			return biz.UpdateJob(ctx, job), nil
		},
	},
	adminbiz.OpRemoveJob: idRoute(adminbiz.AdminBiz.RemoveJob),
	adminbiz.OpStartJob:  idRoute(adminbiz.AdminBiz.StartJob),
	adminbiz.OpStopJob:   idRoute(adminbiz.AdminBiz.StopJob),
}

func idRoute(call func(adminbiz.AdminBiz, context.Context, int) envelope.Result) route {
	return route{
		shape: envelope.MapOf(nil),
		invoke: func(ctx context.Context, biz adminbiz.AdminBiz, payload any) (envelope.Result, error) {
			id, err := extractID(payload)
			if err != nil {
				return envelope.Result{}, err
			}
			return call(biz, ctx, id), nil
		},
	}
}

func record[T any](payload any) (T, error) {
	var zero T
	p, ok := payload.(*T)
	if !ok || p == nil {
		return zero, errors.New("payload is null")
	}
	return *p, nil
}

// extractID reads the integer "id" member of an id-only payload.
func extractID(payload any) (int, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return 0, errors.New("payload is null")
	}
	raw, ok := m["id"]
	if !ok || raw == nil {
		return 0, errors.New("id is required")
	}
	num, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("id must be an integer, got %T", raw)
	}
	id, err := num.Int64()
	if err != nil || id < math.MinInt32 || id > math.MaxInt32 {
		return 0, fmt.Errorf("id must be an integer, got %s", num)
	}
	return int(id), nil
}

// Dispatcher is the admin-side HTTP entry point. It validates each request,
// routes it by operation name to an AdminBiz method and writes the resulting
// envelope as JSON. The HTTP status is always 200; outcomes live in the body.
type Dispatcher struct {
	biz         adminbiz.AdminBiz
	logger      *slog.Logger
	accessToken string
	maxBodySize int64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherAccessToken sets the shared token required in the
// XXL-JOB-ACCESS-TOKEN header. An empty token disables the check.
func WithDispatcherAccessToken(token string) DispatcherOption {
	return func(d *Dispatcher) {
		d.accessToken = token
	}
}

// WithDispatcherLogger sets the logger for rejected requests and handler panics.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMaxBodySize limits the request body. Default: 4MB
func WithMaxBodySize(n int64) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxBodySize = n
		}
	}
}

// NewDispatcher creates a dispatcher routing to biz.
func NewDispatcher(biz adminbiz.AdminBiz, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		biz:         biz,
		logger:      logger.NewNope(),
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ServeHTTP implements http.Handler. The operation name is taken from the
// chi "uri" parameter, or from the last path segment when served outside chi.
// The body is read only once method, token and route have been accepted.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uri := operationToken(r)

	rt, res, ok := d.validate(ctx, r.Method, uri, r.Header.Get(transport.HeaderAccessToken))
	if !ok {
		writeEnvelope(w, d.logger, res)
		return
	}

	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, d.maxBodySize))
		if err != nil {
			writeEnvelope(w, d.logger, d.reject(ctx, uri, payloadInvalid(uri, err)))
			return
		}
		body = data
	}

	writeEnvelope(w, d.logger, d.decodeAndInvoke(ctx, adminbiz.Operation(uri), rt, body))
}

// Dispatch runs the validation steps in order and invokes the matching
// operation. Checks stop at the first failure.
func (d *Dispatcher) Dispatch(ctx context.Context, method, uri, token string, body []byte) envelope.Result {
	rt, res, ok := d.validate(ctx, method, uri, token)
	if !ok {
		return res
	}
	return d.decodeAndInvoke(ctx, adminbiz.Operation(uri), rt, body)
}

// validate checks method, uri, token and route, in that order.
func (d *Dispatcher) validate(ctx context.Context, method, uri, token string) (route, envelope.Result, bool) {
	if !strings.EqualFold(method, http.MethodPost) {
		return route{}, d.reject(ctx, uri, envelope.Fail(MsgMethodNotSupported)), false
	}
	if uri == "" {
		return route{}, d.reject(ctx, uri, envelope.Fail(MsgURIEmpty)), false
	}
	if d.accessToken != "" && token != d.accessToken {
		return route{}, d.reject(ctx, uri, envelope.Fail(MsgAccessTokenWrong)), false
	}

	rt, ok := routes[adminbiz.Operation(uri)]
	if !ok {
		return route{}, d.reject(ctx, uri, envelope.Failf("invalid request, uri-mapping(%s) not found.", uri)), false
	}
	return rt, envelope.Result{}, true
}

func (d *Dispatcher) decodeAndInvoke(ctx context.Context, op adminbiz.Operation, rt route, body []byte) envelope.Result {
	payload, err := envelope.DecodeValue(body, rt.shape)
	if err != nil {
		return d.reject(ctx, op.String(), payloadInvalid(op.String(), err))
	}
	return d.invoke(ctx, op, rt, payload)
}

func payloadInvalid(uri string, err error) envelope.Result {
	return envelope.Failf("invalid request, %s payload invalid(%s).", uri, err.Error())
}

func (d *Dispatcher) invoke(ctx context.Context, op adminbiz.Operation, rt route, payload any) (res envelope.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.ErrorContext(ctx, "operation panicked",
				slog.String("operation", op.String()),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
			res = envelope.Failf("%s failed: %v", op, rec)
		}
	}()

	res, err := rt.invoke(ctx, d.biz, payload)
	if err != nil {
		return d.reject(ctx, op.String(), payloadInvalid(op.String(), err))
	}
	return res
}

func (d *Dispatcher) reject(ctx context.Context, uri string, res envelope.Result) envelope.Result {
	d.logger.WarnContext(ctx, "request rejected",
		slog.String("uri", uri),
		slog.String("msg", res.Msg),
	)
	return res
}

// operationToken falls back to the path when chi did not route the request,
// as for methods chi does not know.
func operationToken(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if v := strings.TrimSpace(rctx.URLParam(URIParam)); v != "" {
			return v
		}
	}
	path := strings.TrimSuffix(r.URL.Path, "/")
	if i := strings.LastIndex(path, "/api/"); i >= 0 {
		return strings.TrimSpace(path[i+len("/api/"):])
	}
	return ""
}

func writeEnvelope(w http.ResponseWriter, l *slog.Logger, res envelope.Result) {
	data, err := envelope.Encode(res)
	if err != nil {
		l.Error("encode envelope", slog.Any("error", err))
		data = []byte(`{"code":500,"msg":"encode failed"}`)
	}
	w.Header().Set("Content-Type", transport.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
