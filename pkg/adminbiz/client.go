package adminbiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/jobrpc/pkg/envelope"
	"github.com/dmitrymomot/jobrpc/pkg/logger"
	"github.com/dmitrymomot/jobrpc/pkg/transport"
)

var _ AdminBiz = (*Client)(nil)

// Poster performs a single POST exchange. *transport.Client implements it.
type Poster interface {
	Post(ctx context.Context, url, accessToken string, timeoutSeconds int, body []byte) (int, []byte, error)
}

// Client calls the admin service over HTTP. It is immutable after
// NewClient and safe for concurrent use.
type Client struct {
	poster      Poster
	logger      *slog.Logger
	baseURL     string
	accessToken string
	timeout     int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call read timeout in seconds. Default: 3
func WithTimeout(seconds int) ClientOption {
	return func(c *Client) {
		if seconds > 0 {
			c.timeout = seconds
		}
	}
}

// WithTransport replaces the transport, e.g. one built with
// transport.WithInsecureSkipVerify.
func WithTransport(p Poster) ClientOption {
	return func(c *Client) {
		if p != nil {
			c.poster = p
		}
	}
}

// WithLogger sets the logger used to report failed calls.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the admin at baseURL. A trailing slash is
// appended when missing. An empty accessToken disables the token header.
func NewClient(baseURL, accessToken string, opts ...ClientOption) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	c := &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		timeout:     transport.DefaultTimeoutSeconds,
		logger:      logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.poster == nil {
		c.poster = transport.New(transport.WithLogger(c.logger))
	}
	return c
}

// BaseURL returns the normalized admin address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Callback(ctx context.Context, params []HandleCallbackParam) envelope.Result {
	if params == nil {
		params = []HandleCallbackParam{}
	}
	return c.call(ctx, OpCallback, params)
}

func (c *Client) Registry(ctx context.Context, param RegistryParam) envelope.Result {
	return c.call(ctx, OpRegistry, param)
}

func (c *Client) RegistryRemove(ctx context.Context, param RegistryParam) envelope.Result {
	return c.call(ctx, OpRegistryRemove, param)
}

func (c *Client) AddJob(ctx context.Context, job JobInfo) envelope.Result {
	return c.call(ctx, OpAddJob, job)
}

func (c *Client) UpdateJob(ctx context.Context, job JobInfo) envelope.Result {
	return c.call(ctx, OpUpdateJob, job)
}

func (c *Client) RemoveJob(ctx context.Context, id int) envelope.Result {
	return c.call(ctx, OpRemoveJob, IDParam{ID: id})
}

func (c *Client) StartJob(ctx context.Context, id int) envelope.Result {
	return c.call(ctx, OpStartJob, IDParam{ID: id})
}

func (c *Client) StopJob(ctx context.Context, id int) envelope.Result {
	return c.call(ctx, OpStopJob, IDParam{ID: id})
}

// call encodes req, posts it to the operation endpoint and decodes the
// envelope. Every failure is folded into a failure envelope.
func (c *Client) call(ctx context.Context, op Operation, req any) envelope.Result {
	url := c.baseURL + op.Path()

	body, err := envelope.Encode(req)
	if err != nil {
		return c.fail(ctx, op, url, err, fmt.Sprintf("xxl-job remoting error(%s), for url : %s", err.Error(), url))
	}

	_, data, err := c.poster.Post(ctx, url, c.accessToken, c.timeout, body)
	if err != nil {
		if rce, ok := transport.AsRemoteCallError(err); ok && rce.StatusCode != 0 {
			return c.fail(ctx, op, url, err, fmt.Sprintf("xxl-job remoting fail, StatusCode(%d) invalid. for url : %s", rce.StatusCode, url))
		}
		return c.fail(ctx, op, url, err, fmt.Sprintf("xxl-job remoting error(%s), for url : %s", causeOf(err), url))
	}

	res, err := envelope.DecodeAs[string](data)
	if err != nil {
		return c.fail(ctx, op, url, err, fmt.Sprintf("xxl-job remoting (url=%s) response content invalid(%s).", url, string(data)))
	}
	return res
}

func (c *Client) fail(ctx context.Context, op Operation, url string, err error, msg string) envelope.Result {
	c.logger.ErrorContext(ctx, "admin call failed",
		slog.String("operation", op.String()),
		slog.String("url", url),
		slog.Any("error", err),
	)
	return envelope.Fail(msg)
}

func causeOf(err error) string {
	if rce, ok := transport.AsRemoteCallError(err); ok {
		return rce.Message()
	}
	return err.Error()
}
