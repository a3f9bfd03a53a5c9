package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/jobrpc/pkg/logger"
)

// Wire constants shared by both sides of the protocol.
const (
	// HeaderAccessToken carries the shared secret.
	HeaderAccessToken = "XXL-JOB-ACCESS-TOKEN"

	// ContentTypeJSON is sent as both Content-Type and Accept-Charset.
	ContentTypeJSON = "application/json;charset=UTF-8"

	// DefaultTimeoutSeconds applies when a call passes a non-positive timeout.
	DefaultTimeoutSeconds = 3

	// DefaultConnectTimeout bounds dialing and the TLS handshake.
	DefaultConnectTimeout = 3 * time.Second

	defaultMaxResponseSize = 4 << 20
)

// Client performs POST exchanges. It is immutable after New and safe for
// concurrent use.
type Client struct {
	tlsConfig       *tls.Config
	logger          *slog.Logger
	connectTimeout  time.Duration
	maxResponseSize int64
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		logger:          logger.NewNope(),
		connectTimeout:  DefaultConnectTimeout,
		maxResponseSize: defaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends body (nil for a bodiless call) to url and returns the status
// code and the full response body. Any status other than 200 is returned as
// a *RemoteCallError wrapping ErrStatus, with a nil body.
func (c *Client) Post(ctx context.Context, url, accessToken string, timeoutSeconds int, body []byte) (int, []byte, error) {
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultTimeoutSeconds
	}
	readTimeout := time.Duration(timeoutSeconds) * time.Second

	var reqBody io.Reader = http.NoBody
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return 0, nil, &RemoteCallError{Kind: ErrRequest, Err: err, URL: url}
	}
	req.Header.Set("Content-Type", ContentTypeJSON)
	req.Header.Set("Accept-Charset", ContentTypeJSON)
	if accessToken != "" {
		req.Header.Set(HeaderAccessToken, accessToken)
	}

	tr := c.newTransport(readTimeout)
	defer tr.CloseIdleConnections()

	start := time.Now()
	resp, err := (&http.Client{Transport: tr}).Do(req)
	if err != nil {
		return 0, nil, c.classify(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.DebugContext(ctx, "remote call rejected",
			slog.String("url", url),
			slog.Int("status", resp.StatusCode),
		)
		return resp.StatusCode, nil, &RemoteCallError{Kind: ErrStatus, URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return resp.StatusCode, nil, c.classify(url, err)
	}
	if int64(len(data)) > c.maxResponseSize {
		return resp.StatusCode, nil, &RemoteCallError{Kind: ErrResponseTooLarge, URL: url}
	}

	c.logger.DebugContext(ctx, "remote call completed",
		slog.String("url", url),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", time.Since(start)),
	)

	return resp.StatusCode, data, nil
}

// newTransport builds a single-use transport: no keep-alive, bounded dial
// and handshake, per-read deadline on the socket.
func (c *Client) newTransport(readTimeout time.Duration) *http.Transport {
	dialer := &net.Dialer{Timeout: c.connectTimeout}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &deadlineConn{Conn: conn, readTimeout: readTimeout}, nil
		},
		TLSHandshakeTimeout:   c.connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		DisableKeepAlives:     true,
		MaxIdleConnsPerHost:   -1,
	}
	if c.tlsConfig != nil {
		tr.TLSClientConfig = c.tlsConfig.Clone()
	}
	return tr
}

func (c *Client) classify(url string, err error) *RemoteCallError {
	kind := ErrRequest
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = ErrTimeout
	}
	return &RemoteCallError{Kind: kind, Err: err, URL: url}
}
