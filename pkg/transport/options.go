package transport

import (
	"crypto/tls"
	"log/slog"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithConnectTimeout sets the timeout for dialing and the TLS handshake.
// Default: 3 seconds
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// WithTLSConfig sets the TLS configuration used for https URLs.
// The config is cloned; later changes to cfg have no effect.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		if cfg != nil {
			c.tlsConfig = cfg.Clone()
		}
	}
}

// WithInsecureSkipVerify trusts any server certificate and host name.
// Intended for internal executor fleets with self-signed certificates.
func WithInsecureSkipVerify() Option {
	return func(c *Client) {
		if c.tlsConfig == nil {
			c.tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		c.tlsConfig.InsecureSkipVerify = true //nolint:gosec // explicit operator opt-in
	}
}

// WithMaxResponseSize limits how many response bytes are read into memory.
// Default: 4 MiB
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseSize = n
		}
	}
}

// WithLogger sets the logger for call tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
