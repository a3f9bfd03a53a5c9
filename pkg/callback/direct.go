package callback

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/logger"
)

var _ Sink = (*Direct)(nil)

// Direct applies callbacks synchronously.
type Direct struct {
	rec    Recorder
	logger *slog.Logger
}

// NewDirect creates a synchronous sink writing to rec.
func NewDirect(rec Recorder, opts ...Option) *Direct {
	cfg := newConfig(opts...)
	return &Direct{rec: rec, logger: cfg.logger}
}

// Submit records each callback in order. Rejected records are logged and
// skipped; the first store failure aborts the batch.
func (d *Direct) Submit(ctx context.Context, params []adminbiz.HandleCallbackParam) error {
	for _, p := range params {
		if err := d.rec.RecordCallback(ctx, p); err != nil {
			if permanent(err) {
				logRejected(ctx, d.logger, p, err)
				continue
			}
			return err
		}
	}
	return nil
}

// Option configures a sink.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	queue       string
	maxWorkers  int
	maxAttempts int
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:      logger.NewNope(),
		queue:       defaultQueue,
		maxWorkers:  defaultMaxWorkers,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger for rejected callbacks and worker failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithQueue sets the River queue name. Default: "callback"
func WithQueue(name string) Option {
	return func(c *config) {
		if name != "" {
			c.queue = name
		}
	}
}

// WithMaxWorkers sets the number of concurrent callback workers. Default: 10
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithMaxAttempts sets how often a failing callback is retried. Default: 5
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}
