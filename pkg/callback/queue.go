package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
)

const (
	defaultQueue       = "callback"
	defaultMaxWorkers  = 10
	defaultMaxAttempts = 5
)

var _ Sink = (*Queue)(nil)

// callbackArgs is the River job for one callback record.
type callbackArgs struct {
	HandleMsg   string `json:"handle_msg"`
	LogID       int64  `json:"log_id"`
	LogDateTime int64  `json:"log_date_time"`
	HandleCode  int    `json:"handle_code"`
}

func (callbackArgs) Kind() string {
	return "jobrpc:callback"
}

func (a callbackArgs) param() adminbiz.HandleCallbackParam {
	return adminbiz.HandleCallbackParam{
		LogID:       a.LogID,
		LogDateTime: a.LogDateTime,
		HandleCode:  a.HandleCode,
		HandleMsg:   a.HandleMsg,
	}
}

type callbackWorker struct {
	river.WorkerDefaults[callbackArgs]
	rec    Recorder
	logger *slog.Logger
}

func (w *callbackWorker) Work(ctx context.Context, job *river.Job[callbackArgs]) error {
	p := job.Args.param()
	err := w.rec.RecordCallback(ctx, p)
	switch {
	case err == nil:
		return nil
	case permanent(err):
		logRejected(ctx, w.logger, p, err)
		return river.JobCancel(err)
	default:
		w.logger.ErrorContext(ctx, "callback failed",
			slog.Int64("log_id", p.LogID),
			slog.Int64("job_id", job.ID),
			slog.Int("attempt", job.Attempt),
			slog.Any("error", err),
		)
		return err
	}
}

// Queue applies callbacks asynchronously through River.
type Queue struct {
	client      *river.Client[pgx.Tx]
	pool        *pgxpool.Pool
	logger      *slog.Logger
	queue       string
	maxAttempts int
	mu          sync.Mutex
	started     bool
}

// NewQueue creates a queue whose workers write to rec. Callbacks can be
// submitted before Start; they are applied once workers run.
func NewQueue(pool *pgxpool.Pool, rec Recorder, opts ...Option) (*Queue, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if rec == nil {
		return nil, ErrRecorderRequired
	}

	cfg := newConfig(opts...)

	workers := river.NewWorkers()
	river.AddWorker(workers, &callbackWorker{rec: rec, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			cfg.queue: {MaxWorkers: cfg.maxWorkers},
		},
		Workers: workers,
		Logger:  cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("callback: create client: %w", err)
	}

	return &Queue{
		client:      client,
		pool:        pool,
		logger:      cfg.logger,
		queue:       cfg.queue,
		maxAttempts: cfg.maxAttempts,
	}, nil
}

// Submit enqueues one job per record in a single insert.
func (q *Queue) Submit(ctx context.Context, params []adminbiz.HandleCallbackParam) error {
	if len(params) == 0 {
		return nil
	}

	batch := make([]river.InsertManyParams, 0, len(params))
	for _, p := range params {
		batch = append(batch, river.InsertManyParams{
			Args: callbackArgs{
				LogID:       p.LogID,
				LogDateTime: p.LogDateTime,
				HandleCode:  p.HandleCode,
				HandleMsg:   p.HandleMsg,
			},
			InsertOpts: &river.InsertOpts{
				Queue:       q.queue,
				MaxAttempts: q.maxAttempts,
			},
		})
	}

	if _, err := q.client.InsertMany(ctx, batch); err != nil {
		return errors.Join(ErrEnqueueFailed, err)
	}

	q.logger.DebugContext(ctx, "callbacks enqueued", slog.Int("count", len(params)))
	return nil
}

// Start begins processing callbacks.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return ErrAlreadyStarted
	}
	if err := q.client.Start(ctx); err != nil {
		return fmt.Errorf("callback: start client: %w", err)
	}

	q.started = true
	q.logger.Info("callback queue started", slog.String("queue", q.queue))
	return nil
}

// Stop waits for running callbacks to finish.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return ErrNotStarted
	}
	if err := q.client.Stop(ctx); err != nil {
		return fmt.Errorf("callback: stop client: %w", err)
	}

	q.started = false
	q.logger.Info("callback queue stopped")
	return nil
}

// Shutdown returns a shutdown hook that stops the queue if it is running.
func (q *Queue) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		if err := q.Stop(ctx); err != nil && !errors.Is(err, ErrNotStarted) {
			return err
		}
		return nil
	}
}

// Healthcheck returns a readiness check verifying the queue runs and the
// database answers.
func Healthcheck(q *Queue) func(context.Context) error {
	return func(ctx context.Context) error {
		q.mu.Lock()
		started := q.started
		q.mu.Unlock()

		if !started {
			return errors.Join(ErrHealthcheckFailed, errNotRunning)
		}
		if err := q.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Migrate creates or upgrades River's tables.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}
