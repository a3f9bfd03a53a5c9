package adminbiz

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/jobrpc/pkg/logger"
)

// DefaultBeatInterval matches the admin's registry timeout of three beats.
const DefaultBeatInterval = 30 * time.Second

// ErrRegistrarRunning is returned by Run when the registrar is already running.
var ErrRegistrarRunning = errors.New("adminbiz: registrar already running")

// Registrar keeps one node registered with every configured admin.
type Registrar struct {
	logger   *slog.Logger
	admins   []AdminBiz
	param    RegistryParam
	interval time.Duration
	mu       sync.Mutex
	running  bool
}

// RegistrarOption configures a Registrar.
type RegistrarOption func(*Registrar)

// WithInterval sets the beat interval. Default: 30s
func WithInterval(d time.Duration) RegistrarOption {
	return func(r *Registrar) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithRegistrarLogger sets the logger used to report beat failures.
func WithRegistrarLogger(l *slog.Logger) RegistrarOption {
	return func(r *Registrar) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistrar creates a registrar for param against the given admins.
func NewRegistrar(param RegistryParam, admins []AdminBiz, opts ...RegistrarOption) *Registrar {
	r := &Registrar{
		param:    param,
		admins:   admins,
		interval: DefaultBeatInterval,
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run beats immediately and then on every interval until ctx is cancelled.
// On exit it deregisters from every admin using a fresh context bounded by
// the interval, so a cancelled ctx does not skip the removal.
func (r *Registrar) Run(ctx context.Context) error {
	if err := r.param.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrRegistrarRunning
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Beat(ctx)
	for {
		select {
		case <-ctx.Done():
			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.interval)
			defer cancel()
			r.Deregister(stopCtx)
			return nil
		case <-ticker.C:
			r.Beat(ctx)
		}
	}
}

// Beat calls Registry on every admin concurrently and returns the number of
// admins that accepted the registration.
func (r *Registrar) Beat(ctx context.Context) int {
	return r.fanOut(ctx, OpRegistry, func(ctx context.Context, a AdminBiz) bool {
		return a.Registry(ctx, r.param).IsSuccess()
	})
}

// Deregister calls RegistryRemove on every admin concurrently and returns the
// number of admins that accepted the removal.
func (r *Registrar) Deregister(ctx context.Context) int {
	return r.fanOut(ctx, OpRegistryRemove, func(ctx context.Context, a AdminBiz) bool {
		return a.RegistryRemove(ctx, r.param).IsSuccess()
	})
}

func (r *Registrar) fanOut(ctx context.Context, op Operation, call func(context.Context, AdminBiz) bool) int {
	var (
		mu sync.Mutex
		ok int
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, admin := range r.admins {
		g.Go(func() error {
			if call(gctx, admin) {
				mu.Lock()
				ok++
				mu.Unlock()
				return nil
			}
			r.logger.WarnContext(gctx, "registry beat rejected",
				slog.String("operation", op.String()),
				slog.Int("admin", i),
				slog.String("registry_key", r.param.RegistryKey),
			)
			return nil
		})
	}
	_ = g.Wait()

	if ok > 0 {
		r.logger.DebugContext(ctx, "registry beat",
			slog.String("operation", op.String()),
			slog.Int("accepted", ok),
			slog.Int("admins", len(r.admins)),
		)
	}
	return ok
}
