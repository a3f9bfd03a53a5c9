package callback

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
	"github.com/dmitrymomot/jobrpc/pkg/jobstore"
)

// Sink accepts callback batches.
type Sink interface {
	Submit(ctx context.Context, params []adminbiz.HandleCallbackParam) error
}

// Recorder stores one callback. jobstore.Store satisfies it.
type Recorder interface {
	RecordCallback(ctx context.Context, p adminbiz.HandleCallbackParam) error
}

// permanent reports whether retrying err can never succeed.
func permanent(err error) bool {
	return errors.Is(err, jobstore.ErrLogNotFound) || errors.Is(err, jobstore.ErrDuplicateCallback)
}

// reason returns the message the admin logs for a rejected callback.
func reason(err error) string {
	switch {
	case errors.Is(err, jobstore.ErrLogNotFound):
		return "log item not found."
	case errors.Is(err, jobstore.ErrDuplicateCallback):
		return "log repeate callback."
	default:
		return err.Error()
	}
}

func logRejected(ctx context.Context, l *slog.Logger, p adminbiz.HandleCallbackParam, err error) {
	l.WarnContext(ctx, "callback rejected",
		slog.Int64("log_id", p.LogID),
		slog.Int("handle_code", p.HandleCode),
		slog.String("reason", reason(err)),
	)
}
