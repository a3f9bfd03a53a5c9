package callback

import "errors"

var (
	ErrPoolRequired      = errors.New("callback: pgx pool is required")
	ErrRecorderRequired  = errors.New("callback: recorder is required")
	ErrAlreadyStarted    = errors.New("callback: queue already started")
	ErrNotStarted        = errors.New("callback: queue not started")
	ErrHealthcheckFailed = errors.New("callback: healthcheck failed")
	ErrEnqueueFailed     = errors.New("callback: enqueue failed")
	ErrMigrationFailed   = errors.New("callback: river migration failed")

	errNotRunning = errors.New("queue not running")
)
