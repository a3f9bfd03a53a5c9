package jobstore

import "errors"

var (
	ErrNotFound           = errors.New("jobstore: job not found")
	ErrInvalidSchedule    = errors.New("jobstore: invalid schedule")
	ErrNotSchedulable     = errors.New("jobstore: schedule type NONE cannot be started")
	ErrLogNotFound        = errors.New("jobstore: log item not found")
	ErrDuplicateCallback  = errors.New("jobstore: log already has a callback")
	ErrStoreFailed        = errors.New("jobstore: store operation failed")
	ErrInvalidChildJobIDs = errors.New("jobstore: invalid child job id")
)
