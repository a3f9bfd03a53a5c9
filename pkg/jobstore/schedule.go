package jobstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
)

// cronParser accepts six fields with seconds first and "?" for either day
// field, plus descriptors such as @hourly.
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateSchedule checks the schedule type and configuration of job.
func ValidateSchedule(job adminbiz.JobInfo) error {
	_, err := schedule(job)
	return err
}

// NextFireTime returns the first fire time of job strictly after from.
func NextFireTime(job adminbiz.JobInfo, from time.Time) (time.Time, error) {
	s, err := schedule(job)
	if err != nil {
		return time.Time{}, err
	}
	if s == nil {
		return time.Time{}, ErrNotSchedulable
	}
	next := s.Next(from)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %q never fires", ErrInvalidSchedule, job.ScheduleConf)
	}
	return next, nil
}

// schedule returns nil for ScheduleTypeNone.
func schedule(job adminbiz.JobInfo) (cron.Schedule, error) {
	conf := strings.TrimSpace(job.ScheduleConf)

	switch job.ScheduleType {
	case adminbiz.ScheduleTypeNone:
		return nil, nil

	case adminbiz.ScheduleTypeCron:
		if conf == "" {
			return nil, fmt.Errorf("%w: cron expression is required", ErrInvalidSchedule)
		}
		s, err := cronParser.Parse(conf)
		if err != nil {
			return nil, errors.Join(ErrInvalidSchedule, err)
		}
		return s, nil

	case adminbiz.ScheduleTypeFixRate:
		secs, err := strconv.Atoi(conf)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("%w: fix rate must be a positive number of seconds, got %q", ErrInvalidSchedule, conf)
		}
		return cron.Every(time.Duration(secs) * time.Second), nil

	default:
		return nil, fmt.Errorf("%w: unknown schedule type %q", ErrInvalidSchedule, job.ScheduleType)
	}
}

// validateChildJobIDs checks that childJobId is empty or a comma-separated
// list of integers.
func validateChildJobIDs(ids string) ([]int, error) {
	ids = strings.TrimSpace(ids)
	if ids == "" {
		return nil, nil
	}

	parts := strings.Split(ids, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidChildJobIDs, p)
		}
		out = append(out, id)
	}
	return out, nil
}

func validate(job adminbiz.JobInfo) error {
	if err := job.Validate(); err != nil {
		return err
	}
	if err := ValidateSchedule(job); err != nil {
		return err
	}
	if _, err := validateChildJobIDs(job.ChildJobID); err != nil {
		return err
	}
	return nil
}
