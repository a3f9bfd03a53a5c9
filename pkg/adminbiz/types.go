package adminbiz

import (
	"errors"
	"strings"
)

// Registry groups.
const (
	RegistryTypeExecutor = "EXECUTOR"
	RegistryTypeAdmin    = "ADMIN"
)

// RegistryParam identifies one registered node. The same record is used for
// registration and removal.
type RegistryParam struct {
	RegistryGroup string `json:"registryGroup"`
	RegistryKey   string `json:"registryKey"`
	RegistryValue string `json:"registryValue"`
}

// Validate reports whether all three fields are set.
func (p RegistryParam) Validate() error {
	if strings.TrimSpace(p.RegistryGroup) == "" ||
		strings.TrimSpace(p.RegistryKey) == "" ||
		strings.TrimSpace(p.RegistryValue) == "" {
		return ErrInvalidRegistryParam
	}
	return nil
}

// HandleCallbackParam reports the outcome of one triggered execution.
type HandleCallbackParam struct {
	HandleMsg   string `json:"handleMsg"`
	LogID       int64  `json:"logId"`
	LogDateTime int64  `json:"logDateTim"`
	HandleCode  int    `json:"handleCode"`
}

// IDParam is the body of the id-only operations.
type IDParam struct {
	ID int `json:"id"`
}

// Schedule types accepted in JobInfo.ScheduleType.
const (
	ScheduleTypeNone     = "NONE"
	ScheduleTypeCron     = "CRON"
	ScheduleTypeFixRate  = "FIX_RATE"
	TriggerStatusStopped = 0
	TriggerStatusRunning = 1
)

// JobInfo is the flat job definition carried by addXxlJob and updateXxlJob.
// The dispatch layer forwards it untouched; only ID has meaning here.
type JobInfo struct {
	JobDesc                string `json:"jobDesc"`
	Author                 string `json:"author"`
	AlarmEmail             string `json:"alarmEmail"`
	ScheduleType           string `json:"scheduleType"`
	ScheduleConf           string `json:"scheduleConf"`
	MisfireStrategy        string `json:"misfireStrategy"`
	ExecutorRouteStrategy  string `json:"executorRouteStrategy"`
	ExecutorHandler        string `json:"executorHandler"`
	ExecutorParam          string `json:"executorParam"`
	ExecutorBlockStrategy  string `json:"executorBlockStrategy"`
	GlueType               string `json:"glueType"`
	GlueSource             string `json:"glueSource"`
	GlueRemark             string `json:"glueRemark"`
	ChildJobID             string `json:"childJobId"`
	ID                     int    `json:"id"`
	JobGroup               int    `json:"jobGroup"`
	ExecutorTimeout        int    `json:"executorTimeout"`
	ExecutorFailRetryCount int    `json:"executorFailRetryCount"`
	TriggerStatus          int    `json:"triggerStatus"`
}

// Validate checks the fields every stored job needs.
func (j JobInfo) Validate() error {
	var errs []error
	if j.JobGroup <= 0 {
		errs = append(errs, errors.New("jobGroup is required"))
	}
	if strings.TrimSpace(j.JobDesc) == "" {
		errs = append(errs, errors.New("jobDesc is required"))
	}
	if strings.TrimSpace(j.Author) == "" {
		errs = append(errs, errors.New("author is required"))
	}
	if strings.TrimSpace(j.ScheduleType) == "" {
		errs = append(errs, errors.New("scheduleType is required"))
	}
	if strings.TrimSpace(j.GlueType) == "" {
		errs = append(errs, errors.New("glueType is required"))
	}
	if j.ExecutorTimeout < 0 || j.ExecutorFailRetryCount < 0 {
		errs = append(errs, errors.New("executorTimeout and executorFailRetryCount must not be negative"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidJobInfo}, errs...)...)
	}
	return nil
}
