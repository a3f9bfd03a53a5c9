package jobstore

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
)

var _ Store = (*Memory)(nil)

type memoryJob struct {
	nextFire time.Time
	info     adminbiz.JobInfo
}

type memoryLog struct {
	handleTime time.Time
	handleMsg  string
	jobID      int
	handleCode int
}

// Memory is an in-process Store.
type Memory struct {
	now    func() time.Time
	jobs   map[int]*memoryJob
	logs   map[int64]*memoryLog
	nextID int
	nextLg int64
	mu     sync.Mutex
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithMemoryClock overrides the time source.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		now:  time.Now,
		jobs: make(map[int]*memoryJob),
		logs: make(map[int64]*memoryLog),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Add(_ context.Context, job adminbiz.JobInfo) (int, error) {
	if err := validate(job); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	job.ID = m.nextID
	job.TriggerStatus = adminbiz.TriggerStatusStopped
	m.jobs[job.ID] = &memoryJob{info: job}
	return job.ID, nil
}

func (m *Memory) Update(_ context.Context, job adminbiz.JobInfo) error {
	if err := validate(job); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.jobs[job.ID]
	if !ok {
		return ErrNotFound
	}

	job.TriggerStatus = cur.info.TriggerStatus
	switch {
	case job.ScheduleType == adminbiz.ScheduleTypeNone:
		job.TriggerStatus = adminbiz.TriggerStatusStopped
		cur.nextFire = time.Time{}
	case job.TriggerStatus == adminbiz.TriggerStatusRunning && scheduleChanged(cur.info, job):
		next, err := NextFireTime(job, m.now())
		if err != nil {
			return err
		}
		cur.nextFire = next
	}
	cur.info = job
	return nil
}

func (m *Memory) Remove(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.jobs, id)
	for lid, l := range m.logs {
		if l.jobID == id {
			delete(m.logs, lid)
		}
	}
	return nil
}

func (m *Memory) Start(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return ErrNotFound
	}
	next, err := NextFireTime(j.info, m.now())
	if err != nil {
		return err
	}
	j.info.TriggerStatus = adminbiz.TriggerStatusRunning
	j.nextFire = next
	return nil
}

func (m *Memory) Stop(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return ErrNotFound
	}
	j.info.TriggerStatus = adminbiz.TriggerStatusStopped
	j.nextFire = time.Time{}
	return nil
}

func (m *Memory) Get(_ context.Context, id int) (adminbiz.JobInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return adminbiz.JobInfo{}, ErrNotFound
	}
	return j.info, nil
}

// NextFire returns the next fire time of a running job, or the zero time.
func (m *Memory) NextFire(id int) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	if j, ok := m.jobs[id]; ok {
		return j.nextFire
	}
	return time.Time{}
}

func (m *Memory) OpenLog(_ context.Context, jobID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[jobID]; !ok {
		return 0, ErrNotFound
	}
	m.nextLg++
	m.logs[m.nextLg] = &memoryLog{jobID: jobID}
	return m.nextLg, nil
}

func (m *Memory) RecordCallback(_ context.Context, p adminbiz.HandleCallbackParam) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.logs[p.LogID]
	if !ok {
		return ErrLogNotFound
	}
	if l.handleCode > 0 {
		return ErrDuplicateCallback
	}
	l.handleCode = p.HandleCode
	l.handleMsg = p.HandleMsg
	l.handleTime = m.now()
	return nil
}

// Callback returns the recorded outcome of a log entry.
func (m *Memory) Callback(logID int64) (code int, msg string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.logs[logID]
	if !ok {
		return 0, "", false
	}
	return l.handleCode, l.handleMsg, true
}

func scheduleChanged(a, b adminbiz.JobInfo) bool {
	return a.ScheduleType != b.ScheduleType || a.ScheduleConf != b.ScheduleConf
}
