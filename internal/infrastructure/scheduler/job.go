package scheduler

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a scheduled run
type JobStatus string

const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobRun records one execution of a scheduled job
type JobRun struct {
	ID          uuid.UUID
	Name        string
	Trigger     string
	Status      JobStatus
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewJobRun starts a run record
func NewJobRun(name, trigger string, at time.Time) *JobRun {
	return &JobRun{
		ID:        uuid.New(),
		Name:      name,
		Trigger:   trigger,
		Status:    JobStatusRunning,
		StartedAt: at,
	}
}

// Complete marks the run as successful
func (r *JobRun) Complete(at time.Time) {
	r.Status = JobStatusSuccess
	r.CompletedAt = &at
}

// Fail marks the run as failed
func (r *JobRun) Fail(err error, at time.Time) {
	r.Status = JobStatusFailed
	r.CompletedAt = &at
	if err != nil {
		r.Error = err.Error()
	}
}

// Duration is how long a finished run took
func (r *JobRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
