// Package events defines the scheduling domain events emitted when the
// board's persisted truth changes, plus a synchronous dispatcher that
// fans them out to listeners such as the dashboard streams.
package events

import (
	"time"

	"github.com/jalvemo/planera/pkg/domain/schedule"
)

// Event types emitted by the scheduling subsystem.
const (
	TypeJobScheduled   = "job.scheduled"
	TypeJobRescheduled = "job.rescheduled"
	TypeJobDeleted     = "job.deleted"
	TypeBoardReloaded  = "board.reloaded"
)

// DomainEvent is the base interface for all scheduling events.
type DomainEvent interface {
	EventType() string
	JobID() string
	OccurredAt() time.Time
}

// BaseEvent provides the common fields of every scheduling event.
type BaseEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"job_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) JobID() string         { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// JobScheduled fires when a new job is committed to the store.
type JobScheduled struct {
	BaseEvent
	Job schedule.Job `json:"job"`
}

// JobRescheduled fires when an existing job is updated.
type JobRescheduled struct {
	BaseEvent
	Job schedule.Job `json:"job"`
}

// JobDeleted fires when a persisted job is removed.
type JobDeleted struct {
	BaseEvent
	OrderID string `json:"order_id,omitempty"`
}

// BoardReloaded fires when the schedule is rehydrated from the store,
// for example after an external edit to the data directory.
type BoardReloaded struct {
	BaseEvent
	JobCount int `json:"job_count"`
}

// NewJobScheduled builds a JobScheduled event for a freshly inserted job.
func NewJobScheduled(job schedule.Job) *JobScheduled {
	return &JobScheduled{
		BaseEvent: BaseEvent{Type: TypeJobScheduled, ID: job.ID, Timestamp: time.Now()},
		Job:       job,
	}
}

// NewJobRescheduled builds a JobRescheduled event for an updated job.
func NewJobRescheduled(job schedule.Job) *JobRescheduled {
	return &JobRescheduled{
		BaseEvent: BaseEvent{Type: TypeJobRescheduled, ID: job.ID, Timestamp: time.Now()},
		Job:       job,
	}
}

// NewJobDeleted builds a JobDeleted event. The freed order ID (if any)
// rides along so listeners can recompute the unassigned pool.
func NewJobDeleted(jobID, orderID string) *JobDeleted {
	return &JobDeleted{
		BaseEvent: BaseEvent{Type: TypeJobDeleted, ID: jobID, Timestamp: time.Now()},
		OrderID:   orderID,
	}
}

// NewBoardReloaded builds a BoardReloaded event.
func NewBoardReloaded(jobCount int) *BoardReloaded {
	return &BoardReloaded{
		BaseEvent: BaseEvent{Type: TypeBoardReloaded, Timestamp: time.Now()},
		JobCount:  jobCount,
	}
}
