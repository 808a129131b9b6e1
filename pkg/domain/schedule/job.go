// Package schedule is the core of planera: the authoritative in-memory
// schedule, the draft lifecycle behind the event editor, and the derived
// unassigned-order pool.
package schedule

import "time"

// Job is a calendar-bound booking of a resource over a time range,
// optionally linked to a work order. The title is free text and may
// diverge from the linked order's title.
type Job struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string    `json:"title" yaml:"title"`
	Start       time.Time `json:"start" yaml:"start"`
	End         time.Time `json:"end,omitempty" yaml:"end,omitempty"`
	AllDay      bool      `json:"all_day,omitempty" yaml:"all_day,omitempty"`
	OrderID     string    `json:"order_id,omitempty" yaml:"order_id,omitempty"`
	ResourceID  string    `json:"resource_id" yaml:"resource_id"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsPersisted reports whether the job has been written to the store.
// Draft origin is tracked separately via DraftSource; this only answers
// "does an ID exist".
func (j Job) IsPersisted() bool {
	return j.ID != ""
}

// EffectiveEnd returns the end of the booking, treating a missing end as
// equal to the start.
func (j Job) EffectiveEnd() time.Time {
	if j.End.IsZero() {
		return j.Start
	}
	return j.End
}

// Validate checks the fields required before a job may be committed.
// Title, Start and ResourceID are mandatory; everything else is optional.
func (j Job) Validate() error {
	if j.Title == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	if j.Start.IsZero() {
		return &ValidationError{Field: "start", Reason: "start time is required"}
	}
	if j.ResourceID == "" {
		return &ValidationError{Field: "resource_id", Reason: "a resource must be assigned"}
	}
	if !j.End.IsZero() && j.End.Before(j.Start) {
		return &ValidationError{Field: "end", Reason: "end must not be before start"}
	}
	return nil
}

// Normalized returns a copy ready for persistence: an empty end collapses
// to the start time.
func (j Job) Normalized() Job {
	if j.End.IsZero() {
		j.End = j.Start
	}
	return j
}
