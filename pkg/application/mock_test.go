package application_test

import (
	"fmt"

	"github.com/jalvemo/planera/pkg/domain"
	"github.com/jalvemo/planera/pkg/domain/directory"
	"github.com/jalvemo/planera/pkg/domain/schedule"
	"github.com/jalvemo/planera/pkg/domain/workorder"
)

// MockRepo backs the schedule store, both external catalogs, and the
// audit trail in memory.
type MockRepo struct {
	Jobs      []schedule.Job
	Resources []directory.Resource
	Orders    []workorder.Order
	Events    []domain.Event

	nextID    int
	ListErr   error
	InsertErr error
	UpdateErr error
	DeleteErr error

	InsertCalls int
	UpdateCalls int
	DeleteCalls int
}

func (m *MockRepo) ListJobs() ([]schedule.Job, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]schedule.Job, len(m.Jobs))
	copy(out, m.Jobs)
	return out, nil
}

func (m *MockRepo) InsertJob(job schedule.Job) (string, error) {
	m.InsertCalls++
	if m.InsertErr != nil {
		return "", &schedule.StoreError{Op: "insert", Err: m.InsertErr}
	}
	m.nextID++
	job.ID = fmt.Sprintf("j%d", m.nextID)
	m.Jobs = append(m.Jobs, job)
	return job.ID, nil
}

func (m *MockRepo) UpdateJob(id string, job schedule.Job) error {
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return &schedule.StoreError{Op: "update", Err: m.UpdateErr}
	}
	for i, existing := range m.Jobs {
		if existing.ID == id {
			job.ID = id
			m.Jobs[i] = job
			return nil
		}
	}
	return &schedule.StoreError{Op: "update", Err: fmt.Errorf("job %s not found", id)}
}

func (m *MockRepo) DeleteJob(id string) error {
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return &schedule.StoreError{Op: "delete", Err: m.DeleteErr}
	}
	for i, existing := range m.Jobs {
		if existing.ID == id {
			m.Jobs = append(m.Jobs[:i], m.Jobs[i+1:]...)
			return nil
		}
	}
	return &schedule.StoreError{Op: "delete", Err: fmt.Errorf("job %s not found", id)}
}

func (m *MockRepo) ListResources() ([]directory.Resource, error) { return m.Resources, nil }
func (m *MockRepo) ListOrders() ([]workorder.Order, error)       { return m.Orders, nil }

func (m *MockRepo) RecordEvent(e domain.Event) error { m.Events = append(m.Events, e); return nil }
func (m *MockRepo) LoadEvents() ([]domain.Event, error) {
	out := make([]domain.Event, len(m.Events))
	copy(out, m.Events)
	return out, nil
}

// MockAudit records audit calls without hashing.
type MockAudit struct {
	Actions []string
}

func (m *MockAudit) Log(action string, actor string, metadata map[string]interface{}) error {
	m.Actions = append(m.Actions, action)
	return nil
}
