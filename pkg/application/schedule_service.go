package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jalvemo/planera/pkg/domain/directory"
	"github.com/jalvemo/planera/pkg/domain/events"
	"github.com/jalvemo/planera/pkg/domain/schedule"
	"github.com/jalvemo/planera/pkg/domain/workorder"
)

// BoardSnapshot is everything the board surface needs to render: the
// scheduled jobs, both external catalogs, and the derived unassigned
// pool.
type BoardSnapshot struct {
	Jobs       []schedule.Job
	Resources  []directory.Resource
	Orders     []workorder.Order
	Unassigned []workorder.Order
}

// ScheduleService hydrates and reloads the authoritative schedule state
// from the store and the external catalogs.
type ScheduleService struct {
	repo       schedule.Repository
	state      *schedule.State
	directory  directory.Service
	orders     workorder.Service
	dispatcher *events.Dispatcher
	logger     *slog.Logger
}

func NewScheduleService(repo schedule.Repository, state *schedule.State, dir directory.Service, orders workorder.Service, dispatcher *events.Dispatcher, logger *slog.Logger) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleService{
		repo:       repo,
		state:      state,
		directory:  dir,
		orders:     orders,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// LoadBoard replaces the schedule state with the persisted job list and
// returns a fresh snapshot. Resource colors are reassigned in the order
// jobs come back from the store.
func (s *ScheduleService) LoadBoard() (*BoardSnapshot, error) {
	jobs, err := s.repo.ListJobs()
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	s.state.Load(jobs)

	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(context.Background(), events.NewBoardReloaded(len(jobs))); err != nil {
			s.logger.Warn("board reload dispatch failed", "error", err)
		}
	}
	return snapshot, nil
}

// Snapshot derives a board snapshot from the current state without
// touching the job store.
func (s *ScheduleService) Snapshot() (*BoardSnapshot, error) {
	resources, err := s.directory.ListResources()
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	orders, err := s.orders.ListOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &BoardSnapshot{
		Jobs:       s.state.Jobs(),
		Resources:  resources,
		Orders:     orders,
		Unassigned: schedule.Unassigned(orders, s.state),
	}, nil
}

// State exposes the authoritative schedule state.
func (s *ScheduleService) State() *schedule.State {
	return s.state
}
