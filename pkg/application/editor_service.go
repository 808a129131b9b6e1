package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jalvemo/planera/pkg/domain"
	"github.com/jalvemo/planera/pkg/domain/events"
	"github.com/jalvemo/planera/pkg/domain/schedule"
)

// EditorService owns the lifecycle of exactly one draft at a time. It
// gates commits behind validation, performs the single store write on
// commit, and is the only caller of the schedule state's mutators.
//
// All operations are serialized on one mutex: the editor suspends only
// its own draft while store I/O is in flight, mirroring how the modal
// blocks its own surface but not the rest of the board.
type EditorService struct {
	mu         sync.Mutex
	repo       schedule.Repository
	state      *schedule.State
	audit      domain.AuditLogger
	dispatcher *events.Dispatcher
	logger     *slog.Logger

	fsm        *schedule.EditorStateMachine
	draft      *schedule.Draft
	generation int
}

func NewEditorService(repo schedule.Repository, state *schedule.State, audit domain.AuditLogger, dispatcher *events.Dispatcher, logger *slog.Logger) (*EditorService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &EditorService{
		repo:       repo,
		state:      state,
		audit:      audit,
		dispatcher: dispatcher,
		logger:     logger,
	}

	fsm, err := schedule.NewEditorStateMachine(func(event string) bool {
		if event == schedule.EventDelete {
			return s.draft != nil && s.draft.IsPersisted()
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	s.fsm = fsm
	return s, nil
}

// Open loads a draft into the editor. Only one draft may be open; the
// board never opens a second one, but the transition guard makes that
// explicit.
func (s *EditorService) Open(draft schedule.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fsm.Transition(schedule.EventOpen); err != nil {
		return err
	}
	s.draft = &draft
	s.generation++
	return nil
}

// Draft returns a copy of the open draft, if any.
func (s *EditorService) Draft() (schedule.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return schedule.Draft{}, false
	}
	return *s.draft, true
}

// SetDraft replaces the fields of the open draft with edited values. The
// source tag and placement handle survive edits untouched.
func (s *EditorService) SetDraft(job schedule.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return fmt.Errorf("no draft is open")
	}
	job.ID = s.draft.ID
	s.draft.Job = job
	return nil
}

// Generation returns the request token for the open draft. Results of
// store calls that resolve after the draft was closed carry a stale
// generation and must be ignored by the caller.
func (s *EditorService) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// IsOpen reports whether a draft is open, including one suspended in a
// store call.
func (s *EditorService) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.IsOpen()
}

// Lifecycle returns the editor's current lifecycle state name.
func (s *EditorService) Lifecycle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.Current()
}

// Commit validates and persists the open draft. On validation failure
// the store is never called and the editor stays open. On store failure
// the editor stays open with the draft intact so the user can retry or
// cancel. On success the schedule state is updated and the editor closes.
func (s *EditorService) Commit() (schedule.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return schedule.Job{}, fmt.Errorf("no draft is open")
	}

	// Validation failures never enter the committing state.
	if err := s.draft.Validate(); err != nil {
		return schedule.Job{}, err
	}

	if err := s.fsm.Transition(schedule.EventCommit); err != nil {
		return schedule.Job{}, err
	}

	committed := s.draft.Normalized()
	isUpdate := s.draft.IsPersisted()

	if isUpdate {
		if err := s.repo.UpdateJob(committed.ID, committed); err != nil {
			s.failTransition()
			return schedule.Job{}, err
		}
	} else {
		id, err := s.repo.InsertJob(committed)
		if err != nil {
			s.failTransition()
			return schedule.Job{}, err
		}
		committed.ID = id
	}

	if err := s.state.Upsert(committed); err != nil {
		// The write already landed; surface but keep the close path.
		s.logger.Error("schedule state upsert failed after commit", "job_id", committed.ID, "error", err)
	}

	s.recordCommit(committed, isUpdate)
	s.closeDraft()
	return committed, nil
}

// Discard closes the editor without touching the store. For a drag
// placement it returns the provisional block handle so the board can
// remove it; the order then remains in the unassigned pool.
func (s *EditorService) Discard() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return "", fmt.Errorf("no draft is open")
	}
	if err := s.fsm.Transition(schedule.EventDiscard); err != nil {
		return "", err
	}

	placementID := ""
	if s.draft.Source == schedule.DraftDragPlacement {
		placementID = s.draft.PlacementID
	}

	if err := s.fsm.Transition(schedule.EventSucceed); err != nil {
		return "", err
	}
	s.draft = nil
	return placementID, nil
}

// DeleteCommitted removes the persisted job behind the open draft. Only
// reachable for drafts with an ID. On store failure the editor stays
// open; on success the job leaves the schedule state and its order (if
// any) reappears in the unassigned pool on the next derivation.
func (s *EditorService) DeleteCommitted() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return fmt.Errorf("no draft is open")
	}
	if !s.draft.IsPersisted() {
		return fmt.Errorf("cannot delete a job that was never saved")
	}

	if err := s.fsm.Transition(schedule.EventDelete); err != nil {
		return err
	}

	jobID := s.draft.ID
	orderID := s.draft.OrderID

	if err := s.repo.DeleteJob(jobID); err != nil {
		s.failTransition()
		return err
	}

	s.state.Remove(jobID)
	s.dispatch(events.NewJobDeleted(jobID, orderID))
	s.auditLog("job.deleted", map[string]interface{}{"job_id": jobID, "order_id": orderID})
	s.closeDraft()
	return nil
}

func (s *EditorService) recordCommit(job schedule.Job, isUpdate bool) {
	if isUpdate {
		s.dispatch(events.NewJobRescheduled(job))
		s.auditLog("job.rescheduled", map[string]interface{}{"job_id": job.ID, "resource_id": job.ResourceID})
		return
	}
	s.dispatch(events.NewJobScheduled(job))
	s.auditLog("job.scheduled", map[string]interface{}{
		"job_id":      job.ID,
		"order_id":    job.OrderID,
		"resource_id": job.ResourceID,
	})
}

func (s *EditorService) dispatch(event events.DomainEvent) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(context.Background(), event); err != nil {
		s.logger.Warn("event dispatch failed", "type", event.EventType(), "error", err)
	}
}

func (s *EditorService) auditLog(action string, metadata map[string]interface{}) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(action, "board", metadata); err != nil {
		s.logger.Warn("audit log failed", "action", action, "error", err)
	}
}

func (s *EditorService) failTransition() {
	if err := s.fsm.Transition(schedule.EventFail); err != nil {
		s.logger.Error("editor fail transition rejected", "error", err)
	}
}

func (s *EditorService) closeDraft() {
	if err := s.fsm.Transition(schedule.EventSucceed); err != nil {
		s.logger.Error("editor close transition rejected", "error", err)
	}
	s.draft = nil
}
