package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jalvemo/planera/pkg/domain/directory"
	"github.com/jalvemo/planera/pkg/domain/schedule"
	"github.com/jalvemo/planera/pkg/domain/workorder"
)

// DefaultDropDuration applies when a drop target does not determine an
// end time.
const DefaultDropDuration = 2 * time.Hour

// BoardService translates raw board gestures into draft-lifecycle calls.
// It never mutates the schedule state itself.
type BoardService struct {
	dropDuration time.Duration
}

func NewBoardService(dropDuration time.Duration) *BoardService {
	if dropDuration <= 0 {
		dropDuration = DefaultDropDuration
	}
	return &BoardService{dropDuration: dropDuration}
}

// RangeDraft builds a draft from a time-range selection. Order and
// resource stay empty; the editor requires a resource before commit.
func (b *BoardService) RangeDraft(start, end time.Time, allDay bool) schedule.Draft {
	return schedule.NewRangeDraft(start, end, allDay)
}

// DropDraft builds a draft from an unassigned order dropped onto a
// resource lane. A drop outside any lane is rejected before a draft is
// opened; that is a board-level guard, not a persistence error.
func (b *BoardService) DropDraft(order workorder.Order, lane directory.Resource, start time.Time) (schedule.Draft, error) {
	if lane.IsZero() {
		return schedule.Draft{}, fmt.Errorf("drop target does not resolve to a resource lane")
	}
	draft := schedule.NewDropDraft(order.ID, lane.ID, start, b.dropDuration, uuid.New().String())
	draft.Title = order.Title
	return draft, nil
}

// EditDraft builds a draft copying all fields of an existing job.
func (b *BoardService) EditDraft(job schedule.Job) schedule.Draft {
	return schedule.NewEditDraft(job)
}

// BlockLabel renders the calendar-block label for a job: the time range
// and title, the order number when the order reference resolves, and the
// resource display name when the resource reference resolves. Dangling
// references are omitted, never shown as errors.
func (b *BoardService) BlockLabel(job schedule.Job, ordersByID map[string]workorder.Order, resourcesByID map[string]directory.Resource) string {
	var parts []string

	if job.AllDay {
		parts = append(parts, job.Start.Format("Jan 2"))
	} else {
		parts = append(parts, fmt.Sprintf("%s-%s", job.Start.Format("15:04"), job.EffectiveEnd().Format("15:04")))
	}
	parts = append(parts, job.Title)

	if job.OrderID != "" {
		if o, ok := ordersByID[job.OrderID]; ok {
			parts = append(parts, "#"+o.OrderNumber)
		}
	}
	if job.ResourceID != "" {
		if r, ok := resourcesByID[job.ResourceID]; ok {
			parts = append(parts, r.DisplayName)
		}
	}

	return strings.Join(parts, " ")
}
