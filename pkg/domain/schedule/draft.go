package schedule

import "time"

// DraftSource tags how an in-progress edit originated. The origin is
// carried explicitly for the draft's whole lifetime rather than inferred
// from ID presence, since an empty-string ID would otherwise be misread
// as "not persisted".
type DraftSource string

const (
	// DraftNew comes from a range selection on the board.
	DraftNew DraftSource = "new"
	// DraftExisting comes from opening an already-persisted job.
	DraftExisting DraftSource = "editing_existing"
	// DraftDragPlacement comes from dropping an unassigned order onto a
	// resource lane. A provisional block is already visible on the board
	// but nothing has been written to the store.
	DraftDragPlacement DraftSource = "pending_drag_placement"
)

// Draft is a not-yet-committed edit of a Job.
type Draft struct {
	Job
	Source DraftSource
	// PlacementID identifies the transient board block backing a
	// DraftDragPlacement. Empty for every other source.
	PlacementID string
}

// NewRangeDraft builds a draft from a time-range selection. Order and
// resource are left empty; the editor requires a resource before commit.
func NewRangeDraft(start, end time.Time, allDay bool) Draft {
	return Draft{
		Job:    Job{Start: start, End: end, AllDay: allDay},
		Source: DraftNew,
	}
}

// NewDropDraft builds a draft from an unassigned order dropped onto a
// resource lane. The default duration applies when the drop target does
// not determine an end time.
func NewDropDraft(orderID, resourceID string, start time.Time, duration time.Duration, placementID string) Draft {
	return Draft{
		Job: Job{
			Start:      start,
			End:        start.Add(duration),
			OrderID:    orderID,
			ResourceID: resourceID,
		},
		Source:      DraftDragPlacement,
		PlacementID: placementID,
	}
}

// NewEditDraft builds a draft by copying all fields of an existing job.
func NewEditDraft(job Job) Draft {
	return Draft{Job: job, Source: DraftExisting}
}
