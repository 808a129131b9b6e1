package application_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jalvemo/planera/pkg/application"
	"github.com/jalvemo/planera/pkg/domain/directory"
	"github.com/jalvemo/planera/pkg/domain/schedule"
	"github.com/jalvemo/planera/pkg/domain/workorder"
)

func TestBoardService_RangeDraft(t *testing.T) {
	board := application.NewBoardService(0)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	draft := board.RangeDraft(start, end, true)
	if draft.Source != schedule.DraftNew {
		t.Errorf("expected source %s, got %s", schedule.DraftNew, draft.Source)
	}
	if !draft.AllDay || !draft.Start.Equal(start) || !draft.End.Equal(end) {
		t.Error("range selection fields must carry over into the draft")
	}
	if draft.OrderID != "" || draft.ResourceID != "" {
		t.Error("a range draft starts with no order and no resource")
	}
}

func TestBoardService_DropDraftDefaultsToTwoHours(t *testing.T) {
	board := application.NewBoardService(0)
	order := workorder.Order{ID: "o1", OrderNumber: "0007", Title: "Byt lås"}
	lane := directory.Resource{ID: "u1", DisplayName: "Anna"}
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	draft, err := board.DropDraft(order, lane, start)
	if err != nil {
		t.Fatalf("DropDraft failed: %v", err)
	}
	if draft.Source != schedule.DraftDragPlacement {
		t.Errorf("expected source %s, got %s", schedule.DraftDragPlacement, draft.Source)
	}
	if draft.PlacementID == "" {
		t.Error("a drag placement must carry a provisional block handle")
	}
	if draft.OrderID != "o1" || draft.ResourceID != "u1" {
		t.Error("drop must copy the order and the lane resource")
	}
	if !draft.End.Equal(start.Add(2 * time.Hour)) {
		t.Errorf("expected default end at start+2h, got %v", draft.End)
	}
	if draft.Title != "Byt lås" {
		t.Errorf("drop pre-fills the title from the order, got %q", draft.Title)
	}
}

func TestBoardService_DropDraftRejectsUnresolvedLane(t *testing.T) {
	board := application.NewBoardService(0)
	order := workorder.Order{ID: "o1"}
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	if _, err := board.DropDraft(order, directory.Resource{}, start); err == nil {
		t.Fatal("a drop outside any lane must be rejected before a draft opens")
	}
}

func TestBoardService_EditDraftCopiesAllFields(t *testing.T) {
	board := application.NewBoardService(0)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	job := schedule.Job{
		ID: "j1", Title: "Byt lås", Start: start, End: start.Add(time.Hour),
		OrderID: "o1", ResourceID: "u1", Description: "extranyckel hos kund",
	}

	draft := board.EditDraft(job)
	if draft.Source != schedule.DraftExisting {
		t.Errorf("expected source %s, got %s", schedule.DraftExisting, draft.Source)
	}
	if draft.Job != job {
		t.Error("edit draft must copy every field including the ID")
	}
}

func TestBoardService_BlockLabelResolvesReferences(t *testing.T) {
	board := application.NewBoardService(0)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	job := schedule.Job{Title: "Byt lås", Start: start, End: start.Add(2 * time.Hour), OrderID: "o1", ResourceID: "u1"}

	orders := map[string]workorder.Order{"o1": {ID: "o1", OrderNumber: "0007"}}
	resources := map[string]directory.Resource{"u1": {ID: "u1", DisplayName: "Anna"}}

	label := board.BlockLabel(job, orders, resources)
	for _, want := range []string{"08:00-10:00", "Byt lås", "#0007", "Anna"} {
		if !strings.Contains(label, want) {
			t.Errorf("label %q missing %q", label, want)
		}
	}
}

func TestBoardService_BlockLabelOmitsDanglingReferences(t *testing.T) {
	board := application.NewBoardService(0)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	job := schedule.Job{Title: "Byt lås", Start: start, OrderID: "gone", ResourceID: "also-gone"}

	label := board.BlockLabel(job, map[string]workorder.Order{}, map[string]directory.Resource{})
	if strings.Contains(label, "gone") || strings.Contains(label, "#") {
		t.Errorf("dangling references must be omitted from the label, got %q", label)
	}
	if !strings.Contains(label, "Byt lås") {
		t.Errorf("label must still show the title, got %q", label)
	}
}
