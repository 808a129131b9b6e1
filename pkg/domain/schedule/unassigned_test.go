package schedule_test

import (
	"testing"
	"time"

	"github.com/jalvemo/planera/pkg/domain/schedule"
	"github.com/jalvemo/planera/pkg/domain/workorder"
)

func TestUnassigned_PoolCompleteness(t *testing.T) {
	orders := []workorder.Order{
		{ID: "o1", OrderNumber: "0001"},
		{ID: "o2", OrderNumber: "0002"},
		{ID: "o3", OrderNumber: "0003"},
	}
	state := schedule.NewState(nil)
	state.Load([]schedule.Job{
		{ID: "j1", Title: "a", Start: time.Now(), ResourceID: "u1", OrderID: "o2"},
		{ID: "j2", Title: "b", Start: time.Now(), ResourceID: "u1"}, // no order reference
	})

	pool := schedule.Unassigned(orders, state)
	if len(pool) != 2 {
		t.Fatalf("expected 2 unassigned orders, got %d", len(pool))
	}
	// Insertion order of the order list is preserved, never re-sorted.
	if pool[0].ID != "o1" || pool[1].ID != "o3" {
		t.Errorf("expected [o1 o3] in input order, got [%s %s]", pool[0].ID, pool[1].ID)
	}
}

func TestUnassigned_EmptyScheduleReturnsAllOrders(t *testing.T) {
	orders := []workorder.Order{{ID: "o1"}, {ID: "o2"}}
	pool := schedule.Unassigned(orders, schedule.NewState(nil))
	if len(pool) != len(orders) {
		t.Errorf("expected the full order list, got %d of %d", len(pool), len(orders))
	}
}

func TestUnassigned_DeletedJobReinstatesOrder(t *testing.T) {
	orders := []workorder.Order{{ID: "o1"}}
	state := schedule.NewState(nil)
	state.Load([]schedule.Job{{ID: "j1", Title: "a", Start: time.Now(), ResourceID: "u1", OrderID: "o1"}})

	if pool := schedule.Unassigned(orders, state); len(pool) != 0 {
		t.Fatalf("expected o1 assigned, got %v", pool)
	}
	state.Remove("j1")
	pool := schedule.Unassigned(orders, state)
	if len(pool) != 1 || pool[0].ID != "o1" {
		t.Errorf("expected o1 to reappear immediately after delete, got %v", pool)
	}
}

func TestUnassigned_AnyReferenceAssignsOrder(t *testing.T) {
	// The pool works on a boolean "is scheduled", not a count: a single
	// reference is enough regardless of how many jobs carry it.
	orders := []workorder.Order{{ID: "o1"}}
	state := schedule.NewState(nil)
	state.Load([]schedule.Job{
		{ID: "j1", Title: "a", Start: time.Now(), ResourceID: "u1", OrderID: "o1"},
		{ID: "j2", Title: "b", Start: time.Now(), ResourceID: "u2", OrderID: "o1"},
	})

	if pool := schedule.Unassigned(orders, state); len(pool) != 0 {
		t.Errorf("expected o1 assigned, got %v", pool)
	}
	state.Remove("j1")
	if pool := schedule.Unassigned(orders, state); len(pool) != 0 {
		t.Errorf("o1 is still referenced by j2, got %v", pool)
	}
}
