package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jalvemo/planera/pkg/domain/events"
	"github.com/jalvemo/planera/pkg/domain/schedule"
)

func TestDispatcher_RoutesByType(t *testing.T) {
	d := events.NewDispatcher()

	var scheduled, deleted int
	d.RegisterHandler("count-scheduled", func(ctx context.Context, e events.DomainEvent) error {
		scheduled++
		return nil
	}, events.TypeJobScheduled)
	d.RegisterHandler("count-deleted", func(ctx context.Context, e events.DomainEvent) error {
		deleted++
		return nil
	}, events.TypeJobDeleted)

	job := schedule.Job{ID: "j1", Title: "Byt lås", Start: time.Now(), ResourceID: "u1"}
	if err := d.Dispatch(context.Background(), events.NewJobScheduled(job)); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if scheduled != 1 || deleted != 0 {
		t.Errorf("expected only the scheduled handler to fire, got %d/%d", scheduled, deleted)
	}
}

func TestDispatcher_WildcardSeesEverything(t *testing.T) {
	d := events.NewDispatcher()

	var all []string
	d.RegisterWildcard("tap", func(ctx context.Context, e events.DomainEvent) error {
		all = append(all, e.EventType())
		return nil
	})

	job := schedule.Job{ID: "j1", Title: "x", Start: time.Now(), ResourceID: "u1"}
	_ = d.Dispatch(context.Background(), events.NewJobScheduled(job))
	_ = d.Dispatch(context.Background(), events.NewJobDeleted("j1", "o1"))
	_ = d.Dispatch(context.Background(), events.NewBoardReloaded(0))

	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[1] != events.TypeJobDeleted {
		t.Errorf("expected %s second, got %s", events.TypeJobDeleted, all[1])
	}
}

func TestDispatcher_StopsAtFirstErrorByDefault(t *testing.T) {
	d := events.NewDispatcher()

	var secondRan bool
	d.RegisterHandler("boom", func(ctx context.Context, e events.DomainEvent) error {
		return errors.New("boom")
	}, events.TypeJobDeleted)
	d.RegisterHandler("after", func(ctx context.Context, e events.DomainEvent) error {
		secondRan = true
		return nil
	}, events.TypeJobDeleted)

	if err := d.Dispatch(context.Background(), events.NewJobDeleted("j1", "")); err == nil {
		t.Fatal("expected the handler error to surface")
	}
	if secondRan {
		t.Error("dispatch must stop at the first error by default")
	}
}

func TestDispatcher_ContinueOnErrorRunsAll(t *testing.T) {
	d := events.NewDispatcher()
	d.ContinueOnError = true

	var secondRan bool
	d.RegisterHandler("boom", func(ctx context.Context, e events.DomainEvent) error {
		return errors.New("boom")
	}, events.TypeJobDeleted)
	d.RegisterHandler("after", func(ctx context.Context, e events.DomainEvent) error {
		secondRan = true
		return nil
	}, events.TypeJobDeleted)

	if err := d.Dispatch(context.Background(), events.NewJobDeleted("j1", "")); err == nil {
		t.Fatal("the collected error must still surface")
	}
	if !secondRan {
		t.Error("ContinueOnError must run every handler")
	}
}
