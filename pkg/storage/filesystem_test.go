package storage_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jalvemo/planera/pkg/domain"
	"github.com/jalvemo/planera/pkg/domain/directory"
	"github.com/jalvemo/planera/pkg/domain/schedule"
	"github.com/jalvemo/planera/pkg/domain/workorder"
	"github.com/jalvemo/planera/pkg/storage"
)

func newRepo(t *testing.T) *storage.FilesystemRepository {
	t.Helper()
	repo := storage.NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return repo
}

func TestFilesystemRepository_JobRoundTrip(t *testing.T) {
	repo := newRepo(t)

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	id, err := repo.InsertJob(schedule.Job{
		Title: "Byte av kran", Start: start, End: start.Add(2 * time.Hour),
		ResourceID: "u1", OrderID: "o1", Description: "kund hemma efter 08",
	})
	if err != nil {
		t.Fatalf("InsertJob failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	jobs, err := repo.ListJobs()
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	got := jobs[0]
	if got.ID != id || got.Title != "Byte av kran" || !got.Start.Equal(start) ||
		got.ResourceID != "u1" || got.OrderID != "o1" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestFilesystemRepository_ListJobsOnEmptyWorkspace(t *testing.T) {
	repo := newRepo(t)
	jobs, err := repo.ListJobs()
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("a missing jobs file is an empty schedule, got %d", len(jobs))
	}
}

func TestFilesystemRepository_InsertNormalizesEmptyEnd(t *testing.T) {
	repo := newRepo(t)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	if _, err := repo.InsertJob(schedule.Job{Title: "Byt lås", Start: start, ResourceID: "u1"}); err != nil {
		t.Fatalf("InsertJob failed: %v", err)
	}
	jobs, _ := repo.ListJobs()
	if !jobs[0].End.Equal(start) {
		t.Errorf("empty end must persist as the start time, got %v", jobs[0].End)
	}
}

func TestFilesystemRepository_UpdateReplacesByID(t *testing.T) {
	repo := newRepo(t)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	id, _ := repo.InsertJob(schedule.Job{Title: "Byt lås", Start: start, ResourceID: "u1"})

	err := repo.UpdateJob(id, schedule.Job{Title: "Byt lås och cylinder", Start: start, ResourceID: "u2"})
	if err != nil {
		t.Fatalf("UpdateJob failed: %v", err)
	}
	jobs, _ := repo.ListJobs()
	if len(jobs) != 1 || jobs[0].Title != "Byt lås och cylinder" || jobs[0].ResourceID != "u2" {
		t.Errorf("update did not replace the entry: %+v", jobs)
	}
	if jobs[0].ID != id {
		t.Errorf("update must preserve the id, got %s", jobs[0].ID)
	}
}

func TestFilesystemRepository_UpdateMissingIDFails(t *testing.T) {
	repo := newRepo(t)
	err := repo.UpdateJob("nope", schedule.Job{Title: "x", Start: time.Now(), ResourceID: "u1"})
	var sErr *schedule.StoreError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}

func TestFilesystemRepository_DeleteJob(t *testing.T) {
	repo := newRepo(t)
	id, _ := repo.InsertJob(schedule.Job{Title: "Byt lås", Start: time.Now(), ResourceID: "u1"})

	if err := repo.DeleteJob(id); err != nil {
		t.Fatalf("DeleteJob failed: %v", err)
	}
	jobs, _ := repo.ListJobs()
	if len(jobs) != 0 {
		t.Errorf("expected empty schedule after delete, got %d", len(jobs))
	}

	var sErr *schedule.StoreError
	if err := repo.DeleteJob(id); !errors.As(err, &sErr) {
		t.Errorf("deleting a missing id must surface a StoreError, got %v", err)
	}
}

func TestFilesystemRepository_SnapshotRoundTrip(t *testing.T) {
	repo := newRepo(t)

	resources := []directory.Resource{{ID: "u1", DisplayName: "Anna"}, {ID: "u2", DisplayName: "Berit"}}
	if err := repo.SaveResources(resources); err != nil {
		t.Fatalf("SaveResources failed: %v", err)
	}
	orders := []workorder.Order{{ID: "o1", OrderNumber: "0007", Title: "Byt lås", CustomerName: "Kund AB"}}
	if err := repo.SaveOrders(orders); err != nil {
		t.Fatalf("SaveOrders failed: %v", err)
	}

	gotResources, err := repo.ListResources()
	if err != nil {
		t.Fatalf("ListResources failed: %v", err)
	}
	if len(gotResources) != 2 || gotResources[0].DisplayName != "Anna" {
		t.Errorf("resource snapshot mismatch: %+v", gotResources)
	}
	gotOrders, err := repo.ListOrders()
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(gotOrders) != 1 || gotOrders[0].CustomerName != "Kund AB" {
		t.Errorf("order snapshot mismatch: %+v", gotOrders)
	}
}

func TestFilesystemRepository_EventTrail(t *testing.T) {
	repo := newRepo(t)

	e := domain.Event{ID: "e1", Timestamp: time.Now(), Action: "job.scheduled", Actor: "board"}
	e.Hash = e.CalculateHash()
	if err := repo.RecordEvent(e); err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}

	events, err := repo.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].Action != "job.scheduled" {
		t.Errorf("event trail mismatch: %+v", events)
	}
}

func TestFilesystemRepository_ResolvePathRejectsTraversal(t *testing.T) {
	repo := storage.NewFilesystemRepository(t.TempDir())
	for _, bad := range []string{"", "../escape.json", "nested/dir.json"} {
		if _, err := repo.ResolvePath(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}
