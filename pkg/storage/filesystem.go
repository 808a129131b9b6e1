// Package storage persists planera artifacts in the .planera/ directory:
// scheduled jobs, cached snapshots of the external directory and order
// services, and the audit trail.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/google/uuid"

	"github.com/jalvemo/planera/pkg/domain/schedule"
)

const PlaneraDir = ".planera"
const JobsFile = "jobs.json"
const ResourcesFile = "resources.yaml"
const OrdersFile = "orders.yaml"
const EventsFile = "events.jsonl"
const BoardConfigFile = "board.yaml"

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is within the .planera directory and
// prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, PlaneraDir)
	fullPath := filepath.Join(baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, PlaneraDir)
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create .planera directory: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, PlaneraDir))
	return err == nil
}

// ListJobs loads the full persisted job list. A missing jobs file is an
// empty schedule, not an error.
func (r *FilesystemRepository) ListJobs() ([]schedule.Job, error) {
	retryer := retry.New[[]schedule.Job](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) ([]schedule.Job, error) {
		path, err := r.ResolvePath(JobsFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return []schedule.Job{}, nil
			}
			return nil, fmt.Errorf("failed to read jobs file: %w", err)
		}

		var jobs []schedule.Job
		if err := json.Unmarshal(data, &jobs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal jobs: %w", err)
		}

		return jobs, nil
	})
}

// InsertJob persists a new job and returns its generated ID.
func (r *FilesystemRepository) InsertJob(job schedule.Job) (string, error) {
	jobs, err := r.ListJobs()
	if err != nil {
		return "", &schedule.StoreError{Op: "insert", Err: err}
	}

	job.ID = uuid.New().String()
	jobs = append(jobs, job.Normalized())

	if err := r.saveJobs(jobs); err != nil {
		return "", &schedule.StoreError{Op: "insert", Err: err}
	}
	return job.ID, nil
}

// UpdateJob replaces the persisted job with the given ID.
func (r *FilesystemRepository) UpdateJob(id string, job schedule.Job) error {
	jobs, err := r.ListJobs()
	if err != nil {
		return &schedule.StoreError{Op: "update", Err: err}
	}

	for i, existing := range jobs {
		if existing.ID == id {
			job.ID = id
			jobs[i] = job.Normalized()
			if err := r.saveJobs(jobs); err != nil {
				return &schedule.StoreError{Op: "update", Err: err}
			}
			return nil
		}
	}
	return &schedule.StoreError{Op: "update", Err: fmt.Errorf("job %s not found", id)}
}

// DeleteJob removes the persisted job with the given ID.
func (r *FilesystemRepository) DeleteJob(id string) error {
	jobs, err := r.ListJobs()
	if err != nil {
		return &schedule.StoreError{Op: "delete", Err: err}
	}

	for i, existing := range jobs {
		if existing.ID == id {
			jobs = append(jobs[:i], jobs[i+1:]...)
			if err := r.saveJobs(jobs); err != nil {
				return &schedule.StoreError{Op: "delete", Err: err}
			}
			return nil
		}
	}
	return &schedule.StoreError{Op: "delete", Err: fmt.Errorf("job %s not found", id)}
}

func (r *FilesystemRepository) saveJobs(jobs []schedule.Job) error {
	path, err := r.ResolvePath(JobsFile)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal jobs: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Compile-time check that the repository satisfies the domain port.
var _ schedule.Repository = (*FilesystemRepository)(nil)
