package schedule

// Repository is the persistence boundary for scheduled jobs. Insert,
// update and delete fail with a *StoreError that the editor surfaces
// verbatim; no retry policy is imposed here.
type Repository interface {
	// ListJobs hydrates the schedule state on load.
	ListJobs() ([]Job, error)
	// InsertJob persists a job without an ID and returns the generated ID.
	InsertJob(job Job) (string, error)
	// UpdateJob replaces the persisted job with the given ID.
	UpdateJob(id string, job Job) error
	// DeleteJob removes the persisted job with the given ID.
	DeleteJob(id string) error
}
