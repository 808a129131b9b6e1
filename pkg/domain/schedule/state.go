package schedule

import "fmt"

// State is the single in-memory source of truth for what is scheduled on
// the visible board, and the only place allowed to mutate that truth. It
// also owns the session-scoped color assignment per resource.
//
// Colors are cosmetic best-effort: they are recomputed from first-seen
// order on every full Load, so a resource is not guaranteed the same
// color across reloads if the store returns jobs in a different order.
type State struct {
	jobs    []Job
	palette Palette
	colors  map[string]string
	seen    int
}

// NewState creates an empty schedule state. A nil palette falls back to
// DefaultPalette.
func NewState(palette Palette) *State {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &State{
		palette: palette,
		colors:  make(map[string]string),
	}
}

// Load replaces the full job set and refreshes resource colors by
// first-seen order within jobs. An empty list is valid.
func (s *State) Load(jobs []Job) {
	s.jobs = make([]Job, len(jobs))
	copy(s.jobs, jobs)

	s.colors = make(map[string]string)
	s.seen = 0
	for _, j := range jobs {
		if j.ResourceID != "" {
			s.ColorFor(j.ResourceID)
		}
	}
}

// Upsert replaces the entry with a matching ID, or appends when no entry
// has that ID. The set never ends up with two entries sharing an ID.
func (s *State) Upsert(job Job) error {
	if job.ID == "" {
		return fmt.Errorf("cannot upsert a job without an ID")
	}
	for i, existing := range s.jobs {
		if existing.ID == job.ID {
			s.jobs[i] = job
			return nil
		}
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Remove deletes the entry with the given ID. Removing an absent ID is a
// no-op, not an error.
func (s *State) Remove(id string) {
	for i, j := range s.jobs {
		if j.ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return
		}
	}
}

// ColorFor returns the cached color for a resource, assigning the next
// unused palette slot when the resource has not been seen this session.
func (s *State) ColorFor(resourceID string) string {
	if c, ok := s.colors[resourceID]; ok {
		return c
	}
	c := s.palette.At(s.seen)
	s.colors[resourceID] = c
	s.seen++
	return c
}

// Jobs returns a copy of the current job set.
func (s *State) Jobs() []Job {
	out := make([]Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// JobByID looks up a job by ID.
func (s *State) JobByID(id string) (Job, bool) {
	for _, j := range s.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}

// Len returns the number of scheduled jobs.
func (s *State) Len() int {
	return len(s.jobs)
}
