package application

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jalvemo/planera/pkg/domain"
	"github.com/jalvemo/planera/pkg/domain/schedule"
)

const jobImportSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "start", "resource_id"],
    "properties": {
      "title": { "type": "string", "minLength": 1 },
      "start": { "type": "string", "format": "date-time" },
      "end": { "type": "string" },
      "all_day": { "type": "boolean" },
      "order_id": { "type": "string" },
      "resource_id": { "type": "string", "minLength": 1 },
      "description": { "type": "string" }
    }
  }
}`

var jobImportSchemaLoader = gojsonschema.NewStringLoader(jobImportSchemaJSON)

// ImportService bulk-inserts jobs from an external JSON dump, validated
// against the import schema before anything touches the store.
type ImportService struct {
	repo  schedule.Repository
	state *schedule.State
	audit domain.AuditLogger
}

func NewImportService(repo schedule.Repository, state *schedule.State, audit domain.AuditLogger) *ImportService {
	return &ImportService{repo: repo, state: state, audit: audit}
}

// ImportFile validates and inserts every job in the given file and
// returns the generated IDs. A schema violation rejects the whole file;
// no partial import happens on invalid input.
func (s *ImportService) ImportFile(path string) ([]string, error) {
	// #nosec G304 -- Path is user-provided on the CLI by design
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	return s.Import(data)
}

// Import validates and inserts every job in the given JSON document.
func (s *ImportService) Import(data []byte) ([]string, error) {
	documentLoader := gojsonschema.NewStringLoader(string(data))
	result, err := gojsonschema.Validate(jobImportSchemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate import document: %w", err)
	}
	if !result.Valid() {
		msgs := ""
		for _, desc := range result.Errors() {
			msgs += "\n  - " + desc.String()
		}
		return nil, fmt.Errorf("import document does not match the job schema:%s", msgs)
	}

	var jobs []schedule.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal import document: %w", err)
	}

	// Domain validation covers what the schema cannot (end >= start).
	// Every entry is checked before the first insert so a failed import
	// writes nothing.
	for i := range jobs {
		jobs[i].ID = ""
		if err := jobs[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	ids := make([]string, 0, len(jobs))
	for _, job := range jobs {
		id, err := s.repo.InsertJob(job.Normalized())
		if err != nil {
			return ids, err
		}
		job.ID = id
		if upsertErr := s.state.Upsert(job.Normalized()); upsertErr != nil {
			return ids, upsertErr
		}
		ids = append(ids, id)
	}

	if s.audit != nil && len(ids) > 0 {
		_ = s.audit.Log("jobs.imported", "import", map[string]interface{}{"count": len(ids)})
	}
	return ids, nil
}
