// Package wiring constructs the application services for a workspace.
package wiring

import (
	"fmt"
	"time"

	"github.com/jalvemo/planera/internal/infrastructure/config"
	"github.com/jalvemo/planera/pkg/application"
	"github.com/jalvemo/planera/pkg/domain/events"
	"github.com/jalvemo/planera/pkg/domain/schedule"
	"github.com/jalvemo/planera/pkg/storage"
)

// AppServices bundles everything the CLI and TUI need.
type AppServices struct {
	Repo       *storage.FilesystemRepository
	State      *schedule.State
	Config     *config.BoardConfig
	Dispatcher *events.Dispatcher
	Audit      *application.AuditService
	Schedule   *application.ScheduleService
	Board      *application.BoardService
	Editor     *application.EditorService
	Importer   *application.ImportService
}

// BuildAppServices wires the services for the given workspace root.
func BuildAppServices(root string) (*AppServices, error) {
	repo := storage.NewFilesystemRepository(root)
	if !repo.IsInitialized() {
		return nil, fmt.Errorf("workspace is not initialized, run `planera init` first")
	}

	cfg, err := config.LoadBoardConfig(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load board config: %w", err)
	}
	if cfg == nil {
		cfg = config.DefaultBoardConfig()
	}

	state := schedule.NewState(schedule.Palette(cfg.Palette))
	dispatcher := events.NewDispatcher()
	audit := application.NewAuditService(repo)

	editor, err := application.NewEditorService(repo, state, audit, dispatcher, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build editor service: %w", err)
	}

	return &AppServices{
		Repo:       repo,
		State:      state,
		Config:     cfg,
		Dispatcher: dispatcher,
		Audit:      audit,
		Schedule:   application.NewScheduleService(repo, state, repo, repo, dispatcher, nil),
		Board:      application.NewBoardService(time.Duration(cfg.DefaultDurationMinutes) * time.Minute),
		Editor:     editor,
		Importer:   application.NewImportService(repo, state, audit),
	}, nil
}
