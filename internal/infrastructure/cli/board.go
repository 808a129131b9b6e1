package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jalvemo/planera/internal/infrastructure/tui"
	"github.com/jalvemo/planera/internal/infrastructure/watch"
)

var boardWatch bool

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive scheduling board",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("PLANERA_SKIP_BOARD_RUN") == "true" {
			return nil
		}

		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		services, err := loadServices(root)
		if err != nil {
			return err
		}

		var reloads chan struct{}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if boardWatch {
			reloads = make(chan struct{}, 1)
			watcher, err := watch.NewDataWatcher(500*time.Millisecond, func(watch.ChangeEvent) {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			if err := watcher.Watch(root); err != nil {
				return fmt.Errorf("failed to watch workspace: %w", err)
			}
			go func() {
				_ = watcher.Run(ctx)
			}()
		}

		model := tui.New(services.Schedule, services.Board, services.Editor, services.State, services.Config, reloads)
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("board run failed: %w", err)
		}
		return nil
	},
}

func init() {
	boardCmd.Flags().BoolVar(&boardWatch, "watch", false, "reload the board when the workspace changes on disk")
	RootCmd.AddCommand(boardCmd)
}
