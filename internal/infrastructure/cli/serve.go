package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jalvemo/planera/internal/infrastructure/watch"
	"github.com/jalvemo/planera/internal/infrastructure/webhook"
	"github.com/jalvemo/planera/pkg/infrastructure/dashboard"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only schedule dashboard",
	Long: `Serve starts an HTTP server with the current board as HTML and JSON,
plus live event streams on /events (SSE) and /ws (WebSocket). The page
follows external edits to the workspace data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		services, err := loadServices(root)
		if err != nil {
			return err
		}
		if _, err := services.Schedule.LoadBoard(); err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		server, err := dashboard.NewServer(serveAddr, services.Schedule, services.Dispatcher, logger)
		if err != nil {
			return fmt.Errorf("failed to build dashboard: %w", err)
		}

		if len(services.Config.Webhooks) > 0 {
			dlPath, err := services.Repo.ResolvePath("webhook_deadletter.jsonl")
			if err != nil {
				return err
			}
			notifier := webhook.NewNotifier(services.Config.Webhooks, webhook.NewDeadLetterStore(dlPath))
			notifier.Register(services.Dispatcher)
			logger.Info("webhook notifier enabled", "endpoints", len(services.Config.Webhooks))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Reloading on disk changes re-derives the snapshot and emits a
		// board.reloaded event to connected stream clients.
		watcher, err := watch.NewDataWatcher(500*time.Millisecond, func(watch.ChangeEvent) {
			if _, err := services.Schedule.LoadBoard(); err != nil {
				logger.Error("reload after workspace change failed", "error", err)
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

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("dashboard server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8745", "listen address for the dashboard")
	RootCmd.AddCommand(serveCmd)
}
