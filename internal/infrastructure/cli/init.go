package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jalvemo/planera/internal/infrastructure/config"
	"github.com/jalvemo/planera/pkg/application"
	"github.com/jalvemo/planera/pkg/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a planera workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		repo := storage.NewFilesystemRepository(root)
		if repo.IsInitialized() {
			fmt.Println("Workspace is already initialized.")
			return nil
		}

		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}
		if err := config.SaveBoardConfig(root, config.DefaultBoardConfig()); err != nil {
			return fmt.Errorf("failed to write board config: %w", err)
		}

		audit := application.NewAuditService(repo)
		if err := audit.Log("workspace.initialized", "cli", nil); err != nil {
			return fmt.Errorf("failed to record audit event: %w", err)
		}

		fmt.Printf("Initialized planera workspace in %s/%s\n", root, storage.PlaneraDir)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
