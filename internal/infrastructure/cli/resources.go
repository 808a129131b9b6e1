package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jalvemo/planera/pkg/domain/directory"
)

var resourcesSyncFile string

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the schedulable resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		if resourcesSyncFile != "" {
			data, err := os.ReadFile(resourcesSyncFile) // #nosec G304 -- user-supplied sync file
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", resourcesSyncFile, err)
			}
			var resources []directory.Resource
			if err := yaml.Unmarshal(data, &resources); err != nil {
				return fmt.Errorf("failed to parse %s: %w", resourcesSyncFile, err)
			}
			if err := services.Repo.SaveResources(resources); err != nil {
				return fmt.Errorf("failed to save resource snapshot: %w", err)
			}
			if err := services.Audit.Log("resources.synced", "cli", map[string]interface{}{
				"source": resourcesSyncFile,
				"count":  len(resources),
			}); err != nil {
				return fmt.Errorf("failed to record audit event: %w", err)
			}
			fmt.Printf("Synced %d resources from %s\n", len(resources), resourcesSyncFile)
		}

		snapshot, err := services.Schedule.LoadBoard()
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}
		if len(snapshot.Resources) == 0 {
			fmt.Println("No resources in the snapshot. Use --sync <file> to load some.")
			return nil
		}

		jobCounts := make(map[string]int)
		for _, j := range snapshot.Jobs {
			jobCounts[j.ResourceID]++
		}

		fmt.Printf("Resources (%d)\n", len(snapshot.Resources))
		for _, r := range snapshot.Resources {
			fmt.Printf("  %-24s  %s  (%d jobs)\n", r.DisplayName, r.ID, jobCounts[r.ID])
		}
		return nil
	},
}

func init() {
	resourcesCmd.Flags().StringVar(&resourcesSyncFile, "sync", "", "replace the resource snapshot from a YAML file")
	RootCmd.AddCommand(resourcesCmd)
}
