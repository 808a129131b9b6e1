package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import jobs from a JSON file",
	Long: `Import validates the file against the job schema and appends every
job to the schedule. A file with any invalid entry is rejected whole.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if _, err := services.Schedule.LoadBoard(); err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		ids, err := services.Importer.ImportFile(args[0])
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Printf("Imported %d jobs from %s\n", len(ids), args[0])
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(importCmd)
}
