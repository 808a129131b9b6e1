package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "planera",
	Version: Version,
	Short:   "A scheduling board for service-trades work orders",
	Long: `Planera keeps the daily schedule of a service-trades business.
It answers three questions from the workspace data:
1. What jobs are planned, and for whom?
2. Which work orders have no job on the board yet?
3. Who changed what, and when?`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&projectPath, "project", "", "workspace root (defaults to the current directory)")
}
