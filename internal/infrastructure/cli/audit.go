package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jalvemo/planera/pkg/application"
	"github.com/jalvemo/planera/pkg/storage"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit and verify schedule history",
}

var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the schedule change history",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		service := application.NewAuditService(storage.NewFilesystemRepository(root))

		events, err := service.Timeline()
		if err != nil {
			return fmt.Errorf("failed to load audit trail: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No recorded events.")
			return nil
		}

		for _, e := range events {
			fmt.Printf("%s  %-20s  %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor)
		}
		return nil
	},
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the integrity of the schedule audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		service := application.NewAuditService(storage.NewFilesystemRepository(root))

		fmt.Println("Verifying audit trail integrity...")
		violations, err := service.VerifyIntegrity()
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}

		if len(violations) == 0 {
			fmt.Println("Audit trail is intact and verified.")
			return nil
		}

		fmt.Printf("Found %d integrity violations:\n", len(violations))
		for _, v := range violations {
			fmt.Printf("  - %s\n", v)
		}
		os.Exit(1)
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditLogCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	RootCmd.AddCommand(auditCmd)
}
