package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jalvemo/planera/pkg/domain/workorder"
)

var ordersSyncFile string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List work orders and their scheduling status",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		if ordersSyncFile != "" {
			data, err := os.ReadFile(ordersSyncFile) // #nosec G304 -- user-supplied sync file
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", ordersSyncFile, err)
			}
			var orders []workorder.Order
			if err := yaml.Unmarshal(data, &orders); err != nil {
				return fmt.Errorf("failed to parse %s: %w", ordersSyncFile, err)
			}
			if err := services.Repo.SaveOrders(orders); err != nil {
				return fmt.Errorf("failed to save order snapshot: %w", err)
			}
			if err := services.Audit.Log("orders.synced", "cli", map[string]interface{}{
				"source": ordersSyncFile,
				"count":  len(orders),
			}); err != nil {
				return fmt.Errorf("failed to record audit event: %w", err)
			}
			fmt.Printf("Synced %d orders from %s\n", len(orders), ordersSyncFile)
		}

		snapshot, err := services.Schedule.LoadBoard()
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}
		if len(snapshot.Orders) == 0 {
			fmt.Println("No work orders in the snapshot. Use --sync <file> to load some.")
			return nil
		}

		unassigned := make(map[string]bool, len(snapshot.Unassigned))
		for _, o := range snapshot.Unassigned {
			unassigned[o.ID] = true
		}

		fmt.Printf("Work orders (%d, %d unassigned)\n", len(snapshot.Orders), len(snapshot.Unassigned))
		for _, o := range snapshot.Orders {
			status := "scheduled"
			if unassigned[o.ID] {
				status = "unassigned"
			}
			line := fmt.Sprintf("  #%s  %-30s  %s", o.OrderNumber, o.Title, status)
			if o.CustomerName != "" {
				line += "  (" + o.CustomerName + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	ordersCmd.Flags().StringVar(&ordersSyncFile, "sync", "", "replace the order snapshot from a YAML file")
	RootCmd.AddCommand(ordersCmd)
}
