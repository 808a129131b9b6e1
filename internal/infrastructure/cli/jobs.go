package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jalvemo/planera/pkg/domain/directory"
	"github.com/jalvemo/planera/pkg/domain/workorder"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and manage scheduled jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all scheduled jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		snapshot, err := services.Schedule.LoadBoard()
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		if len(snapshot.Jobs) == 0 {
			fmt.Println("No jobs scheduled.")
			return nil
		}

		resourcesByID := directory.Index(snapshot.Resources)
		ordersByID := workorder.Index(snapshot.Orders)

		columns := []table.Column{
			{Title: "ID", Width: 36},
			{Title: "When", Width: 22},
			{Title: "Title", Width: 28},
			{Title: "Resource", Width: 16},
			{Title: "Order", Width: 8},
		}

		rows := []table.Row{}
		for _, job := range snapshot.Jobs {
			when := job.Start.Format("2006-01-02 15:04")
			if job.AllDay {
				when = job.Start.Format("2006-01-02") + " (all day)"
			} else if !job.EffectiveEnd().Equal(job.Start) {
				when += "-" + job.EffectiveEnd().Format("15:04")
			}

			resource := job.ResourceID
			if r, ok := resourcesByID[job.ResourceID]; ok {
				resource = r.DisplayName
			}
			order := ""
			if o, ok := ordersByID[job.OrderID]; ok {
				order = "#" + o.OrderNumber
			}

			rows = append(rows, table.Row{job.ID, when, job.Title, resource, order})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithHeight(len(rows)+1),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Bold(true)
		s.Selected = lipgloss.NewStyle() // Disable selection style for static view
		t.SetStyles(s)

		fmt.Printf("Scheduled jobs (%d)\n", len(rows))
		fmt.Println(t.View())
		return nil
	},
}

var jobsRmCmd = &cobra.Command{
	Use:   "rm <job-id>",
	Short: "Delete a scheduled job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if _, err := services.Schedule.LoadBoard(); err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		id := args[0]
		job, ok := services.State.JobByID(id)
		if !ok {
			return fmt.Errorf("job %q not found", id)
		}

		if err := services.Editor.Open(services.Board.EditDraft(job)); err != nil {
			return err
		}
		if err := services.Editor.DeleteCommitted(); err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}

		fmt.Printf("Deleted job %s (%s)\n", id, job.Title)
		if job.OrderID != "" {
			fmt.Printf("Order %s is unassigned again.\n", job.OrderID)
		}
		return nil
	},
}

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsRmCmd)
	RootCmd.AddCommand(jobsCmd)
}
