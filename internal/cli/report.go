package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dori/worktrack/internal/app"
	"github.com/dori/worktrack/internal/model"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "export",
		Aliases: []string{"report"},
		Short:   "Write the work log to an .xlsx spreadsheet",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				path, err := a.Export(dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report generated: %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default report.dir, or the current directory)")
	return cmd
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show time logged per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				snap, err := a.Tracker.Snapshot()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(snap.CompletedTasks) == 0 {
					fmt.Fprintln(out, "No completed tasks")
					return nil
				}

				var rows [][]string
				for _, p := range model.Totals(snap.CompletedTasks) {
					rows = append(rows, []string{p.Project, fmt.Sprint(p.Tasks), p.Duration()})
				}
				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("Project ID", "Tasks", "Time").
					Rows(rows...)
				fmt.Fprintln(out, t.String())

				fmt.Fprintf(out, "Total: %s across %d tasks\n", snap.Total(), len(snap.CompletedTasks))
				return nil
			})
		},
	}
}
