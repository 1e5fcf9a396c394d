package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dori/worktrack/internal/app"
	"github.com/dori/worktrack/internal/model"
	"github.com/dori/worktrack/internal/tracker"
	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "log"},
		Short:   "Show the work log",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				records, err := a.Tracker.Records()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					if records == nil {
						records = []model.Record{}
					}
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(records)
				}
				if len(records) == 0 {
					fmt.Fprintln(out, "No completed tasks")
					return nil
				}
				writeLog(out, records)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func writeLog(w io.Writer, records []model.Record) {
	rows := make([][]string, len(records))
	for i := range records {
		r := &records[i]
		rows[i] = []string{strconv.Itoa(i + 1), r.ShortID(), r.Date, r.ProjectID, r.Task, r.StartTime, r.EndTime, r.Duration}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "Date", "Project ID", "Task", "Start Time", "End Time", "Duration").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

func newEditCmd(opts *options) *cobra.Command {
	var task, project, start, end string

	cmd := &cobra.Command{
		Use:   "edit <# or id>",
		Short: "Edit a completed task",
		Long: `Edit the description, project, or times of a completed task. Fields
not given keep their current value. The duration is recalculated.`,
		Example: `  worktrack edit 2 --end "11:45 AM"
  worktrack edit 3f9c --task "Tutor geometry" --project Tutoring`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				records, err := a.Tracker.Records()
				if err != nil {
					return err
				}
				rec, err := tracker.Resolve(records, args[0])
				if err != nil {
					return err
				}

				change := tracker.Change{
					Task:      rec.Task,
					ProjectID: rec.ProjectID,
					StartTime: rec.StartTime,
					EndTime:   rec.EndTime,
				}
				flags := cmd.Flags()
				if flags.Changed("task") {
					change.Task = task
				}
				if flags.Changed("project") {
					change.ProjectID = project
				}
				if flags.Changed("start") {
					change.StartTime = start
				}
				if flags.Changed("end") {
					change.EndTime = end
				}

				updated, err := a.Tracker.Edit(rec.ID, change)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s (%s - %s, %s)\n",
					updated.Task, updated.StartTime, updated.EndTime, updated.Duration)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "new description")
	cmd.Flags().StringVarP(&project, "project", "p", "", "new project ID")
	cmd.Flags().StringVar(&start, "start", "", "new start time")
	cmd.Flags().StringVar(&end, "end", "", "new end time")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <# or id>",
		Aliases: []string{"rm"},
		Short:   "Delete a completed task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				records, err := a.Tracker.Records()
				if err != nil {
					return err
				}
				rec, err := tracker.Resolve(records, args[0])
				if err != nil {
					return err
				}

				if !yes {
					ok, err := confirm(cmd, fmt.Sprintf("Delete %q (%s, %s)?", rec.Task, rec.Date, rec.Duration))
					if err != nil || !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
						return err
					}
				}

				if err := a.Tracker.Delete(rec.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", rec.Task)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newClearCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Long:  `Delete every completed task. A running task is kept.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				records, err := a.Tracker.Records()
				if err != nil {
					return err
				}
				if len(records) == 0 {
					return tracker.ErrNothingToClear
				}

				if !yes {
					ok, err := confirm(cmd, fmt.Sprintf("Clear all %d tasks?", len(records)))
					if err != nil || !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
						return err
					}
				}

				n, err := a.Tracker.ClearAll()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d tasks\n", n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
