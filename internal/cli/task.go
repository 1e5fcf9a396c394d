package cli

import (
	"fmt"
	"strings"

	"github.com/dori/worktrack/internal/app"
	"github.com/dori/worktrack/internal/model"
	"github.com/spf13/cobra"
)

func newStartCmd(opts *options) *cobra.Command {
	var at, project string

	cmd := &cobra.Command{
		Use:   "start <description>",
		Short: "Start a task",
		Long: `Start timing a task. Only one task can run at a time.

The start time defaults to now and the project to the one suggested by the
description's keywords.`,
		Example: `  worktrack start "Tutor algebra"
  worktrack start "Team meeting" --at "09:00 AM" --project "Trio Team Meeting"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")
			return withApp(opts, func(a *app.App) error {
				start := at
				if strings.TrimSpace(start) == "" {
					start = a.Tracker.Now()
				}
				p := project
				suggested := false
				if strings.TrimSpace(p) == "" {
					p = a.Tracker.SuggestProject(description)
					suggested = true
				}

				cur, err := a.Tracker.Start(description, start, p)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Started: %s\n", cur.Task)
				if suggested {
					fmt.Fprintf(out, "Project: %s (suggested)\n", cur.Project)
				} else {
					fmt.Fprintf(out, "Project: %s\n", cur.Project)
				}
				fmt.Fprintf(out, "Start:   %s on %s\n", cur.StartTime, cur.Date)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "start time, e.g. 09:00 AM or 13:30 (default now)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "project ID (default suggested from the description)")
	return cmd
}

func newCompleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "complete [end time]",
		Aliases: []string{"stop", "done"},
		Short:   "Complete the running task",
		Long:    `Complete the running task and add it to the work log. The end time defaults to now.`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			end := ""
			if len(args) == 1 {
				end = args[0]
			}
			return withApp(opts, func(a *app.App) error {
				rec, err := a.Tracker.Complete(end)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s (%s - %s, %s)\n",
					rec.Task, rec.StartTime, rec.EndTime, rec.Duration)
				return nil
			})
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running task, if any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				status, cur, err := a.Tracker.Current()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), statusLine(status, cur))
				return nil
			})
		},
	}
}

func statusLine(status model.Status, cur *model.CurrentTask) string {
	if status != model.StatusRunning {
		return "No task running"
	}
	return fmt.Sprintf("Current Task: %s (Project: %s), started %s on %s",
		cur.Task, cur.Project, cur.StartTime, cur.Date)
}
