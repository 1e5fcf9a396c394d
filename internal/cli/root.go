package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dori/worktrack/internal/app"
	"github.com/dori/worktrack/internal/config"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command
type options struct {
	configPath string
	dataDir    string
	backend    string
}

func newRootCmd(version string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "worktrack",
		Short: "worktrack - personal work time tracker",
		Long: `worktrack records what you work on and for how long.

Start a task, complete it, and the timed record is kept in your work log.
The log can be edited, summarised per project, and exported as a
spreadsheet. Run without a command to open the interactive tracker.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, "", "tracker")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding the work log")
	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "storage backend: json or sqlite")

	rootCmd.AddCommand(
		newStartCmd(opts),
		newCompleteCmd(opts),
		newStatusCmd(opts),
		newListCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newClearCmd(opts),
		newExportCmd(opts),
		newSummaryCmd(opts),
		newSuggestCmd(),
		newProjectsCmd(),
		newConfigCmd(opts),
		newTUICmd(opts),
		newVersionCmd(version),
	)
	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.backend != "" {
		cfg.Storage.Backend = o.backend
	}
	return cfg, cfg.Validate()
}

// withApp opens the app for the duration of fn
func withApp(o *options, fn func(*app.App) error) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// confirm asks a yes/no question on the command's input. Anything other
// than y or yes is a no.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
