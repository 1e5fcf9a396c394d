package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dori/worktrack/internal/classify"
	"github.com/dori/worktrack/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <description>",
		Short: "Suggest a project for a task description",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), classify.Suggest(strings.Join(args, " ")))
		},
	}
}

func newProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the predefined projects and their keywords",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, c := range classify.Table() {
				if len(c.Keywords) == 0 {
					fmt.Fprintf(out, "%-24s (fallback)\n", c.Name)
					continue
				}
				fmt.Fprintf(out, "%-24s %s\n", c.Name, strings.Join(c.Keywords, ", "))
			}
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage worktrack configuration",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := opts.load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the configuration file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), configPath(opts))
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a default configuration file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := configPath(opts)
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists", path)
				}
				if err := config.WriteDefault(path); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			},
		},
	)
	return configCmd
}

func configPath(opts *options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.DefaultPath()
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "worktrack v%s\n", version)
		},
	}
}
