package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/worktrack/internal/app"
	"github.com/dori/worktrack/internal/ui"
	"github.com/dori/worktrack/internal/ui/theme"
	"github.com/spf13/cobra"
)

func newTUICmd(opts *options) *cobra.Command {
	var themeName, view string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive tracker (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, themeName, view)
		},
	}

	cmd.Flags().StringVar(&themeName, "theme", "", "theme name (nord, dracula, gruvbox, catppuccin)")
	cmd.Flags().StringVar(&view, "view", "tracker", "starting view (tracker, log, summary)")
	return cmd
}

func runTUI(opts *options, themeName, view string) error {
	return withApp(opts, func(a *app.App) error {
		if err := a.AcquireInstanceLock(); err != nil {
			return err
		}

		if themeName == "" {
			themeName = a.Config.UI.Theme
		}
		if themeName != "" {
			t, ok := theme.ByName(themeName)
			if !ok {
				return fmt.Errorf("unknown theme %q", themeName)
			}
			theme.SetTheme(t)
		}

		model, err := ui.NewRootModel(a, view)
		if err != nil {
			return err
		}

		p := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)

		_, err = p.Run()
		return err
	})
}
