package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the global keybindings. Per-view keys are handled by
// the views themselves.
type KeyMap struct {
	// Views
	TrackerView key.Binding
	LogView     key.Binding
	SummaryView key.Binding
	NextView    key.Binding

	Export        key.Binding
	ThemeCycle    key.Binding
	Notifications key.Binding
	Help          key.Binding
	Quit          key.Binding
	Back          key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		TrackerView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "tracker"),
		),
		LogView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "log"),
		),
		SummaryView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "summary"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),

		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "notifications"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TrackerView, k.LogView, k.SummaryView, k.NextView},
		{k.Export, k.ThemeCycle, k.Notifications},
		{k.Help, k.Quit},
	}
}
