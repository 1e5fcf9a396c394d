package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/worktrack/internal/app"
	"github.com/dori/worktrack/internal/debuglog"
	"github.com/dori/worktrack/internal/ui/theme"
	"github.com/dori/worktrack/internal/ui/views"
)

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView View
	trackerView views.TrackerView
	logView     views.LogView
	summaryView views.SummaryView
	helpVisible bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model opened on the named view
func NewRootModel(application *app.App, view string) (RootModel, error) {
	start, ok := ParseView(view)
	if !ok {
		return RootModel{}, fmt.Errorf("unknown view %q (want tracker, log or summary)", view)
	}

	h := help.New()
	h.ShowAll = true

	export := func() (string, error) {
		return application.Export("")
	}

	return RootModel{
		app:         application,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: start,
		trackerView: views.NewTrackerView(application.Tracker),
		logView:     views.NewLogView(application.Tracker, export),
		summaryView: views.NewSummaryView(application.Tracker),
	}, nil
}

// Init loads every view so switching is instant
func (m RootModel) Init() tea.Cmd {
	debuglog.Printf("ui: init on %s view", m.currentView)
	return tea.Batch(m.trackerView.Init(), m.logView.Init(), m.summaryView.Init())
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewTracker:
		return m.trackerView.IsInputMode()
	case ViewLog:
		return m.logView.IsInputMode()
	case ViewSummary:
		return m.summaryView.IsInputMode()
	}
	return false
}

// switchTo changes view and reloads it, since the other views may have
// changed the log in the meantime.
func (m RootModel) switchTo(v View) (RootModel, tea.Cmd) {
	m.currentView = v
	m.helpVisible = false
	switch v {
	case ViewTracker:
		return m, m.trackerView.Refresh()
	case ViewLog:
		return m, m.logView.Init()
	case ViewSummary:
		return m, m.summaryView.Init()
	}
	return m, nil
}

func (m RootModel) export() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		path, err := a.Export("")
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: "Report generated: " + path}
	}
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (2 lines) and footer (2 lines)
		contentHeight := m.height - 4
		m.trackerView = m.trackerView.SetSize(m.width, contentHeight)
		m.logView = m.logView.SetSize(m.width, contentHeight)
		m.summaryView = m.summaryView.SetSize(m.width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, q only outside text entry
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			name := cycleTheme()
			return m, func() tea.Msg { return ThemeChangedMsg{ThemeName: name} }
		}

		if isInputMode {
			return m.updateCurrent(msg)
		}

		if m.helpVisible {
			if key.Matches(msg, m.keys.Help, m.keys.Back) {
				m.helpVisible = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = true
			return m, nil
		case key.Matches(msg, m.keys.TrackerView):
			return m.switchTo(ViewTracker)
		case key.Matches(msg, m.keys.LogView):
			return m.switchTo(ViewLog)
		case key.Matches(msg, m.keys.SummaryView):
			return m.switchTo(ViewSummary)
		case key.Matches(msg, m.keys.NextView):
			return m.switchTo((m.currentView + 1) % (ViewSummary + 1))
		case key.Matches(msg, m.keys.Export):
			return m, m.export()
		case key.Matches(msg, m.keys.Notifications):
			m.statusMsg = m.toggleNotifications()
			return m, nil
		}
		return m.updateCurrent(msg)

	case ErrorMsg:
		debuglog.Printf("ui: error: %v", msg.Err)
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	// Results of background loads go to every view; each ignores the
	// messages of the others. This keeps the tracker's refresh tick alive
	// while another view is showing.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	var next tea.Model

	next, cmd = m.trackerView.Update(msg)
	m.trackerView = next.(views.TrackerView)
	cmds = append(cmds, cmd)

	next, cmd = m.logView.Update(msg)
	m.logView = next.(views.LogView)
	cmds = append(cmds, cmd)

	next, cmd = m.summaryView.Update(msg)
	m.summaryView = next.(views.SummaryView)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// updateCurrent delegates a key press to the active view
func (m RootModel) updateCurrent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var next tea.Model
	switch m.currentView {
	case ViewTracker:
		next, cmd = m.trackerView.Update(msg)
		m.trackerView = next.(views.TrackerView)
	case ViewLog:
		next, cmd = m.logView.Update(msg)
		m.logView = next.(views.LogView)
	case ViewSummary:
		next, cmd = m.summaryView.Update(msg)
		m.summaryView = next.(views.SummaryView)
	}
	return m, cmd
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewTracker:
			content = m.trackerView.View()
		case ViewLog:
			content = m.logView.View()
		case ViewSummary:
			content = m.summaryView.View()
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("worktrack")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", m.currentView.String()))

	// Running indicator, visible from every view
	var running string
	if m.trackerView.Running() {
		running = lipgloss.NewStyle().Foreground(t.StatusRunning).Bold(true).Render("● running")
	} else {
		running = lipgloss.NewStyle().Foreground(t.StatusIdle).Render("○ idle")
	}

	themeIndicator := viewStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator, running)
	rightSide := themeIndicator

	gap := max(m.width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 0)
	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1, line2 string
	switch m.currentView {
	case ViewTracker:
		if m.trackerView.IsInputMode() {
			line1 = key("enter", "submit") + sep +
				key("tab", "next field") + sep +
				key("ctrl+n", "now") + sep +
				key("esc", "done")
		} else {
			line1 = key("e", "edit form") + sep +
				key("s", "start") + sep +
				key("c", "complete") + sep +
				key("n", "now") + sep +
				key("r", "reload")
		}

	case ViewLog:
		switch m.logView.Mode() {
		case views.LogModeEdit:
			line1 = key("enter", "save") + sep + key("tab", "next field") + sep + key("esc", "cancel")
		case views.LogModeConfirmDelete, views.LogModeConfirmClear:
			line1 = key("y", "confirm") + sep + key("any", "cancel")
		default:
			line1 = key("j/k", "navigate") + sep +
				key("e", "edit") + sep +
				key("d", "delete") + sep +
				key("C", "clear all") + sep +
				key("x", "export")
		}

	case ViewSummary:
		line1 = key("w", "week") + sep +
			key("m", "month") + sep +
			key("a", "all") + sep +
			key("r", "refresh")
	}

	if !m.isInputMode() {
		line2 = key("1-3", "views") + sep +
			key("ctrl+e", "export") + sep +
			key("ctrl+t", "theme") + sep +
			key("N", "notify") + sep +
			key("?", "help") + sep +
			key("q", "quit")
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("worktrack Help"))
	b.WriteString("\n\n")

	section := func(name string, keys [][]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kv := range keys {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	section("Tracker", [][]string{
		{"e / enter", "Edit the form"},
		{"s", "Start task with the form values"},
		{"c", "Complete the running task"},
		{"n / ctrl+n", "Fill in the current time"},
		{"tab", "Next field while editing"},
	})
	section("Log", [][]string{
		{"↑/k ↓/j", "Navigate up/down"},
		{"g / G", "Go to top/bottom"},
		{"e / enter", "Edit task"},
		{"d", "Delete task"},
		{"C", "Clear all tasks"},
		{"x", "Export report"},
	})
	section("Summary", [][]string{
		{"w / m / a", "Week, month or all time"},
		{"r", "Refresh"},
	})

	b.WriteString(sectionStyle.Render("Global"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))

	return b.String()
}

// toggleNotifications flips desktop notifications for this session
func (m RootModel) toggleNotifications() string {
	n := m.app.Notifier
	n.SetEnabled(!n.IsEnabled())
	if n.IsEnabled() {
		return "Notifications on"
	}
	return "Notifications off"
}

// cycleTheme switches to the next available theme and returns its name
func cycleTheme() string {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	next := themes[0]
	for i, t := range themes {
		if t.Name == current {
			next = themes[(i+1)%len(themes)]
			break
		}
	}
	theme.SetTheme(next)
	return next.Name
}
