package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/worktrack/internal/model"
	"github.com/dori/worktrack/internal/timeparse"
	"github.com/dori/worktrack/internal/tracker"
	"github.com/dori/worktrack/internal/ui/theme"
)

// refreshInterval is how often the tracker re-reads state written by other
// processes and redraws the running time.
const refreshInterval = 5 * time.Second

type formField int

const (
	fieldTask formField = iota
	fieldProject
	fieldStart
	fieldEnd
	fieldCount
)

var fieldLabels = [fieldCount]string{"Task", "Project ID", "Start Time", "End Time"}

type trackerLoadedMsg struct {
	status  model.Status
	current *model.CurrentTask
	err     error
}

type taskStartedMsg struct {
	current *model.CurrentTask
	err     error
}

type taskCompletedMsg struct {
	record *model.Record
	err    error
}

type trackerTickMsg time.Time

// TrackerView is the start/complete form with the running task on top
type TrackerView struct {
	tracker *tracker.Tracker
	width   int
	height  int

	inputs  [fieldCount]textinput.Model
	focus   formField
	editing bool
	// projectTouched stops the suggestion from overwriting a typed project
	projectTouched bool

	status  model.Status
	current *model.CurrentTask
	last    *model.Record

	statusMsg string
	errMsg    string
}

// NewTrackerView creates a new tracker view
func NewTrackerView(t *tracker.Tracker) TrackerView {
	var inputs [fieldCount]textinput.Model
	placeholders := [fieldCount]string{
		"What are you working on?",
		"Suggested from the task",
		"09:00 AM (ctrl+n for now)",
		"05:00 PM (ctrl+n for now)",
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		inputs[i] = ti
	}
	inputs[fieldStart].CharLimit = 16
	inputs[fieldEnd].CharLimit = 16

	return TrackerView{
		tracker: t,
		inputs:  inputs,
		status:  model.StatusIdle,
	}
}

// Init loads the current state and starts the refresh ticker
func (v TrackerView) Init() tea.Cmd {
	return tea.Batch(v.load(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return trackerTickMsg(t)
	})
}

// SetSize sets the view dimensions
func (v TrackerView) SetSize(width, height int) TrackerView {
	v.width = width
	v.height = height
	for i := range v.inputs {
		v.inputs[i].Width = min(width-20, 60)
	}
	return v
}

// IsInputMode returns true while a form field has focus
func (v TrackerView) IsInputMode() bool {
	return v.editing
}

// Running reports whether a task is in progress
func (v TrackerView) Running() bool {
	return v.status == model.StatusRunning
}

// Refresh re-reads the running task
func (v TrackerView) Refresh() tea.Cmd {
	return v.load()
}

func (v TrackerView) load() tea.Cmd {
	return func() tea.Msg {
		status, current, err := v.tracker.Current()
		return trackerLoadedMsg{status: status, current: current, err: err}
	}
}

func (v TrackerView) start() tea.Cmd {
	description := v.inputs[fieldTask].Value()
	project := v.inputs[fieldProject].Value()
	startTime := v.inputs[fieldStart].Value()
	return func() tea.Msg {
		current, err := v.tracker.Start(description, startTime, project)
		return taskStartedMsg{current: current, err: err}
	}
}

func (v TrackerView) complete() tea.Cmd {
	end := v.inputs[fieldEnd].Value()
	return func() tea.Msg {
		rec, err := v.tracker.Complete(end)
		return taskCompletedMsg{record: rec, err: err}
	}
}

// Update handles messages
func (v TrackerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case trackerLoadedMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return v, nil
		}
		v.status = msg.status
		v.current = msg.current
		return v, nil

	case trackerTickMsg:
		return v, tea.Batch(v.load(), tick())

	case taskStartedMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return v, nil
		}
		v.errMsg = ""
		v.status = model.StatusRunning
		v.current = msg.current
		v.statusMsg = fmt.Sprintf("Started: %s", msg.current.Task)
		v.inputs[fieldEnd].SetValue("")
		v = v.focusField(fieldEnd)
		return v, nil

	case taskCompletedMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return v, nil
		}
		v.errMsg = ""
		v.status = model.StatusIdle
		v.current = nil
		v.last = msg.record
		v.statusMsg = fmt.Sprintf("Completed: %s (%s)", msg.record.Task, msg.record.Duration)
		for i := range v.inputs {
			v.inputs[i].SetValue("")
		}
		v.projectTouched = false
		v = v.focusField(fieldTask)
		return v, nil

	case tea.KeyMsg:
		v.statusMsg = ""
		v.errMsg = ""
		if v.editing {
			return v.handleEditingKeys(msg)
		}
		return v.handleNormalKeys(msg)
	}

	return v, nil
}

func (v TrackerView) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "i", "e":
		v.editing = true
		if v.Running() {
			v = v.focusField(fieldEnd)
		} else {
			v = v.focusField(fieldTask)
		}
		return v, textinput.Blink
	case "s":
		return v, v.start()
	case "c":
		return v, v.complete()
	case "n":
		v = v.fillNow()
		return v, nil
	case "r":
		return v, v.load()
	}
	return v, nil
}

func (v TrackerView) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		v.inputs[v.focus].Blur()
		return v, nil
	case "tab", "down":
		v = v.focusField((v.focus + 1) % fieldCount)
		return v, textinput.Blink
	case "shift+tab", "up":
		v = v.focusField((v.focus + fieldCount - 1) % fieldCount)
		return v, textinput.Blink
	case "ctrl+n":
		v = v.fillNow()
		return v, nil
	case "enter":
		if v.Running() {
			return v, v.complete()
		}
		return v, v.start()
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)

	switch v.focus {
	case fieldTask:
		if !v.projectTouched {
			v.inputs[fieldProject].SetValue(v.tracker.SuggestProject(v.inputs[fieldTask].Value()))
		}
	case fieldProject:
		// Clearing the project hands it back to the suggestion
		v.projectTouched = strings.TrimSpace(v.inputs[fieldProject].Value()) != ""
	}
	return v, cmd
}

// fillNow puts the current time in the focused time field, or in the
// field the next action needs.
func (v TrackerView) fillNow() TrackerView {
	target := v.focus
	if !v.editing || (target != fieldStart && target != fieldEnd) {
		target = fieldStart
		if v.Running() {
			target = fieldEnd
		}
	}
	v.inputs[target].SetValue(v.tracker.Now())
	v.inputs[target].CursorEnd()
	return v
}

func (v TrackerView) focusField(f formField) TrackerView {
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	v.focus = f
	if v.editing {
		v.inputs[f].Focus()
	}
	return v
}

// elapsed renders how long the running task has been going
func (v TrackerView) elapsed() string {
	if v.current == nil {
		return ""
	}
	start, err := timeparse.Parse(v.current.StartTime)
	if err != nil {
		return ""
	}
	now := v.tracker.Clock()
	d := timeparse.Elapsed(start, timeparse.Of(now.Hour(), now.Minute(), now.Second()))
	return timeparse.FormatDuration(d)
}

// View renders the tracker view
func (v TrackerView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	var sections []string
	sections = append(sections, styles.Title.Render("Personal Work Tracker"))

	// Status panel
	var status string
	if v.current != nil {
		status = lipgloss.NewStyle().Foreground(t.Success).Bold(true).Render(
			fmt.Sprintf("Current Task: %s (Project: %s)", v.current.Task, v.current.Project))
		status += "\n" + styles.Label.Render(fmt.Sprintf("Started %s on %s", v.current.StartTime, v.current.Date))
		if e := v.elapsed(); e != "" {
			status += styles.Label.Render(" • running ") + styles.StatusValue.Render(e)
		}
	} else {
		status = styles.Label.Render("No task running")
	}
	sections = append(sections, styles.Panel.Width(min(v.width-4, 80)).Render(status))
	sections = append(sections, "")

	// Form
	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle).Width(14)
	activeLabel := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(14)
	for i := range v.inputs {
		f := formField(i)
		label := labelStyle.Render(fieldLabels[f])
		if v.editing && v.focus == f {
			label = activeLabel.Render(fieldLabels[f])
		}
		line := label + v.inputs[f].View()
		if f == fieldProject && !v.projectTouched && v.inputs[f].Value() != "" {
			line += styles.Placeholder.Render("  (suggested)")
		}
		if val := v.inputs[f].Value(); isTimeField(f) && val != "" && !timeparse.Valid(val) {
			line += lipgloss.NewStyle().Foreground(t.Warning).Render("  (not a time)")
		}
		sections = append(sections, line)
	}
	sections = append(sections, "")

	action := "enter: start task"
	if v.Running() {
		action = "enter: complete task"
	}
	if v.editing {
		sections = append(sections, styles.HelpDesc.Render(action+" • tab: next field • ctrl+n: now • esc: done editing"))
	}

	if v.last != nil {
		sections = append(sections, styles.Subtitle.Render(fmt.Sprintf("Last completed: %s, %s - %s (%s)",
			v.last.Task, v.last.StartTime, v.last.EndTime, v.last.Duration)))
	}

	if v.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
	} else if v.statusMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg))
	}

	return strings.Join(sections, "\n")
}

// isTimeField reports whether f holds a clock time
func isTimeField(f formField) bool {
	return f == fieldStart || f == fieldEnd
}
