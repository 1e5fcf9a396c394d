package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dori/worktrack/internal/model"
	"github.com/dori/worktrack/internal/tracker"
	"github.com/dori/worktrack/internal/ui/theme"
)

// LogMode represents the current input mode of the log view
type LogMode int

const (
	LogModeNormal LogMode = iota
	LogModeEdit
	LogModeConfirmDelete
	LogModeConfirmClear
)

// ExportFunc writes the log to a report and returns its path
type ExportFunc func() (string, error)

type recordsLoadedMsg struct {
	records []model.Record
	err     error
}

type recordChangedMsg struct {
	status string
	err    error
}

type reportExportedMsg struct {
	path string
	err  error
}

// LogView lists completed records and edits them in place
type LogView struct {
	tracker *tracker.Tracker
	export  ExportFunc
	width   int
	height  int

	records      []model.Record
	cursor       int
	scrollOffset int

	mode      LogMode
	inputs    [fieldCount]textinput.Model
	focus     formField
	editingID string

	statusMsg string
	errMsg    string
}

// NewLogView creates a new log view
func NewLogView(t *tracker.Tracker, export ExportFunc) LogView {
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = fieldLabels[i]
		ti.CharLimit = 256
		inputs[i] = ti
	}
	return LogView{
		tracker: t,
		export:  export,
		inputs:  inputs,
	}
}

// Init reloads the log
func (v LogView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v LogView) SetSize(width, height int) LogView {
	v.width = width
	v.height = height
	for i := range v.inputs {
		v.inputs[i].Width = min(width-20, 60)
	}
	return v
}

// IsInputMode returns true when the view is capturing text or a confirmation
func (v LogView) IsInputMode() bool {
	return v.mode != LogModeNormal
}

// Mode returns the current mode, for the footer hints
func (v LogView) Mode() LogMode {
	return v.mode
}

func (v LogView) load() tea.Cmd {
	return func() tea.Msg {
		records, err := v.tracker.Records()
		return recordsLoadedMsg{records: records, err: err}
	}
}

func (v LogView) selected() *model.Record {
	if v.cursor < 0 || v.cursor >= len(v.records) {
		return nil
	}
	return &v.records[v.cursor]
}

// Update handles messages
func (v LogView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return v, nil
		}
		v.records = msg.records
		if v.cursor >= len(v.records) {
			v.cursor = len(v.records) - 1
		}
		if v.cursor < 0 {
			v.cursor = 0
		}
		v.ensureCursorVisible()
		return v, nil

	case editFailedMsg:
		v.errMsg = msg.err.Error()
		return v, nil

	case recordChangedMsg:
		v.mode = LogModeNormal
		v = v.blurAll()
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return v, v.load()
		}
		v.statusMsg = msg.status
		return v, v.load()

	case reportExportedMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return v, nil
		}
		v.statusMsg = fmt.Sprintf("Report generated: %s", msg.path)
		return v, nil

	case tea.KeyMsg:
		v.statusMsg = ""
		v.errMsg = ""
		switch v.mode {
		case LogModeEdit:
			return v.handleEditMode(msg)
		case LogModeConfirmDelete, LogModeConfirmClear:
			return v.handleConfirmMode(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	return v, nil
}

func (v LogView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.records)-1 {
			v.cursor++
		}
	case "g":
		v.cursor = 0
	case "G":
		if len(v.records) > 0 {
			v.cursor = len(v.records) - 1
		}
	case "enter", "e":
		rec := v.selected()
		if rec == nil {
			v.errMsg = "Please select a task to edit"
			return v, nil
		}
		v.mode = LogModeEdit
		v.editingID = rec.ID
		v.inputs[fieldTask].SetValue(rec.Task)
		v.inputs[fieldProject].SetValue(rec.ProjectID)
		v.inputs[fieldStart].SetValue(rec.StartTime)
		v.inputs[fieldEnd].SetValue(rec.EndTime)
		v = v.focusField(fieldTask)
		return v, textinput.Blink
	case "d", "delete":
		if v.selected() == nil {
			v.errMsg = "Please select a task to delete"
			return v, nil
		}
		v.mode = LogModeConfirmDelete
	case "C":
		if len(v.records) == 0 {
			v.errMsg = tracker.ErrNothingToClear.Error()
			return v, nil
		}
		v.mode = LogModeConfirmClear
	case "x":
		export := v.export
		return v, func() tea.Msg {
			path, err := export()
			return reportExportedMsg{path: path, err: err}
		}
	case "r":
		return v, v.load()
	}
	v.ensureCursorVisible()
	return v, nil
}

func (v LogView) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = LogModeNormal
		v = v.blurAll()
		return v, nil
	case "tab", "down":
		v = v.focusField((v.focus + 1) % fieldCount)
		return v, textinput.Blink
	case "shift+tab", "up":
		v = v.focusField((v.focus + fieldCount - 1) % fieldCount)
		return v, textinput.Blink
	case "enter":
		change := tracker.Change{
			Task:      v.inputs[fieldTask].Value(),
			ProjectID: v.inputs[fieldProject].Value(),
			StartTime: v.inputs[fieldStart].Value(),
			EndTime:   v.inputs[fieldEnd].Value(),
		}
		id := v.editingID
		t := v.tracker
		// Stay in edit mode until the change is accepted
		return v, func() tea.Msg {
			rec, err := t.Edit(id, change)
			if err != nil {
				return editFailedMsg{err: err}
			}
			return recordChangedMsg{status: fmt.Sprintf("Updated: %s (%s)", rec.Task, rec.Duration)}
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

type editFailedMsg struct{ err error }

func (v LogView) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := v.mode
	v.mode = LogModeNormal

	switch msg.String() {
	case "y", "Y":
	default:
		v.statusMsg = "Cancelled"
		return v, nil
	}

	t := v.tracker
	if mode == LogModeConfirmClear {
		return v, func() tea.Msg {
			n, err := t.ClearAll()
			return recordChangedMsg{status: fmt.Sprintf("Cleared %d tasks", n), err: err}
		}
	}

	rec := v.selected()
	if rec == nil {
		return v, nil
	}
	id, task := rec.ID, rec.Task
	return v, func() tea.Msg {
		err := t.Delete(id)
		return recordChangedMsg{status: fmt.Sprintf("Deleted: %s", task), err: err}
	}
}

func (v LogView) blurAll() LogView {
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	return v
}

func (v LogView) focusField(f formField) LogView {
	v = v.blurAll()
	v.focus = f
	v.inputs[f].Focus()
	return v
}

// visibleRows returns how many records fit below the header and totals
func (v LogView) visibleRows() int {
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *LogView) ensureCursorVisible() {
	visible := v.visibleRows()

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}

	maxOffset := len(v.records) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.scrollOffset > maxOffset {
		v.scrollOffset = maxOffset
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// column widths; Task takes what is left
var logColumns = []struct {
	title string
	width int
}{
	{"Date", 10},
	{"Project ID", 22},
	{"Task", 0},
	{"Start Time", 10},
	{"End Time", 10},
	{"Duration", 8},
}

func (v LogView) taskWidth() int {
	used := 4 // cursor gutter and row padding
	for _, c := range logColumns {
		used += c.width + 1
	}
	w := v.width - used
	if w < 12 {
		w = 12
	}
	return w
}

func (v LogView) renderRow(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		w := logColumns[i].width
		if w == 0 {
			w = v.taskWidth()
		}
		parts[i] = lipgloss.NewStyle().Width(w).Render(ansi.Truncate(cell, w, "…"))
	}
	return strings.Join(parts, " ")
}

// View renders the log view
func (v LogView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	if v.mode == LogModeEdit {
		return v.renderEdit()
	}

	var lines []string
	lines = append(lines, styles.Title.Render("Work Log"))

	if len(v.records) == 0 {
		lines = append(lines, styles.Label.Render("No completed tasks yet. Start one from the tracker (1)."))
	} else {
		headers := make([]string, len(logColumns))
		for i, c := range logColumns {
			headers[i] = c.title
		}
		lines = append(lines, styles.RowHeader.Render("  "+v.renderRow(headers)))

		end := min(v.scrollOffset+v.visibleRows(), len(v.records))
		for i := v.scrollOffset; i < end; i++ {
			r := &v.records[i]
			row := v.renderRow([]string{r.Date, r.ProjectID, r.Task, r.StartTime, r.EndTime, r.Duration})
			if i == v.cursor {
				lines = append(lines, styles.RowSelected.Render("> "+row))
			} else {
				lines = append(lines, styles.RowNormal.Render("  "+row))
			}
		}

		snap := model.Snapshot{CompletedTasks: v.records}
		lines = append(lines, "")
		lines = append(lines, styles.Label.Render(fmt.Sprintf("%d tasks • total %s", len(v.records), snap.Total())))
	}

	switch v.mode {
	case LogModeConfirmDelete:
		if rec := v.selected(); rec != nil {
			lines = append(lines, lipgloss.NewStyle().Foreground(t.Warning).Bold(true).Render(
				fmt.Sprintf("Delete %q (%s, %s)? y/n", rec.Task, rec.Date, rec.Duration)))
		}
	case LogModeConfirmClear:
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render(
			fmt.Sprintf("Clear all %d tasks? This cannot be undone. y/n", len(v.records))))
	}

	if v.errMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
	} else if v.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg))
	}

	return strings.Join(lines, "\n")
}

func (v LogView) renderEdit() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	var lines []string
	lines = append(lines, styles.Title.Render("Edit Task"))

	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle).Width(14)
	activeLabel := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Width(14)
	for i := range v.inputs {
		f := formField(i)
		label := labelStyle.Render(fieldLabels[f])
		if v.focus == f {
			label = activeLabel.Render(fieldLabels[f])
		}
		lines = append(lines, label+v.inputs[f].View())
	}
	lines = append(lines, "")
	lines = append(lines, styles.HelpDesc.Render("enter: save changes • tab: next field • esc: cancel"))

	if v.errMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
	}
	return styles.Panel.Render(strings.Join(lines, "\n"))
}
