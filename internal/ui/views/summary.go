package views

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/worktrack/internal/model"
	"github.com/dori/worktrack/internal/timeparse"
	"github.com/dori/worktrack/internal/tracker"
	"github.com/dori/worktrack/internal/ui/theme"
)

// TimePeriod represents a time range for the summary
type TimePeriod int

const (
	PeriodWeek TimePeriod = iota
	PeriodMonth
	PeriodAll
)

var periodLabels = []string{"Week", "Month", "All Time"}

type summaryLoadedMsg struct {
	records []model.Record
	err     error
}

// SummaryView shows time logged per project and per day
type SummaryView struct {
	tracker *tracker.Tracker
	width   int
	height  int

	period TimePeriod

	totalMinutes  int
	taskCount     int
	activeDays    int
	projectTotals []model.ProjectTotal
	// minutes per day, oldest first, ending today
	dailyMinutes []int

	errMsg string
}

// NewSummaryView creates a new summary view
func NewSummaryView(t *tracker.Tracker) SummaryView {
	return SummaryView{
		tracker: t,
		period:  PeriodWeek,
	}
}

// Init initializes the summary view
func (v SummaryView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v SummaryView) SetSize(width, height int) SummaryView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v SummaryView) IsInputMode() bool {
	return false
}

func (v SummaryView) load() tea.Cmd {
	return func() tea.Msg {
		records, err := v.tracker.Records()
		return summaryLoadedMsg{records: records, err: err}
	}
}

// recordDay parses a record's MM/DD/YYYY date
func recordDay(r *model.Record) (time.Time, bool) {
	d, err := time.ParseInLocation(timeparse.DateLayout, r.Date, time.Local)
	return d, err == nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// summarize computes the view's figures from records as of now
func (v SummaryView) summarize(records []model.Record, now time.Time) SummaryView {
	today := startOfDay(now)
	var from time.Time
	switch v.period {
	case PeriodWeek:
		from = today.AddDate(0, 0, -6)
	case PeriodMonth:
		from = today.AddDate(0, -1, 0)
	}

	var inPeriod []model.Record
	days := make(map[string]bool)
	daily := make([]int, 7)
	for i := range records {
		r := &records[i]
		day, ok := recordDay(r)
		if v.period != PeriodAll && (!ok || day.Before(from) || day.After(today)) {
			continue
		}
		inPeriod = append(inPeriod, *r)
		days[r.Date] = true

		if ok {
			ago := int(today.Sub(day).Hours() / 24)
			if ago >= 0 && ago < 7 {
				daily[6-ago] += r.Minutes()
			}
		}
	}

	totals := model.Totals(inPeriod)
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Minutes > totals[j].Minutes
	})

	snap := model.Snapshot{CompletedTasks: inPeriod}
	v.totalMinutes = snap.TotalMinutes()
	v.taskCount = len(inPeriod)
	v.activeDays = len(days)
	v.projectTotals = totals
	v.dailyMinutes = daily
	return v
}

// Update handles messages
func (v SummaryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return v, nil
		}
		v.errMsg = ""
		return v.summarize(msg.records, v.tracker.Clock()), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "w":
			v.period = PeriodWeek
			return v, v.load()
		case "m":
			v.period = PeriodMonth
			return v, v.load()
		case "a":
			v.period = PeriodAll
			return v, v.load()
		case "r":
			return v, v.load()
		}
	}

	return v, nil
}

func formatMinutes(mins int) string {
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

// View renders the summary view
func (v SummaryView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("Summary ─ %s", periodLabels[v.period])))
	sections = append(sections, "")

	if v.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
		return strings.Join(sections, "\n")
	}

	// Summary cards (side by side)
	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(18)

	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	card := func(value, label string) string {
		return cardStyle.Render(valueStyle.Render(value) + "\n" + labelStyle.Render(label))
	}

	avg := 0
	if v.activeDays > 0 {
		avg = v.totalMinutes / v.activeDays
	}
	cardRow := lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d", v.taskCount), "Tasks"),
		card(formatMinutes(v.totalMinutes), "Time Tracked"),
		card(fmt.Sprintf("%d", len(v.projectTotals)), "Projects"),
		card(formatMinutes(avg), "Per Active Day"),
	)
	sections = append(sections, cardRow)
	sections = append(sections, "")

	sections = append(sections, v.renderActivityChart())
	sections = append(sections, "")

	if len(v.projectTotals) > 0 {
		sections = append(sections, v.renderProjectTime())
		sections = append(sections, "")
	}

	hints := lipgloss.NewStyle().Foreground(t.Subtle).Render(
		"w: week • m: month • a: all time • r: refresh",
	)
	sections = append(sections, hints)

	return strings.Join(sections, "\n")
}

// renderActivityChart renders minutes logged over the last 7 days
func (v SummaryView) renderActivityChart() string {
	t := theme.Current.Theme

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	var lines []string
	lines = append(lines, headerStyle.Render("Activity (Last 7 Days)"))

	maxMins := 1
	for _, mins := range v.dailyMinutes {
		if mins > maxMins {
			maxMins = mins
		}
	}

	chartHeight := 5
	barWidth := 5

	for row := chartHeight; row >= 1; row-- {
		var rowStr strings.Builder
		threshold := float64(row) / float64(chartHeight)

		for i, mins := range v.dailyMinutes {
			ratio := float64(mins) / float64(maxMins)

			var block string
			if ratio >= threshold {
				block = lipgloss.NewStyle().Foreground(t.Success).Render(strings.Repeat("█", barWidth))
			} else if ratio >= threshold-0.2 && ratio > 0 {
				block = lipgloss.NewStyle().Foreground(t.Info).Render(strings.Repeat("▄", barWidth))
			} else {
				block = strings.Repeat(" ", barWidth)
			}

			rowStr.WriteString(block)
			if i < len(v.dailyMinutes)-1 {
				rowStr.WriteString(" ")
			}
		}
		lines = append(lines, rowStr.String())
	}

	// Day labels, oldest first
	today := v.tracker.Clock()
	var labelStr, timeStr strings.Builder
	for i, mins := range v.dailyMinutes {
		day := today.AddDate(0, 0, i-len(v.dailyMinutes)+1)
		cell := lipgloss.NewStyle().Width(barWidth).Align(lipgloss.Center)
		labelStr.WriteString(cell.Foreground(t.Subtle).Render(day.Format("Mon")))
		timeStr.WriteString(cell.Foreground(t.Foreground).Render(timeparse.FormatDuration(time.Duration(mins) * time.Minute)))
		if i < len(v.dailyMinutes)-1 {
			labelStr.WriteString(" ")
			timeStr.WriteString(" ")
		}
	}
	lines = append(lines, labelStr.String())
	lines = append(lines, timeStr.String())

	return strings.Join(lines, "\n")
}

// renderProjectTime renders time tracked per project, largest first
func (v SummaryView) renderProjectTime() string {
	t := theme.Current.Theme

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	var lines []string
	lines = append(lines, headerStyle.Render("Time by Project"))

	maxMins := 1
	for _, p := range v.projectTotals {
		if p.Minutes > maxMins {
			maxMins = p.Minutes
		}
	}

	barMaxWidth := 30
	for _, p := range v.projectTotals {
		ratio := float64(p.Minutes) / float64(maxMins)
		barWidth := int(ratio * float64(barMaxWidth))
		if barWidth < 1 && p.Minutes > 0 {
			barWidth = 1
		}

		bar := lipgloss.NewStyle().Foreground(t.Info).Render(strings.Repeat("█", barWidth))
		name := lipgloss.NewStyle().Width(24).Render(p.Project)
		line := fmt.Sprintf("%s %-*s %s (%d)", name, barMaxWidth, bar, formatMinutes(p.Minutes), p.Tasks)
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
