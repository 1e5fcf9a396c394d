package ui

// View represents the current active view
type View int

const (
	ViewTracker View = iota
	ViewLog
	ViewSummary
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewTracker:
		return "Tracker"
	case ViewLog:
		return "Log"
	case ViewSummary:
		return "Summary"
	default:
		return "Unknown"
	}
}

// ParseView maps a view name from the command line to a View
func ParseView(name string) (View, bool) {
	switch name {
	case "", "tracker":
		return ViewTracker, true
	case "log":
		return ViewLog, true
	case "summary":
		return ViewSummary, true
	}
	return ViewTracker, false
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
