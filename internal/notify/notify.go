package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	// toggled from the UI while sends run in command goroutines
	enabled atomic.Bool
	run     func(name string, args ...string) error
}

// NewNotifier creates a new notifier
func NewNotifier(enabled bool) *Notifier {
	n := &Notifier{
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
	n.enabled.Store(enabled)
	return n
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled.Store(enabled)
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled.Load()
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.IsEnabled() {
		return nil
	}
	return n.run("notify-send", args(notification)...)
}

func args(notification Notification) []string {
	var out []string

	switch notification.Urgency {
	case UrgencyLow:
		out = append(out, "-u", "low")
	case UrgencyCritical:
		out = append(out, "-u", "critical")
	default:
		out = append(out, "-u", "normal")
	}

	// milliseconds
	if notification.Timeout > 0 {
		out = append(out, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}
	if notification.Icon != "" {
		out = append(out, "-i", notification.Icon)
	}

	out = append(out, "-a", "worktrack", notification.Title)
	if notification.Body != "" {
		out = append(out, notification.Body)
	}
	return out
}

// SendTaskStarted announces a newly started task
func (n *Notifier) SendTaskStarted(task, project, start string) error {
	return n.Send(Notification{
		Title:   "Task started",
		Body:    fmt.Sprintf("%s (%s) at %s", task, project, start),
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "appointment-new-symbolic",
	})
}

// SendTaskCompleted announces a completed task and its duration
func (n *Notifier) SendTaskCompleted(task, duration string) error {
	return n.Send(Notification{
		Title:   "Task completed",
		Body:    fmt.Sprintf("%s: %s", task, duration),
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "alarm-symbolic",
	})
}

// SendReportSaved announces an exported report
func (n *Notifier) SendReportSaved(path string) error {
	return n.Send(Notification{
		Title:   "Report generated",
		Body:    path,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}
