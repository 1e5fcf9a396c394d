package model

// Status is where the tracker sits in its lifecycle
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
)

// CurrentTask is the single task being worked on, not yet completed.
// StartTime is kept exactly as the user entered it once it validated.
type CurrentTask struct {
	Task      string `json:"task"`
	StartTime string `json:"start_time"`
	Date      string `json:"date"`
	Project   string `json:"project"`
}
