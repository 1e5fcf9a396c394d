package model

import (
	"github.com/dori/worktrack/internal/timeparse"
)

// Record is a completed, timed entry in the work log
type Record struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	ProjectID string `json:"project_id"`
	Task      string `json:"task"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  string `json:"duration"` // HH:MM

	// Report-only columns. Category is derived at completion; the rest
	// are carried through for the spreadsheet and default to empty.
	TaskID              string `json:"task_id"`
	Category            string `json:"category"`
	Breaks              string `json:"breaks"`
	MinutesWorked       string `json:"minutes_worked"`
	FacultyStudentStaff string `json:"faculty_student_staff"`
}

// Minutes returns the duration in whole minutes, or 0 if it cannot be read
func (r *Record) Minutes() int {
	m, err := timeparse.ParseDuration(r.Duration)
	if err != nil {
		return 0
	}
	return m
}

// ShortID returns the first eight characters of the record ID
func (r *Record) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}
