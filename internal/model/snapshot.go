package model

import (
	"encoding/json"
	"time"

	"github.com/dori/worktrack/internal/timeparse"
)

// Snapshot is the full persisted state: the in-progress slot and the
// ordered log of completed records.
type Snapshot struct {
	CompletedTasks []Record
	CurrentTask    *CurrentTask
}

// Status reports Idle or Running
func (s *Snapshot) Status() Status {
	if s.CurrentTask != nil {
		return StatusRunning
	}
	return StatusIdle
}

// Find returns the index of the record with the given ID, or -1
func (s *Snapshot) Find(id string) int {
	for i := range s.CompletedTasks {
		if s.CompletedTasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no memory with s
func (s *Snapshot) Clone() Snapshot {
	var out Snapshot
	if s.CompletedTasks != nil {
		out.CompletedTasks = append([]Record(nil), s.CompletedTasks...)
	}
	if s.CurrentTask != nil {
		ct := *s.CurrentTask
		out.CurrentTask = &ct
	}
	return out
}

// TotalMinutes sums the duration of every completed record
func (s *Snapshot) TotalMinutes() int {
	total := 0
	for i := range s.CompletedTasks {
		total += s.CompletedTasks[i].Minutes()
	}
	return total
}

// Total renders TotalMinutes as HH:MM
func (s *Snapshot) Total() string {
	return timeparse.FormatDuration(minutes(s.TotalMinutes()))
}

// On disk an empty in-progress slot is written as {} rather than null.
type snapshotJSON struct {
	CompletedTasks []Record        `json:"completed_tasks"`
	CurrentTask    json.RawMessage `json:"current_task"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	w := snapshotJSON{CompletedTasks: s.CompletedTasks}
	if w.CompletedTasks == nil {
		w.CompletedTasks = []Record{}
	}
	if s.CurrentTask != nil {
		data, err := json.Marshal(s.CurrentTask)
		if err != nil {
			return nil, err
		}
		w.CurrentTask = data
	} else {
		w.CurrentTask = json.RawMessage("{}")
	}
	return json.Marshal(w)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w struct {
		CompletedTasks []Record     `json:"completed_tasks"`
		CurrentTask    *CurrentTask `json:"current_task"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.CompletedTasks = w.CompletedTasks
	s.CurrentTask = nil
	if w.CurrentTask != nil && w.CurrentTask.Task != "" {
		s.CurrentTask = w.CurrentTask
	}
	return nil
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
