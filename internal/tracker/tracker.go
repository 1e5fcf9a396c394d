// Package tracker is the task lifecycle: at most one task runs at a time,
// completing it appends a timed record to the log, and records can then be
// edited, deleted, or cleared. Every successful operation is persisted
// before it returns.
package tracker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dori/worktrack/internal/classify"
	"github.com/dori/worktrack/internal/model"
	"github.com/dori/worktrack/internal/store"
	"github.com/dori/worktrack/internal/timeparse"
)

// EventKind identifies what changed
type EventKind int

const (
	EventStarted EventKind = iota
	EventCompleted
	EventEdited
	EventDeleted
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	case EventEdited:
		return "edited"
	case EventDeleted:
		return "deleted"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after a change has been persisted
type Event struct {
	Kind    EventKind
	Current *model.CurrentTask // EventStarted
	Record  *model.Record      // EventCompleted, EventEdited, EventDeleted
	Cleared int                // EventCleared
}

// Change holds the new values for an edited record
type Change struct {
	Task      string
	ProjectID string
	StartTime string
	EndTime   string
}

// Tracker drives the Idle/Running state machine over a Store
type Tracker struct {
	store     *store.Store
	now       func() time.Time
	observers []func(Event)
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithObserver registers fn to be called after each persisted change
func WithObserver(fn func(Event)) Option {
	return func(t *Tracker) {
		t.observers = append(t.observers, fn)
	}
}

// New creates a tracker over s
func New(s *store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: s,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a task. It fails if one is already running, if any input
// is empty, or if the start time does not parse.
func (t *Tracker) Start(description, startTime, project string) (*model.CurrentTask, error) {
	description = strings.TrimSpace(description)
	startTime = strings.TrimSpace(startTime)
	project = strings.TrimSpace(project)

	var started model.CurrentTask
	err := t.store.Update(func(s *model.Snapshot) error {
		if s.CurrentTask != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyRunning, s.CurrentTask.Task)
		}
		if description == "" {
			return missing("a task description")
		}
		if startTime == "" {
			return missing("a start time")
		}
		if project == "" {
			return missing("a project ID")
		}
		if _, err := timeparse.Parse(startTime); err != nil {
			return err
		}

		started = model.CurrentTask{
			Task:      description,
			StartTime: startTime,
			Date:      timeparse.FormatDate(t.now()),
			Project:   project,
		}
		s.CurrentTask = &started
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.emit(Event{Kind: EventStarted, Current: &started})
	return &started, nil
}

// Complete finishes the running task. An empty endTime means now.
func (t *Tracker) Complete(endTime string) (*model.Record, error) {
	endTime = strings.TrimSpace(endTime)

	var rec model.Record
	err := t.store.Update(func(s *model.Snapshot) error {
		cur := s.CurrentTask
		if cur == nil {
			return ErrNotRunning
		}

		end := endTime
		if end == "" {
			end = timeparse.FormatClock(t.now())
		} else if _, err := timeparse.Parse(end); err != nil {
			return err
		}

		duration, err := timeparse.Duration(cur.StartTime, end)
		if err != nil {
			return err
		}

		rec = model.Record{
			ID:        t.store.NewID(),
			Date:      cur.Date,
			ProjectID: cur.Project,
			Task:      cur.Task,
			Category:  classify.ReportCategory(cur.Task),
			StartTime: cur.StartTime,
			EndTime:   end,
			Duration:  duration,
		}
		s.CompletedTasks = append(s.CompletedTasks, rec)
		s.CurrentTask = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.emit(Event{Kind: EventCompleted, Record: &rec})
	return &rec, nil
}

// Edit replaces the description, project, and times of a record and
// recomputes its duration. The date and ID never change.
func (t *Tracker) Edit(id string, c Change) (*model.Record, error) {
	c.Task = strings.TrimSpace(c.Task)
	c.ProjectID = strings.TrimSpace(c.ProjectID)
	c.StartTime = strings.TrimSpace(c.StartTime)
	c.EndTime = strings.TrimSpace(c.EndTime)

	var rec model.Record
	err := t.store.Update(func(s *model.Snapshot) error {
		i := s.Find(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		if c.Task == "" {
			return missing("a task description")
		}
		if c.ProjectID == "" {
			return missing("a project ID")
		}

		duration, err := recompute(c.StartTime, c.EndTime)
		if err != nil {
			return err
		}

		r := &s.CompletedTasks[i]
		r.Task = c.Task
		r.ProjectID = c.ProjectID
		r.StartTime = c.StartTime
		r.EndTime = c.EndTime
		r.Duration = duration
		rec = *r
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.emit(Event{Kind: EventEdited, Record: &rec})
	return &rec, nil
}

// recompute validates both times before computing a duration, so a bad
// value is reported as ErrInvalidTimeFormat rather than ErrDuration.
func recompute(start, end string) (string, error) {
	if _, err := timeparse.Parse(start); err != nil {
		return "", err
	}
	if _, err := timeparse.Parse(end); err != nil {
		return "", err
	}
	return timeparse.Duration(start, end)
}

// Delete removes the record with the given ID
func (t *Tracker) Delete(id string) error {
	var removed model.Record
	err := t.store.Update(func(s *model.Snapshot) error {
		i := s.Find(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		removed = s.CompletedTasks[i]
		s.CompletedTasks = append(s.CompletedTasks[:i], s.CompletedTasks[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	t.emit(Event{Kind: EventDeleted, Record: &removed})
	return nil
}

// ClearAll empties the completed log and returns how many records were
// removed. A running task is left alone.
func (t *Tracker) ClearAll() (int, error) {
	var n int
	err := t.store.Update(func(s *model.Snapshot) error {
		n = len(s.CompletedTasks)
		if n == 0 {
			return ErrNothingToClear
		}
		s.CompletedTasks = nil
		return nil
	})
	if err != nil {
		return 0, err
	}

	t.emit(Event{Kind: EventCleared, Cleared: n})
	return n, nil
}

// SuggestProject proposes a project for a description. It never changes state.
func (t *Tracker) SuggestProject(description string) string {
	return classify.Suggest(description)
}

// Current re-reads the persisted state and reports whether a task is running
func (t *Tracker) Current() (model.Status, *model.CurrentTask, error) {
	snap, err := t.store.Load()
	if err != nil {
		return model.StatusIdle, nil, err
	}
	return snap.Status(), snap.CurrentTask, nil
}

// Records re-reads the persisted state and returns the completed log in order
func (t *Tracker) Records() ([]model.Record, error) {
	snap, err := t.store.Load()
	if err != nil {
		return nil, err
	}
	return snap.CompletedTasks, nil
}

// Snapshot re-reads and returns the full state
func (t *Tracker) Snapshot() (model.Snapshot, error) {
	return t.store.Load()
}

// Now returns the current time as the clock-filled form, for callers
// offering a "use current time" action.
func (t *Tracker) Now() string {
	return timeparse.FormatClock(t.now())
}

// Clock returns the tracker's notion of the current instant
func (t *Tracker) Clock() time.Time {
	return t.now()
}

// positionDigits is the longest all-digit reference read as a list
// position before any ID lookup. Short IDs are 8 characters, so a copied
// ID is always tried as an ID first.
const positionDigits = 7

// Resolve maps a user-facing reference to a record: a full ID, an
// unambiguous ID prefix, or a 1-based position in the log. An ID match
// wins over a position unless the reference is a short number.
func Resolve(records []model.Record, ref string) (model.Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Record{}, fmt.Errorf("%w: empty reference", ErrRecordNotFound)
	}

	n, numErr := strconv.Atoi(ref)
	isPosition := numErr == nil && len(ref) <= positionDigits
	if isPosition {
		return byPosition(records, n)
	}

	var match *model.Record
	for i := range records {
		r := &records[i]
		if r.ID == ref {
			return *r, nil
		}
		if strings.HasPrefix(r.ID, ref) {
			if match != nil {
				return model.Record{}, fmt.Errorf("%w: %q matches more than one task", ErrRecordNotFound, ref)
			}
			match = r
		}
	}
	if match != nil {
		return *match, nil
	}
	if numErr == nil {
		return byPosition(records, n)
	}
	return model.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, ref)
}

func byPosition(records []model.Record, n int) (model.Record, error) {
	if n < 1 || n > len(records) {
		return model.Record{}, fmt.Errorf("%w: no task #%d (log has %d)", ErrRecordNotFound, n, len(records))
	}
	return records[n-1], nil
}

func (t *Tracker) emit(e Event) {
	for _, fn := range t.observers {
		fn(e)
	}
}
