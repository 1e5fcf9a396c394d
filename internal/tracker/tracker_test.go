package tracker

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/worktrack/internal/model"
	"github.com/dori/worktrack/internal/store"
	"github.com/dori/worktrack/internal/timeparse"
)

var fixedNow = time.Date(2024, time.March, 5, 14, 7, 0, 0, time.Local)

func newTestTracker(t *testing.T, opts ...Option) (*Tracker, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, store.DefaultFileName)

	n := 0
	s := store.New(store.NewJSONFile(path),
		store.WithLockFile(filepath.Join(dir, "worktrack.lock")),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("rec-%04d", n)
		}),
	)
	if _, err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(s, opts...), path
}

// reload reads the state file with a fresh store, as another process would
func reload(t *testing.T, path string) model.Snapshot {
	t.Helper()
	snap, err := store.New(store.NewJSONFile(path)).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	return snap
}

func TestStartCompleteClear(t *testing.T) {
	tr, path := newTestTracker(t)

	cur, err := tr.Start("Team meeting", "09:00 AM", "Trio Team Meeting")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if cur.Date != "03/05/2024" {
		t.Errorf("expected today's date, got %q", cur.Date)
	}

	status, running, err := tr.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if status != model.StatusRunning || running.Task != "Team meeting" {
		t.Fatalf("expected running Team meeting, got %s %+v", status, running)
	}

	rec, err := tr.Complete("10:30 AM")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	want := model.Record{
		ID:        "rec-0001",
		Date:      "03/05/2024",
		ProjectID: "Trio Team Meeting",
		Task:      "Team meeting",
		Category:  "Other",
		StartTime: "09:00 AM",
		EndTime:   "10:30 AM",
		Duration:  "01:30",
	}
	if *rec != want {
		t.Fatalf("record mismatch\nwant %+v\ngot  %+v", want, *rec)
	}

	snap := reload(t, path)
	if snap.CurrentTask != nil {
		t.Fatalf("expected idle after complete, got %+v", snap.CurrentTask)
	}
	if len(snap.CompletedTasks) != 1 || snap.CompletedTasks[0] != want {
		t.Fatalf("persisted log mismatch: %+v", snap.CompletedTasks)
	}

	n, err := tr.ClearAll()
	if err != nil || n != 1 {
		t.Fatalf("ClearAll: n=%d err=%v", n, err)
	}
	if _, err := tr.ClearAll(); !errors.Is(err, ErrNothingToClear) {
		t.Fatalf("expected ErrNothingToClear, got %v", err)
	}
	if got := reload(t, path); len(got.CompletedTasks) != 0 {
		t.Fatalf("log not cleared: %+v", got.CompletedTasks)
	}
}

func TestStartWhileRunning(t *testing.T) {
	tr, path := newTestTracker(t)
	if _, err := tr.Start("First", "9:00", "Other"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := tr.Start("Second", "10:00", "Other")
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if got := reload(t, path); got.CurrentTask.Task != "First" {
		t.Fatalf("running task replaced: %+v", got.CurrentTask)
	}
}

func TestStartValidation(t *testing.T) {
	tests := []struct {
		name        string
		description string
		start       string
		project     string
		field       string
		wantErr     error
	}{
		{"no description", "  ", "9:00", "Other", "a task description", ErrMissingField},
		{"no start", "Tutor", "", "Tutoring", "a start time", ErrMissingField},
		{"no project", "Tutor", "9:00", "", "a project ID", ErrMissingField},
		{"bad time", "Tutor", "half past nine", "Tutoring", "", timeparse.ErrInvalidTimeFormat},
		{"out of range", "Tutor", "25:00", "Tutoring", "", timeparse.ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, path := newTestTracker(t)
			_, err := tr.Start(tt.description, tt.start, tt.project)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.field != "" {
				var fe *FieldError
				if !errors.As(err, &fe) || fe.Field != tt.field {
					t.Fatalf("expected field %q, got %v", tt.field, err)
				}
			}
			if got := reload(t, path); got.CurrentTask != nil {
				t.Fatalf("state changed on rejected start: %+v", got.CurrentTask)
			}
		})
	}
}

func TestStartTrimsInput(t *testing.T) {
	tr, _ := newTestTracker(t)
	cur, err := tr.Start("  Tutor algebra ", " 9:00 ", " Tutoring  ")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if cur.Task != "Tutor algebra" || cur.StartTime != "9:00" || cur.Project != "Tutoring" {
		t.Fatalf("inputs not trimmed: %+v", cur)
	}
}

func TestCompleteWhenIdle(t *testing.T) {
	tr, _ := newTestTracker(t)
	if _, err := tr.Complete("10:00"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestCompleteDefaultsToNow(t *testing.T) {
	tr, _ := newTestTracker(t)
	if _, err := tr.Start("Coach Sam", "1:00 PM", "Coaching"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	rec, err := tr.Complete("")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if rec.EndTime != "02:07 PM" || rec.Duration != "01:07" {
		t.Fatalf("expected 02:07 PM / 01:07, got %s / %s", rec.EndTime, rec.Duration)
	}
}

func TestCompleteBadEndKeepsRunning(t *testing.T) {
	tr, path := newTestTracker(t)
	if _, err := tr.Start("Coach Sam", "1:00 PM", "Coaching"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := tr.Complete("later"); !errors.Is(err, timeparse.ErrInvalidTimeFormat) {
		t.Fatalf("expected ErrInvalidTimeFormat, got %v", err)
	}
	got := reload(t, path)
	if got.CurrentTask == nil || len(got.CompletedTasks) != 0 {
		t.Fatalf("state changed on rejected complete: %+v", got)
	}
}

func TestCompleteAcrossMidnight(t *testing.T) {
	tr, _ := newTestTracker(t)
	if _, err := tr.Start("Late grading", "11:00 PM", "Other"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	rec, err := tr.Complete("01:30 AM")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if rec.Duration != "02:30" {
		t.Fatalf("expected 02:30, got %s", rec.Duration)
	}
}

func TestCompleteSetsReportCategory(t *testing.T) {
	tr, _ := newTestTracker(t)
	if _, err := tr.Start("Admin paperwork", "9:00", "Administrative"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	rec, err := tr.Complete("9:45")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if rec.Category != "Administrative Task" {
		t.Fatalf("expected Administrative Task, got %q", rec.Category)
	}
}

func completeOne(t *testing.T, tr *Tracker, task, start, end, project string) *model.Record {
	t.Helper()
	if _, err := tr.Start(task, start, project); err != nil {
		t.Fatalf("Start: %v", err)
	}
	rec, err := tr.Complete(end)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	return rec
}

func TestEdit(t *testing.T) {
	tr, path := newTestTracker(t)
	orig := completeOne(t, tr, "Tutor algebra", "9:00", "10:00", "Tutoring")

	rec, err := tr.Edit(orig.ID, Change{
		Task:      "Tutor geometry",
		ProjectID: "Tutoring",
		StartTime: "9:15",
		EndTime:   "10:45",
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if rec.Duration != "01:30" || rec.Task != "Tutor geometry" {
		t.Fatalf("unexpected edit result: %+v", rec)
	}
	if rec.ID != orig.ID || rec.Date != orig.Date {
		t.Fatalf("edit must keep id and date: %+v", rec)
	}
	if got := reload(t, path); got.CompletedTasks[0] != *rec {
		t.Fatalf("edit not persisted: %+v", got.CompletedTasks[0])
	}
}

func TestEditRejectsBadInput(t *testing.T) {
	tr, path := newTestTracker(t)
	orig := completeOne(t, tr, "Tutor algebra", "9:00", "10:00", "Tutoring")

	tests := []struct {
		name    string
		id      string
		change  Change
		wantErr error
	}{
		{"unknown id", "nope", Change{"x", "y", "9:00", "10:00"}, ErrRecordNotFound},
		{"bad start", orig.ID, Change{"x", "y", "nine", "10:00"}, timeparse.ErrInvalidTimeFormat},
		{"bad end", orig.ID, Change{"x", "y", "9:00", "99:99"}, timeparse.ErrInvalidTimeFormat},
		{"empty task", orig.ID, Change{"", "y", "9:00", "10:00"}, ErrMissingField},
		{"empty project", orig.ID, Change{"x", " ", "9:00", "10:00"}, ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.Edit(tt.id, tt.change); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := reload(t, path); got.CompletedTasks[0] != *orig {
				t.Fatalf("record changed on rejected edit: %+v", got.CompletedTasks[0])
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tr, path := newTestTracker(t)
	a := completeOne(t, tr, "A", "9:00", "9:30", "Other")
	b := completeOne(t, tr, "B", "10:00", "10:30", "Other")
	c := completeOne(t, tr, "C", "11:00", "11:30", "Other")

	if err := tr.Delete(b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got := reload(t, path).CompletedTasks
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != c.ID {
		t.Fatalf("expected [A C], got %+v", got)
	}

	if err := tr.Delete(b.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestClearAllKeepsRunningTask(t *testing.T) {
	tr, path := newTestTracker(t)
	completeOne(t, tr, "A", "9:00", "9:30", "Other")
	if _, err := tr.Start("B", "10:00", "Other"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := tr.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	got := reload(t, path)
	if got.CurrentTask == nil || got.CurrentTask.Task != "B" {
		t.Fatalf("running task lost: %+v", got.CurrentTask)
	}
}

func TestObserverSeesPersistedEvents(t *testing.T) {
	var kinds []EventKind
	tr, _ := newTestTracker(t, WithObserver(func(e Event) {
		kinds = append(kinds, e.Kind)
	}))

	rec := completeOne(t, tr, "A", "9:00", "9:30", "Other")
	if _, err := tr.Start("A", "9:00", "Other"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	tr.Start("dup", "9:00", "Other") // rejected, no event
	if err := tr.Delete(rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []EventKind{EventStarted, EventCompleted, EventStarted, EventDeleted}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("events: want %v, got %v", want, kinds)
	}
}

func TestSuggestProject(t *testing.T) {
	tr, _ := newTestTracker(t)
	if got := tr.SuggestProject("Tutor algebra"); got != "Tutoring" {
		t.Fatalf("expected Tutoring, got %q", got)
	}
	if got := tr.SuggestProject("xyz"); got != "Other" {
		t.Fatalf("expected Other, got %q", got)
	}
}

func TestResolve(t *testing.T) {
	records := []model.Record{
		{ID: "abc123"},
		{ID: "abd456"},
		{ID: "xyz789"},
		{ID: "00000002-9abc-4def-8123-456789abcdef"},
		{ID: "12345678-9abc-4def-8123-456789abcdef"},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"1", "abc123", false},
		{"3", "xyz789", false},
		{"0", "", true},
		{"6", "", true},
		{"abd456", "abd456", false},
		{"xy", "xyz789", false},
		{"ab", "", true},
		{"", "", true},
		{"qqq", "", true},
		// short IDs as printed by list are all digits for some uuids
		{"12345678", "12345678-9abc-4def-8123-456789abcdef", false},
		{"00000002", "00000002-9abc-4def-8123-456789abcdef", false},
		{"2", "abd456", false},
		{"99999999", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := Resolve(records, tt.ref)
			if tt.wantErr {
				if !errors.Is(err, ErrRecordNotFound) {
					t.Fatalf("expected ErrRecordNotFound, got %+v, %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got.ID != tt.want {
				t.Fatalf("want %s, got %s", tt.want, got.ID)
			}
		})
	}
}

func TestResolveShortIDFromList(t *testing.T) {
	rec := model.Record{ID: "12345678-9abc-4def-8123-456789abcdef"}
	got, err := Resolve([]model.Record{rec}, rec.ShortID())
	if err != nil {
		t.Fatalf("Resolve(%q): %v", rec.ShortID(), err)
	}
	if got.ID != rec.ID {
		t.Fatalf("got %s", got.ID)
	}
}
