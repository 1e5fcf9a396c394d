package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dori/worktrack/internal/model"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func sampleSnapshot() model.Snapshot {
	return model.Snapshot{
		CompletedTasks: []model.Record{
			{ID: "r1", Date: "01/15/2024", ProjectID: "Tutoring", Task: "Tutor algebra", Category: "Other",
				StartTime: "09:00 AM", EndTime: "10:30 AM", Duration: "01:30"},
			{ID: "r2", Date: "01/15/2024", ProjectID: "Administrative", Task: "Admin forms", Category: "Administrative Task",
				StartTime: "13:00", EndTime: "13:20:45", Duration: "00:20"},
		},
		CurrentTask: &model.CurrentTask{Task: "Coach Sam", StartTime: "2:00 PM", Date: "01/15/2024", Project: "Coaching"},
	}
}

func TestJSONFileMissingIsEmpty(t *testing.T) {
	f := NewJSONFile(filepath.Join(t.TempDir(), "tasks.json"))
	snap, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.CompletedTasks) != 0 || snap.CurrentTask != nil {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestJSONFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	f := NewJSONFile(path)

	in := sampleSnapshot()
	if err := f.Save(&in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := NewJSONFile(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSnapshotsEqual(t, in, *out)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, key := range []string{`"completed_tasks"`, `"current_task"`, `"faculty_student_staff"`, `"minutes_worked"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("state file missing %s", key)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the state file, found %d entries", len(entries))
	}
}

func TestJSONFileCorruptIsReported(t *testing.T) {
	for name, content := range map[string]string{
		"truncated": `{"completed_tasks": [`,
		"empty":     "",
		"wrongtype": `{"completed_tasks": 3}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := NewJSONFile(path).Load()
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("expected ErrCorrupt, got %v", err)
			}
			if !errors.Is(err, ErrPersistence) {
				t.Fatalf("expected ErrPersistence, got %v", err)
			}

			data, _ := os.ReadFile(path)
			if string(data) != content {
				t.Fatal("corrupt file must be left untouched")
			}
		})
	}
}

func TestStoreLoadAssignsStableIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	legacy := `{"completed_tasks": [{"date": "01/15/2024", "project_id": "Other", "task": "a",
		"start_time": "9:00", "end_time": "9:30", "duration": "00:30"}], "current_task": {}}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(NewJSONFile(path), WithIDGenerator(sequentialIDs()))
	snap, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.CompletedTasks[0].ID != "id-1" {
		t.Fatalf("expected id-1, got %q", snap.CompletedTasks[0].ID)
	}

	again, err := New(NewJSONFile(path), WithIDGenerator(sequentialIDs())).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.CompletedTasks[0].ID != "id-1" {
		t.Fatalf("id was not persisted, got %q", again.CompletedTasks[0].ID)
	}
}

func TestStoreUpdatePersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	s := New(NewJSONFile(path), WithLockFile(filepath.Join(dir, "worktrack.lock")))

	err := s.Update(func(snap *model.Snapshot) error {
		snap.CurrentTask = &model.CurrentTask{Task: "Write report", StartTime: "9:00", Date: "01/01/2024", Project: "Other"}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := s.Snapshot(); got.CurrentTask == nil || got.CurrentTask.Task != "Write report" {
		t.Fatalf("cached snapshot not updated: %+v", got.CurrentTask)
	}

	fresh, err := New(NewJSONFile(path)).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fresh.CurrentTask == nil || fresh.CurrentTask.Task != "Write report" {
		t.Fatalf("update not persisted: %+v", fresh.CurrentTask)
	}
}

func TestStoreUpdateRejectedLeavesStateUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := New(NewJSONFile(path))
	if err := s.Save(sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	boom := errors.New("boom")
	err := s.Update(func(snap *model.Snapshot) error {
		snap.CompletedTasks = nil
		snap.CurrentTask = nil
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	assertSnapshotsEqual(t, sampleSnapshot(), s.Snapshot())
	persisted, err := New(NewJSONFile(path)).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSnapshotsEqual(t, sampleSnapshot(), persisted)
}

func TestStoreUpdateSeesOtherWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	a := New(NewJSONFile(path))
	b := New(NewJSONFile(path))

	if _, err := a.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := b.Update(func(snap *model.Snapshot) error {
		snap.CompletedTasks = append(snap.CompletedTasks, model.Record{ID: "from-b"})
		return nil
	}); err != nil {
		t.Fatalf("Update b: %v", err)
	}
	if err := a.Update(func(snap *model.Snapshot) error {
		snap.CompletedTasks = append(snap.CompletedTasks, model.Record{ID: "from-a"})
		return nil
	}); err != nil {
		t.Fatalf("Update a: %v", err)
	}

	got := a.Snapshot()
	if len(got.CompletedTasks) != 2 || got.CompletedTasks[0].ID != "from-b" {
		t.Fatalf("a overwrote b's record: %+v", got.CompletedTasks)
	}
}

func TestStoreUpdateOnCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(NewJSONFile(path))
	err := s.Update(func(snap *model.Snapshot) error { return nil })
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "not json" {
		t.Fatal("corrupt file was overwritten")
	}
}

func assertSnapshotsEqual(t *testing.T, want, got model.Snapshot) {
	t.Helper()
	if len(want.CompletedTasks) != len(got.CompletedTasks) {
		t.Fatalf("record count: want %d, got %d", len(want.CompletedTasks), len(got.CompletedTasks))
	}
	for i := range want.CompletedTasks {
		if want.CompletedTasks[i] != got.CompletedTasks[i] {
			t.Errorf("record %d: want %+v, got %+v", i, want.CompletedTasks[i], got.CompletedTasks[i])
		}
	}
	switch {
	case want.CurrentTask == nil && got.CurrentTask == nil:
	case want.CurrentTask == nil || got.CurrentTask == nil:
		t.Errorf("current task: want %+v, got %+v", want.CurrentTask, got.CurrentTask)
	case *want.CurrentTask != *got.CurrentTask:
		t.Errorf("current task: want %+v, got %+v", *want.CurrentTask, *got.CurrentTask)
	}
}
