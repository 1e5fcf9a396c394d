package report

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/worktrack/internal/model"
	"github.com/xuri/excelize/v2"
)

var day = time.Date(2024, time.March, 5, 16, 0, 0, 0, time.Local)

func sampleRecords() []model.Record {
	return []model.Record{
		{ID: "a", Date: "03/05/2024", ProjectID: "Tutoring", Task: "Tutor algebra", Category: "Other",
			StartTime: "09:00 AM", EndTime: "10:30 AM", Duration: "01:30"},
		{ID: "b", Date: "03/05/2024", ProjectID: "Administrative", Task: "Admin forms", Category: "Administrative Task",
			StartTime: "11:00 AM", EndTime: "11:20 AM", Duration: "00:20", TaskID: "T-7"},
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("Rohit_Work_Summary", day); got != "Rohit_Work_Summary_03_05_2024.xlsx" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := FileName("", day); got != "Work_Summary_03_05_2024.xlsx" {
		t.Fatalf("unexpected default name %q", got)
	}
}

func TestExportEmpty(t *testing.T) {
	if _, err := Export(nil, t.TempDir(), "", day); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestExportWritesSheet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	path, err := Export(sampleRecords(), dir, "", day)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(path) != "Work_Summary_03_05_2024.xlsx" {
		t.Fatalf("unexpected path %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	for i, c := range Columns {
		if rows[0][i] != c.Header {
			t.Errorf("header %d: want %q, got %q", i, c.Header, rows[0][i])
		}
	}

	// GetRows drops trailing empty cells, so Minutes Worked is absent
	second := rows[2]
	checks := map[int]string{0: "03/05/2024", 1: "Administrative", 2: "T-7", 4: "Administrative Task", 5: "11:00 AM", 7: "11:20 AM"}
	for col, want := range checks {
		if second[col] != want {
			t.Errorf("row 2 col %d: want %q, got %q", col, want, second[col])
		}
	}

	if h, err := f.GetRowHeight(SheetName, 1); err != nil || h != headerHeight {
		t.Errorf("header height: want %d, got %v (%v)", headerHeight, h, err)
	}
	if w, err := f.GetColWidth(SheetName, "D"); err != nil || w != 25 {
		t.Errorf("column D width: want 25, got %v (%v)", w, err)
	}
}

func TestExportOverwritesSameDay(t *testing.T) {
	dir := t.TempDir()
	if _, err := Export(sampleRecords(), dir, "", day); err != nil {
		t.Fatalf("first Export: %v", err)
	}
	path, err := Export(sampleRecords()[:1], dir, "", day)
	if err != nil {
		t.Fatalf("second Export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected the second export to replace the first, got %d rows", len(rows))
	}
}
