// Package report writes the completed log to a formatted spreadsheet.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/worktrack/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName     = "Work Summary"
	DefaultPrefix = "Work_Summary"
	headerFill    = "CCE5FF"
	headerHeight  = 30
)

var ErrNothingToExport = errors.New("no tasks to generate report")

// Columns in sheet order, with their widths in characters
var Columns = []struct {
	Header string
	Width  float64
}{
	{"Date", 12},
	{"Project ID", 20},
	{"Task ID", 15},
	{"Faculty Student or Staff", 25},
	{"Administrative Task or Other", 25},
	{"Start Time", 15},
	{"Breaks (minutes)", 15},
	{"End Time", 15},
	{"Minutes Worked", 15},
}

// FileName is <prefix>_MM_DD_YYYY.xlsx for the given day
func FileName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("01_02_2006"))
}

func row(r *model.Record) []interface{} {
	return []interface{}{
		r.Date,
		r.ProjectID,
		r.TaskID,
		r.FacultyStudentStaff,
		r.Category,
		r.StartTime,
		r.Breaks,
		r.EndTime,
		r.MinutesWorked,
	}
}

// Export writes records to dir and returns the file path. A report from
// earlier the same day is overwritten.
func Export(records []model.Record, dir, prefix string, now time.Time) (string, error) {
	if len(records) == 0 {
		return "", ErrNothingToExport
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeHeader(f); err != nil {
		return "", err
	}
	if err := writeRows(f, records); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(prefix, now))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return path, nil
}

func writeHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := make([]interface{}, len(Columns))
	for i, c := range Columns {
		headers[i] = c.Header
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, c.Width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return f.SetRowHeight(SheetName, 1, headerHeight)
}

func writeRows(f *excelize.File, records []model.Record) error {
	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create cell style: %w", err)
	}

	for i := range records {
		values := row(&records[i])
		first, _ := excelize.CoordinatesToCellName(1, i+2)
		last, _ := excelize.CoordinatesToCellName(len(Columns), i+2)
		if err := f.SetSheetRow(SheetName, first, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		if err := f.SetCellStyle(SheetName, first, last, centered); err != nil {
			return fmt.Errorf("failed to style row %d: %w", i+1, err)
		}
	}
	return nil
}
