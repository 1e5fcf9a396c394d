package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dori/worktrack/internal/model"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DefaultDBName is the database file inside the data directory
const DefaultDBName = "worktrack.db"

// SQLite keeps the snapshot in a SQLite database
type SQLite struct {
	*sql.DB
	path string
}

// OpenSQLite opens a database connection and runs migrations
func OpenSQLite(dbPath string) (*SQLite, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &PersistenceError{Op: "create data directory", Path: dir, Err: err}
	}

	// WAL mode keeps readers from blocking the single writer
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", dbPath)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Path: dbPath, Err: err}
	}

	// SQLite only supports one writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, &PersistenceError{Op: "connect to", Path: dbPath, Err: err}
	}

	db := &SQLite{DB: sqlDB, path: dbPath}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, &PersistenceError{Op: "migrate", Path: dbPath, Err: err}
	}

	return db, nil
}

// migrate runs database migrations using embedded SQL files
func (db *SQLite) migrate() error {
	// Silence goose logging (it corrupts TUI output)
	goose.SetLogger(log.New(io.Discard, "", 0))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Path returns the database file location
func (db *SQLite) Path() string {
	return db.path
}

// Close closes the database connection
func (db *SQLite) Close() error {
	return db.DB.Close()
}

// Transaction executes a function within a transaction
func (db *SQLite) Transaction(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Load reads the completed log in order, then the in-progress slot
func (db *SQLite) Load() (*model.Snapshot, error) {
	records, err := db.loadRecords()
	if err != nil {
		return nil, &PersistenceError{Op: "read records from", Path: db.path, Err: err}
	}

	current, err := db.loadCurrentTask()
	if err != nil {
		return nil, &PersistenceError{Op: "read current task from", Path: db.path, Err: err}
	}

	return &model.Snapshot{CompletedTasks: records, CurrentTask: current}, nil
}

func (db *SQLite) loadRecords() ([]model.Record, error) {
	rows, err := db.Query(`
		SELECT id, date, project_id, task, task_id, category,
		       start_time, end_time, duration, breaks,
		       minutes_worked, faculty_student_staff
		FROM records
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		err := rows.Scan(
			&r.ID, &r.Date, &r.ProjectID, &r.Task, &r.TaskID, &r.Category,
			&r.StartTime, &r.EndTime, &r.Duration, &r.Breaks,
			&r.MinutesWorked, &r.FacultyStudentStaff,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (db *SQLite) loadCurrentTask() (*model.CurrentTask, error) {
	var ct model.CurrentTask
	err := db.QueryRow(`
		SELECT task, start_time, date, project
		FROM current_task WHERE id = 1
	`).Scan(&ct.Task, &ct.StartTime, &ct.Date, &ct.Project)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

// Save replaces both tables inside one transaction
func (db *SQLite) Save(snap *model.Snapshot) error {
	err := db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM records`); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO records (id, position, date, project_id, task, task_id, category,
			                     start_time, end_time, duration, breaks,
			                     minutes_worked, faculty_student_staff)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, r := range snap.CompletedTasks {
			_, err := stmt.Exec(
				r.ID, i, r.Date, r.ProjectID, r.Task, r.TaskID, r.Category,
				r.StartTime, r.EndTime, r.Duration, r.Breaks,
				r.MinutesWorked, r.FacultyStudentStaff,
			)
			if err != nil {
				return err
			}
		}

		if _, err := tx.Exec(`DELETE FROM current_task`); err != nil {
			return err
		}
		if ct := snap.CurrentTask; ct != nil {
			_, err := tx.Exec(`
				INSERT INTO current_task (id, task, start_time, date, project)
				VALUES (1, ?, ?, ?, ?)
			`, ct.Task, ct.StartTime, ct.Date, ct.Project)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &PersistenceError{Op: "write", Path: db.path, Err: err}
	}
	return nil
}
