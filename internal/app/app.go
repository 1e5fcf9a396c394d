package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/worktrack/internal/config"
	"github.com/dori/worktrack/internal/debuglog"
	"github.com/dori/worktrack/internal/notify"
	"github.com/dori/worktrack/internal/report"
	"github.com/dori/worktrack/internal/store"
	"github.com/dori/worktrack/internal/tracker"
	"github.com/gofrs/flock"
)

const (
	lockFileName     = "worktrack.lock"
	instanceLockName = "worktrack-ui.lock"
)

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Store    *store.Store
	Tracker  *tracker.Tracker
	Notifier *notify.Notifier
	DataDir  string

	now      func() time.Time
	instance *flock.Flock
}

// New opens the configured backend and loads state. opts are passed to the
// tracker after the app's own observer.
func New(cfg *config.Config, opts ...tracker.Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DataDir:  cfg.DataDir,
		Notifier: notify.NewNotifier(cfg.Notifications.Enabled),
		now:      time.Now,
		Store: store.New(backend,
			store.WithLockFile(filepath.Join(cfg.DataDir, lockFileName)),
		),
	}

	opts = append([]tracker.Option{tracker.WithObserver(app.observe)}, opts...)
	app.Tracker = tracker.New(app.Store, opts...)

	if _, err := app.Store.Load(); err != nil {
		app.Store.Close()
		return nil, err
	}

	debuglog.Printf("app: opened %s backend in %s", cfg.Storage.Backend, cfg.DataDir)
	return app, nil
}

func openBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(filepath.Join(cfg.DataDir, store.DefaultDBName))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, nil
	default:
		return store.NewJSONFile(filepath.Join(cfg.DataDir, store.DefaultFileName)), nil
	}
}

func (a *App) observe(e tracker.Event) {
	var err error
	switch e.Kind {
	case tracker.EventStarted:
		debuglog.Printf("app: started %q project=%q at %s", e.Current.Task, e.Current.Project, e.Current.StartTime)
		err = a.Notifier.SendTaskStarted(e.Current.Task, e.Current.Project, e.Current.StartTime)
	case tracker.EventCompleted:
		debuglog.Printf("app: completed %q in %s", e.Record.Task, e.Record.Duration)
		err = a.Notifier.SendTaskCompleted(e.Record.Task, e.Record.Duration)
	case tracker.EventCleared:
		debuglog.Printf("app: cleared %d records", e.Cleared)
	default:
		debuglog.Printf("app: %s %s", e.Kind, e.Record.ID)
	}
	if err != nil {
		debuglog.Printf("app: notify: %v", err)
	}
}

// Export writes the completed log to a spreadsheet in dir, or in the
// configured report directory when dir is empty.
func (a *App) Export(dir string) (string, error) {
	records, err := a.Tracker.Records()
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = a.Config.Report.Dir
	}

	path, err := report.Export(records, dir, a.Config.Report.Prefix, a.now())
	if err != nil {
		return "", err
	}
	debuglog.Printf("app: exported %d records to %s", len(records), path)
	if err := a.Notifier.SendReportSaved(path); err != nil {
		debuglog.Printf("app: notify: %v", err)
	}
	return path, nil
}

// AcquireInstanceLock ensures only one interactive UI runs per data
// directory. One-shot commands share the directory freely.
func (a *App) AcquireInstanceLock() error {
	lockPath := filepath.Join(a.DataDir, instanceLockName)
	a.instance = flock.New(lockPath)

	locked, err := a.instance.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of worktrack is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.instance != nil {
		a.instance.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
