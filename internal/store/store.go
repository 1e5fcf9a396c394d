package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dori/worktrack/internal/debuglog"
	"github.com/dori/worktrack/internal/model"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

var (
	ErrPersistence = errors.New("persistence error")
	ErrCorrupt     = errors.New("state is corrupt")
)

// PersistenceError wraps a failure to read or write the durable state.
// It matches ErrPersistence as well as the underlying cause.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// Backend reads and writes the whole snapshot in one go.
// A missing medium loads as an empty snapshot, not an error.
type Backend interface {
	Load() (*model.Snapshot, error)
	Save(snap *model.Snapshot) error
	Close() error
}

// Store owns the in-progress slot and the completed log. Every mutation
// goes through Update, which persists before the new state becomes visible.
type Store struct {
	mu      sync.Mutex
	backend Backend
	lock    *flock.Flock
	snap    model.Snapshot
	newID   func() string
}

// Option configures a Store
type Option func(*Store)

// WithLockFile guards each load-mutate-save cycle with an exclusive file
// lock so separate processes sharing the data directory do not interleave.
func WithLockFile(path string) Option {
	return func(s *Store) {
		s.lock = flock.New(path)
	}
}

// WithIDGenerator replaces uuid generation for record IDs
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates a store over backend. Call Load before reading state.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh record identifier
func (s *Store) NewID() string {
	return s.newID()
}

// Load reads the persisted state and caches it. Records saved before
// identifiers existed are given one and written back straight away so the
// identifiers stay stable across loads.
func (s *Store) Load() (model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire()
	if err != nil {
		return model.Snapshot{}, err
	}
	defer unlock()

	snap, assigned, err := s.read()
	if err != nil {
		return model.Snapshot{}, err
	}
	if assigned > 0 {
		if err := s.backend.Save(snap); err != nil {
			return model.Snapshot{}, err
		}
		debuglog.Printf("store: assigned ids to %d legacy records", assigned)
	}
	s.snap = *snap
	return s.snap.Clone(), nil
}

// Save overwrites the persisted state with snap.
func (s *Store) Save(snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	next := snap.Clone()
	if err := s.backend.Save(&next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

// Snapshot returns a copy of the last loaded or saved state
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Update re-reads the persisted state, applies fn to a copy, and saves
// the result. If fn or the save fails, nothing changes.
func (s *Store) Update(fn func(*model.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	current, _, err := s.read()
	if err != nil {
		return err
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		debuglog.Printf("store: update rejected: %v", err)
		return err
	}
	if err := s.backend.Save(&next); err != nil {
		debuglog.Printf("store: save failed: %v", err)
		return err
	}
	s.snap = next
	debuglog.Printf("store: saved %d records, status=%s", len(next.CompletedTasks), next.Status())
	return nil
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) read() (*model.Snapshot, int, error) {
	snap, err := s.backend.Load()
	if err != nil {
		debuglog.Printf("store: load failed: %v", err)
		return nil, 0, err
	}
	assigned := 0
	for i := range snap.CompletedTasks {
		if snap.CompletedTasks[i].ID == "" {
			snap.CompletedTasks[i].ID = s.newID()
			assigned++
		}
	}
	return snap, assigned, nil
}

func (s *Store) acquire() (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	if err := s.lock.Lock(); err != nil {
		return nil, &PersistenceError{Op: "lock", Path: s.lock.Path(), Err: err}
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			debuglog.Printf("store: unlock %s: %v", s.lock.Path(), err)
		}
	}, nil
}
