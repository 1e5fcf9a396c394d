package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dori/worktrack/internal/model"
)

// DefaultFileName is the state file inside the data directory
const DefaultFileName = "tasks.json"

// JSONFile keeps the snapshot in a single indented JSON document
type JSONFile struct {
	path string
}

// NewJSONFile returns a backend for the file at path. The file does not
// need to exist yet.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the file location
func (f *JSONFile) Path() string {
	return f.path
}

// Load reads the file. A missing file is an empty snapshot; a file that
// exists but cannot be decoded is reported as ErrCorrupt and left alone.
func (f *JSONFile) Load() (*model.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &model.Snapshot{}, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: f.path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &PersistenceError{Op: "decode", Path: f.path, Err: fmt.Errorf("%w: file is empty", ErrCorrupt)}
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &PersistenceError{Op: "decode", Path: f.path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	return &snap, nil
}

// Save replaces the file atomically: the new content is written and synced
// to a temp file in the same directory, then renamed over the old one.
func (f *JSONFile) Save(snap *model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return &PersistenceError{Op: "encode", Path: f.path, Err: err}
	}
	data = append(data, '\n')

	if err := writeFileAtomic(f.path, data, 0o644); err != nil {
		return &PersistenceError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

// Close is a no-op; the file is not held open between calls
func (f *JSONFile) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
