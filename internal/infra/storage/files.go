// Package storage keeps the hand-off files shared by the pipeline stages
// in a local data directory.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"weekly-menu/internal/domain/entity"
)

// File names inside the data directory.
const (
	IntakeFile        = "intake.json"
	GeneratedMenuFile = "generated_menu.json"
)

// ErrNotExist is returned when a hand-off file has not been written yet.
var ErrNotExist = errors.New("hand-off file does not exist")

// Files reads and writes JSON hand-off files under a directory.
type Files struct {
	dir string
}

// NewFiles returns a Files rooted at dir. The directory is created on first write.
func NewFiles(dir string) *Files {
	return &Files{dir: dir}
}

// Path returns the absolute location of name.
func (f *Files) Path(name string) string {
	return filepath.Join(f.dir, name)
}

// SaveIntake writes raw intake JSON, re-indented.
func (f *Files) SaveIntake(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: intake is not valid JSON: %v", entity.ErrInvalidInput, err)
	}
	return f.writeJSON(IntakeFile, v)
}

// LoadIntakeBytes returns the saved intake file contents.
func (f *Files) LoadIntakeBytes() ([]byte, error) {
	return f.read(IntakeFile)
}

// RemoveIntake deletes the saved intake so a stale week is never reused.
// Removing a missing file is not an error.
func (f *Files) RemoveIntake() error {
	if err := os.Remove(f.Path(IntakeFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", IntakeFile, err)
	}
	return nil
}

// SaveMenu writes the generated menu.
func (f *Files) SaveMenu(m *entity.GeneratedMenu) error {
	return f.writeJSON(GeneratedMenuFile, m)
}

// LoadMenu reads the generated menu written by SaveMenu.
func (f *Files) LoadMenu() (*entity.GeneratedMenu, error) {
	data, err := f.read(GeneratedMenuFile)
	if err != nil {
		return nil, err
	}
	var m entity.GeneratedMenu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", GeneratedMenuFile, err)
	}
	return &m, nil
}

func (f *Files) read(name string) ([]byte, error) {
	data, err := os.ReadFile(f.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// writeJSON encodes v with two-space indent, without HTML escaping, and replaces name atomically.
func (f *Files) writeJSON(name string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data := buf.Bytes()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), f.Path(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
