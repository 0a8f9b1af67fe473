// Package undo persists the single task that the last "done" removed.
package undo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/taskz/internal/model"
)

// ErrCorrupt means the buffer file exists but does not hold a task.
// Callers treat it as fatal; there is no silent fallback here.
var ErrCorrupt = errors.New("undo buffer corrupt")

// Buffer is a one-slot, file-backed holding area.
type Buffer struct {
	path string
}

// New returns a Buffer stored at path.
func New(path string) *Buffer {
	return &Buffer{path: path}
}

// Path is the backing file.
func (b *Buffer) Path() string { return b.path }

// Remember replaces whatever the buffer held with t.
func (b *Buffer) Remember(t model.Task) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("write undo file: %w", err)
	}
	return nil
}

// Recall returns the buffered task, or nil when the buffer is empty.
func (b *Buffer) Recall() (*model.Task, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read undo file: %w", err)
	}
	t, err := model.DecodeTask(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &t, nil
}

// Clear empties the buffer. Clearing an empty buffer is a no-op.
func (b *Buffer) Clear() error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove undo file: %w", err)
	}
	return nil
}
