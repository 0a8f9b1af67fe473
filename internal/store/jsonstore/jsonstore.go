package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/taskz/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// Every save rewrites the whole file.

// Store reads and writes the task list at a fixed path.
type Store struct {
	path   string
	logger *log.Logger
}

// New returns a Store for the file at path.
func New(path string, logger *log.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path is the backing file.
func (s *Store) Path() string { return s.path }

// Load returns the persisted tasks. A missing file and a file that does
// not hold a valid task list both yield an empty list; only read
// failures are reported.
func (s *Store) Load() ([]model.Task, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	tasks, err := model.DecodeTasks(b)
	if err != nil {
		s.logger.Debug("task file unreadable, starting empty", "path", s.path, "err", err)
		return []model.Task{}, nil
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Save overwrites the file with the given tasks as indented JSON.
func (s *Store) Save(tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	s.logger.Debug("saved tasks", "path", s.path, "count", len(tasks))
	return nil
}
