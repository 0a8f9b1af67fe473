// Package tasks implements the taskz operations on top of the task
// store and the undo buffer.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/idilsaglam/taskz/internal/config"
	"github.com/idilsaglam/taskz/internal/match"
	"github.com/idilsaglam/taskz/internal/model"
	"github.com/idilsaglam/taskz/internal/store/jsonstore"
	"github.com/idilsaglam/taskz/internal/undo"
)

// Order selects how List sorts.
type Order int

const (
	ByCreated Order = iota
	ByDescription
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrLocked           = errors.New("task store is locked by another taskz process")
)

// LockTimeout bounds how long a mutating operation waits for the lock.
const LockTimeout = 5 * time.Second

// Service runs one operation per call against the files named in the
// config. Reads are lock-free; anything that writes holds the lock for
// its whole read-modify-write.
type Service struct {
	store  *jsonstore.Store
	undo   *undo.Buffer
	lock   *flock.Flock
	logger *log.Logger

	now         func() time.Time
	lockTimeout time.Duration
}

// New wires a Service to cfg's store, undo and lock paths.
func New(cfg *config.Config, logger *log.Logger) *Service {
	return &Service{
		store:  jsonstore.New(cfg.StorePath, logger),
		undo:   undo.New(cfg.UndoPath),
		lock:   flock.New(cfg.LockPath),
		logger: logger,

		now:         time.Now,
		lockTimeout: LockTimeout,
	}
}

func (s *Service) withLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.lock.Path()), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLocked
		}
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("release lock", "path", s.lock.Path(), "err", err)
		}
	}()
	return fn()
}

// Add appends a task stamped with the current time.
func (s *Service) Add(description string) (model.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.Task{}, ErrEmptyDescription
	}
	t := model.NewTask(description, s.now())
	err := s.withLock(func() error {
		items, err := s.store.Load()
		if err != nil {
			return err
		}
		return s.store.Save(append(items, t))
	})
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// List returns every task sorted by order. The file is left untouched.
func (s *Service) List(order Order) ([]model.Task, error) {
	items, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	switch order {
	case ByDescription:
		slices.SortStableFunc(items, func(a, b model.Task) int {
			return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
		})
	default:
		slices.SortStableFunc(items, func(a, b model.Task) int {
			switch {
			case a.CreatedAt < b.CreatedAt:
				return -1
			case a.CreatedAt > b.CreatedAt:
				return 1
			}
			return 0
		})
	}
	return items, nil
}

// Search returns tasks containing query, ignoring case, in store order.
func (s *Service) Search(query string) ([]model.Task, error) {
	items, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return match.Contains(items, query), nil
}

// Suggest offers near misses for a query that Search found nothing for.
func (s *Service) Suggest(query string, limit int) ([]model.Task, error) {
	items, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return match.Suggest(items, query, limit), nil
}

// Done removes the task closest to query and parks it in the undo
// buffer, replacing whatever was parked there. found is false when the
// store is empty.
func (s *Service) Done(query string) (removed model.Task, found bool, err error) {
	err = s.withLock(func() error {
		items, err := s.store.Load()
		if err != nil {
			return err
		}
		idx, ok := match.Closest(items, query)
		if !ok {
			return nil
		}
		removed, found = items[idx], true
		return s.remove(items, idx)
	})
	return removed, found, err
}

// DoneTask is Done for a task the caller already holds. The first task
// equal to t is removed.
func (s *Service) DoneTask(t model.Task) (found bool, err error) {
	err = s.withLock(func() error {
		items, err := s.store.Load()
		if err != nil {
			return err
		}
		idx := slices.Index(items, t)
		if idx < 0 {
			return nil
		}
		found = true
		return s.remove(items, idx)
	})
	return found, err
}

func (s *Service) remove(items []model.Task, idx int) error {
	removed := items[idx]
	items = slices.Delete(items, idx, idx+1)
	if err := s.store.Save(items); err != nil {
		return err
	}
	if err := s.undo.Remember(removed); err != nil {
		return err
	}
	s.logger.Debug("task done", "description", removed.Description)
	return nil
}

// Undo puts the last done task back. found is false when nothing is
// buffered. A damaged buffer yields an error wrapping undo.ErrCorrupt
// and leaves the store as it was.
func (s *Service) Undo() (restored model.Task, found bool, err error) {
	err = s.withLock(func() error {
		t, err := s.undo.Recall()
		if err != nil || t == nil {
			return err
		}
		items, err := s.store.Load()
		if err != nil {
			return err
		}
		if err := s.store.Save(append(items, *t)); err != nil {
			return err
		}
		restored, found = *t, true
		return s.undo.Clear()
	})
	return restored, found, err
}

// Edit renames the task closest to query. The timestamp is kept.
func (s *Service) Edit(query, description string) (updated model.Task, found bool, err error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.Task{}, false, ErrEmptyDescription
	}
	err = s.withLock(func() error {
		items, err := s.store.Load()
		if err != nil {
			return err
		}
		idx, ok := match.Closest(items, query)
		if !ok {
			return nil
		}
		items[idx].Description = description
		updated, found = items[idx], true
		return s.store.Save(items)
	})
	return updated, found, err
}

// Rename is Edit for a task the caller already holds.
func (s *Service) Rename(t model.Task, description string) (updated model.Task, found bool, err error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.Task{}, false, ErrEmptyDescription
	}
	err = s.withLock(func() error {
		items, err := s.store.Load()
		if err != nil {
			return err
		}
		idx := slices.Index(items, t)
		if idx < 0 {
			return nil
		}
		items[idx].Description = description
		updated, found = items[idx], true
		return s.store.Save(items)
	})
	return updated, found, err
}

// Clear empties the store. The undo buffer is kept.
func (s *Service) Clear() error {
	return s.withLock(func() error {
		return s.store.Save([]model.Task{})
	})
}
