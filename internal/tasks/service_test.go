package tasks

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/idilsaglam/taskz/internal/config"
	"github.com/idilsaglam/taskz/internal/logging"
	"github.com/idilsaglam/taskz/internal/model"
	"github.com/idilsaglam/taskz/internal/undo"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "taskz")
	return &config.Config{
		DataDir:   dir,
		StorePath: filepath.Join(dir, "tasks.json"),
		UndoPath:  filepath.Join(dir, "undo.json"),
		LockPath:  filepath.Join(dir, "taskz.lock"),
	}
}

// newService returns a Service whose clock ticks one second per call.
func newService(t *testing.T) (*Service, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	s := New(cfg, logging.Discard())
	clock := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s, cfg
}

func mustAdd(t *testing.T, s *Service, descs ...string) []model.Task {
	t.Helper()
	var out []model.Task
	for _, d := range descs {
		task, err := s.Add(d)
		if err != nil {
			t.Fatalf("Add(%q) error = %v", d, err)
		}
		out = append(out, task)
	}
	return out
}

func mustLoad(t *testing.T, s *Service) []model.Task {
	t.Helper()
	items, err := s.store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return items
}

func fileBytes(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatal(err)
	}
	return b
}

func sameSet(a, b []model.Task) bool {
	key := func(x, y model.Task) int {
		if x.CreatedAt != y.CreatedAt {
			return int(x.CreatedAt - y.CreatedAt)
		}
		if x.Description < y.Description {
			return -1
		}
		if x.Description > y.Description {
			return 1
		}
		return 0
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.SortFunc(a, key)
	slices.SortFunc(b, key)
	return slices.Equal(a, b)
}

func TestAdd(t *testing.T) {
	s, _ := newService(t)
	got := mustAdd(t, s, "buy milk", "  walk dog  ")

	if got[0].Description != "buy milk" || got[0].CreatedAt != 1_700_000_001 {
		t.Errorf("first task = %+v", got[0])
	}
	if got[1].Description != "walk dog" {
		t.Errorf("description not trimmed: %q", got[1].Description)
	}
	if items := mustLoad(t, s); !reflect.DeepEqual(items, got) {
		t.Errorf("store = %+v, want %+v", items, got)
	}

	if _, err := s.Add("   "); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("Add(blank) error = %v, want ErrEmptyDescription", err)
	}
}

func TestListOrders(t *testing.T) {
	s, cfg := newService(t)
	mustAdd(t, s, "walk dog", "Buy milk", "answer email")
	before := fileBytes(t, cfg.StorePath)

	created, err := s.List(ByCreated)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, task := range created {
		got = append(got, task.Description)
	}
	if want := []string{"walk dog", "Buy milk", "answer email"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List(ByCreated) = %v, want %v", got, want)
	}

	alpha, err := s.List(ByDescription)
	if err != nil {
		t.Fatal(err)
	}
	got = got[:0]
	for _, task := range alpha {
		got = append(got, task.Description)
	}
	if want := []string{"answer email", "Buy milk", "walk dog"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List(ByDescription) = %v, want %v", got, want)
	}

	if after := fileBytes(t, cfg.StorePath); string(after) != string(before) {
		t.Error("List rewrote the store file")
	}
}

func TestListSortsByTimestampNotFileOrder(t *testing.T) {
	s, _ := newService(t)
	items := []model.Task{
		{Description: "later", CreatedAt: 30},
		{Description: "earliest", CreatedAt: 10},
		{Description: "middle", CreatedAt: 20},
	}
	if err := s.store.Save(items); err != nil {
		t.Fatal(err)
	}
	got, err := s.List(ByCreated)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Description != "earliest" || got[2].Description != "later" {
		t.Errorf("List(ByCreated) = %+v", got)
	}
}

func TestSearch(t *testing.T) {
	s, cfg := newService(t)
	mustAdd(t, s, "Buy milk", "walk dog", "milk the cow")
	before := fileBytes(t, cfg.StorePath)

	got, err := s.Search("MILK")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Description != "Buy milk" || got[1].Description != "milk the cow" {
		t.Errorf("Search(MILK) = %+v", got)
	}

	got, err = s.Search("cat")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Search(cat) = %+v, want none", got)
	}

	if after := fileBytes(t, cfg.StorePath); string(after) != string(before) {
		t.Error("Search rewrote the store file")
	}
}

func TestSuggest(t *testing.T) {
	s, _ := newService(t)
	mustAdd(t, s, "buy milk", "walk dog")
	got, err := s.Suggest("bymlk", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Description != "buy milk" {
		t.Errorf("Suggest(bymlk) = %+v", got)
	}
}

func TestDoneUndoRestoresStore(t *testing.T) {
	s, cfg := newService(t)
	original := mustAdd(t, s, "buy milk", "walk dog")

	removed, found, err := s.Done("buy milk")
	if err != nil || !found {
		t.Fatalf("Done() = %v, %v", found, err)
	}
	if removed != original[0] {
		t.Errorf("Done removed %+v, want %+v", removed, original[0])
	}
	if items := mustLoad(t, s); !reflect.DeepEqual(items, original[1:]) {
		t.Errorf("store after done = %+v", items)
	}

	restored, found, err := s.Undo()
	if err != nil || !found {
		t.Fatalf("Undo() = %v, %v", found, err)
	}
	if restored != original[0] {
		t.Errorf("Undo restored %+v, want %+v", restored, original[0])
	}
	if items := mustLoad(t, s); !sameSet(items, original) {
		t.Errorf("store after undo = %+v, want %+v", items, original)
	}
	if _, err := os.Stat(cfg.UndoPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("undo buffer not cleared: %v", err)
	}
}

func TestDoneFuzzy(t *testing.T) {
	s, _ := newService(t)
	mustAdd(t, s, "buy milk", "walk dog")

	removed, found, err := s.Done("wlk dog")
	if err != nil || !found {
		t.Fatalf("Done() = %v, %v", found, err)
	}
	if removed.Description != "walk dog" {
		t.Errorf("Done removed %q, want walk dog", removed.Description)
	}
}

func TestDoneEmptyStore(t *testing.T) {
	s, cfg := newService(t)
	_, found, err := s.Done("anything")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("Done on empty store reported a match")
	}
	if _, err := os.Stat(cfg.UndoPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("Done on empty store wrote the undo buffer")
	}
}

func TestUndoKeepsOnlyLastDone(t *testing.T) {
	s, _ := newService(t)
	added := mustAdd(t, s, "one", "two", "three")

	if _, _, err := s.Done("one"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Done("two"); err != nil {
		t.Fatal(err)
	}

	restored, found, err := s.Undo()
	if err != nil || !found {
		t.Fatalf("Undo() = %v, %v", found, err)
	}
	if restored != added[1] {
		t.Errorf("Undo restored %+v, want %+v", restored, added[1])
	}

	_, found, err = s.Undo()
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("second Undo found a task; the buffer holds one slot")
	}
	if items := mustLoad(t, s); !sameSet(items, []model.Task{added[1], added[2]}) {
		t.Errorf("store = %+v", items)
	}
}

func TestUndoNothing(t *testing.T) {
	s, _ := newService(t)
	_, found, err := s.Undo()
	if err != nil || found {
		t.Errorf("Undo() on empty buffer = %v, %v", found, err)
	}
}

func TestUndoCorruptLeavesStore(t *testing.T) {
	s, cfg := newService(t)
	mustAdd(t, s, "keep me")
	before := fileBytes(t, cfg.StorePath)
	if err := os.WriteFile(cfg.UndoPath, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, found, err := s.Undo()
	if !errors.Is(err, undo.ErrCorrupt) {
		t.Fatalf("Undo() error = %v, want ErrCorrupt", err)
	}
	if found {
		t.Error("Undo() reported a restore")
	}
	if after := fileBytes(t, cfg.StorePath); string(after) != string(before) {
		t.Error("store changed after corrupt undo")
	}
}

func TestEdit(t *testing.T) {
	s, _ := newService(t)
	added := mustAdd(t, s, "buy milk", "walk dog")

	updated, found, err := s.Edit("by mlk", "buy oat milk")
	if err != nil || !found {
		t.Fatalf("Edit() = %v, %v", found, err)
	}
	if updated.Description != "buy oat milk" || updated.CreatedAt != added[0].CreatedAt {
		t.Errorf("Edit() = %+v", updated)
	}
	items := mustLoad(t, s)
	if items[0] != updated || items[1] != added[1] {
		t.Errorf("store = %+v", items)
	}

	if _, _, err := s.Edit("walk", " "); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("Edit(blank) error = %v", err)
	}
}

func TestEditEmptyStore(t *testing.T) {
	s, cfg := newService(t)
	_, found, err := s.Edit("x", "y")
	if err != nil || found {
		t.Errorf("Edit() on empty store = %v, %v", found, err)
	}
	if _, err := os.Stat(cfg.StorePath); !errors.Is(err, os.ErrNotExist) {
		t.Error("Edit on empty store created the store file")
	}
}

func TestClearKeepsUndo(t *testing.T) {
	s, cfg := newService(t)
	added := mustAdd(t, s, "a", "b", "c")
	if _, _, err := s.Done("a"); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if items := mustLoad(t, s); len(items) != 0 {
		t.Errorf("store after clear = %+v", items)
	}
	if _, err := os.Stat(cfg.UndoPath); err != nil {
		t.Errorf("undo buffer gone after clear: %v", err)
	}

	restored, found, err := s.Undo()
	if err != nil || !found || restored != added[0] {
		t.Errorf("Undo() after clear = %+v, %v, %v", restored, found, err)
	}
}

func TestClearRecoversCorruptStore(t *testing.T) {
	s, cfg := newService(t)
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.StorePath, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := s.List(ByCreated)
	if err != nil || len(items) != 0 {
		t.Fatalf("List() on corrupt store = %+v, %v", items, err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := string(fileBytes(t, cfg.StorePath)); got != "[]" {
		t.Errorf("store file = %q, want []", got)
	}
}

func TestDoneTaskAndRename(t *testing.T) {
	s, _ := newService(t)
	added := mustAdd(t, s, "same", "same", "other")

	found, err := s.DoneTask(added[1])
	if err != nil || !found {
		t.Fatalf("DoneTask() = %v, %v", found, err)
	}
	if items := mustLoad(t, s); !reflect.DeepEqual(items, []model.Task{added[0], added[2]}) {
		t.Errorf("store = %+v", items)
	}

	found, err = s.DoneTask(model.Task{Description: "ghost", CreatedAt: 1})
	if err != nil || found {
		t.Errorf("DoneTask(ghost) = %v, %v", found, err)
	}

	updated, found, err := s.Rename(added[2], "renamed")
	if err != nil || !found {
		t.Fatalf("Rename() = %v, %v", found, err)
	}
	if updated.Description != "renamed" || updated.CreatedAt != added[2].CreatedAt {
		t.Errorf("Rename() = %+v", updated)
	}

	restored, found, err := s.Undo()
	if err != nil || !found || restored != added[1] {
		t.Errorf("Undo() after DoneTask = %+v, %v, %v", restored, found, err)
	}
}

func TestLockedStore(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("lock semantics differ")
	}
	s, cfg := newService(t)
	s.lockTimeout = 100 * time.Millisecond
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	other := flock.New(cfg.LockPath)
	if err := other.Lock(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("blocked"); !errors.Is(err, ErrLocked) {
		t.Errorf("Add() while locked error = %v, want ErrLocked", err)
	}
	if _, err := s.List(ByCreated); err != nil {
		t.Errorf("List() while locked error = %v", err)
	}

	if err := other.Unlock(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("free"); err != nil {
		t.Errorf("Add() after unlock error = %v", err)
	}
}
