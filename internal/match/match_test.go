package match

import (
	"reflect"
	"testing"

	"github.com/idilsaglam/taskz/internal/model"
)

func tasks(descs ...string) []model.Task {
	out := make([]model.Task, len(descs))
	for i, d := range descs {
		out[i] = model.Task{Description: d, CreatedAt: int64(i)}
	}
	return out
}

func TestClosest(t *testing.T) {
	tests := []struct {
		name  string
		tasks []model.Task
		query string
		want  int
		ok    bool
	}{
		{"empty store", nil, "anything", 0, false},
		{"exact match", tasks("buy milk", "walk dog"), "walk dog", 1, true},
		{"exact beats near", tasks("buy milks", "buy milk"), "buy milk", 1, true},
		{"case insensitive", tasks("walk dog", "Buy Milk"), "BUY MILK", 1, true},
		{"typo", tasks("buy milk", "walk dog"), "wlak dgo", 1, true},
		{"missing letter", tasks("call plumber", "pay rent"), "call plumbr", 0, true},
		{"tie picks first", tasks("abc", "abd"), "abx", 0, true},
		{"duplicates pick first", tasks("same", "same"), "same", 0, true},
		{"unrelated still resolves", tasks("only task"), "zzz", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.tasks, tt.query)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("Closest() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClosestDeterministic(t *testing.T) {
	ts := tasks("water plants", "wash car", "write report", "walk dog")
	first, _ := Closest(ts, "wa")
	for i := 0; i < 20; i++ {
		if got, _ := Closest(ts, "wa"); got != first {
			t.Fatalf("Closest() changed from %d to %d", first, got)
		}
	}
}

func TestContains(t *testing.T) {
	ts := tasks("Buy milk", "walk dog", "buy bread", "MILKSHAKE")

	got := Contains(ts, "milk")
	want := []model.Task{ts[0], ts[3]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Contains(milk) = %+v, want %+v", got, want)
	}

	if got := Contains(ts, "zebra"); len(got) != 0 {
		t.Errorf("Contains(zebra) = %+v, want empty", got)
	}
	if got := Contains(ts, ""); len(got) != len(ts) {
		t.Errorf("Contains(\"\") returned %d tasks, want %d", len(got), len(ts))
	}
}

func TestSuggest(t *testing.T) {
	ts := tasks("buy milk", "walk dog", "book flights")

	got := Suggest(ts, "bmk", 5)
	if len(got) != 1 || got[0].Description != "buy milk" {
		t.Errorf("Suggest(bmk) = %+v", got)
	}
	if got := Suggest(ts, "b", 1); len(got) != 1 {
		t.Errorf("Suggest limit not applied: %+v", got)
	}
	if got := Suggest(ts, "  ", 3); got != nil {
		t.Errorf("Suggest(blank) = %+v, want nil", got)
	}
	if got := Suggest(ts, "xyz", 3); len(got) != 0 {
		t.Errorf("Suggest(xyz) = %+v, want none", got)
	}
}
