// Package match locates tasks from loosely typed queries.
package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"

	"github.com/idilsaglam/taskz/internal/model"
)

// Closest returns the index of the task whose description is nearest to
// query by case-insensitive edit distance. The first task wins a tie.
// ok is false only when tasks is empty.
func Closest(tasks []model.Task, query string) (idx int, ok bool) {
	if len(tasks) == 0 {
		return 0, false
	}
	q := strings.ToLower(query)
	best := -1
	for i, t := range tasks {
		d := levenshtein.ComputeDistance(strings.ToLower(t.Description), q)
		if best < 0 || d < best {
			best, idx = d, i
		}
	}
	return idx, true
}

// Contains filters tasks whose description holds query, ignoring case.
// Store order is kept.
func Contains(tasks []model.Task, query string) []model.Task {
	q := strings.ToLower(query)
	out := []model.Task{}
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

type descriptions []model.Task

func (d descriptions) String(i int) string { return d[i].Description }
func (d descriptions) Len() int            { return len(d) }

// Suggest ranks tasks whose description contains the query's characters
// in order, best first, and returns at most limit of them.
func Suggest(tasks []model.Task, query string, limit int) []model.Task {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return nil
	}
	matches := fuzzy.FindFrom(query, descriptions(tasks))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]model.Task, 0, len(matches))
	for _, m := range matches {
		out = append(out, tasks[m.Index])
	}
	return out
}
