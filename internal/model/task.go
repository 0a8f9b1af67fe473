package model

import "time"

// Task is the domain model for a todo entry.
// The description is the only thing that identifies it.
type Task struct {
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"` // seconds since epoch
}

// NewTask stamps a task with the given creation time.
func NewTask(description string, now time.Time) Task {
	return Task{Description: description, CreatedAt: now.Unix()}
}
