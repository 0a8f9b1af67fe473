package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const taskSchema = `{
	"type": "object",
	"required": ["description", "created_at"],
	"properties": {
		"description": {"type": "string"},
		"created_at": {"type": "integer"}
	}
}`

var (
	taskValidator     = jsonschema.MustCompileString("https://taskz.local/task.json", taskSchema)
	taskListValidator = jsonschema.MustCompileString("https://taskz.local/tasks.json",
		`{"type": "array", "items": `+taskSchema+`}`)
)

// DecodeTasks parses a JSON array of tasks. Every element must carry a
// string description and an integer created_at.
func DecodeTasks(data []byte) ([]Task, error) {
	if err := validate(taskListValidator, data); err != nil {
		return nil, err
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return tasks, nil
}

// DecodeTask parses a single JSON task object.
func DecodeTask(data []byte) (Task, error) {
	if err := validate(taskValidator, data); err != nil {
		return Task{}, err
	}
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return Task{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return t, nil
}

func validate(schema *jsonschema.Schema, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("json parse: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("json parse: trailing data")
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid task data: %w", err)
	}
	return nil
}
