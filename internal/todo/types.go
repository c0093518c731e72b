// Package todo reads, writes, and validates the task file.
package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Task represents a single entry in the task list.
//
// Field order matches the persisted key order.
type Task struct {
	// ID is a process-local identifier. It is never written to disk.
	ID string `json:"-"`

	Text      string `json:"todo"`
	Done      bool   `json:"isdone"`
	Priority  bool   `json:"ispriority"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Load reads and parses a task file from path.
// A missing file yields an error matching os.ErrNotExist.
func Load(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read todo file: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal parses task file content. A JSON null yields an empty list.
func Unmarshal(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse todo file: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Marshal encodes tasks in the persisted format.
func Marshal(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("marshal todo file: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes tasks to path, replacing any previous content.
func Save(path string, tasks []Task) error {
	data, err := Marshal(tasks)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile replaces the file at path with data. The parent directory is
// created if missing. Content is written to a temporary file in the same
// directory and renamed over path.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create todo dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("write todo file: %w", err)
	}
	return nil
}

// Clone returns a copy of tasks that shares no backing array with the input.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
