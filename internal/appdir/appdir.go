// Package appdir provides constants and utilities for the todo-app data directory.
package appdir

import (
	"os"
	"path/filepath"
)

const (
	// Name is the application directory name.
	Name = "todo-app"

	// DocumentsDir is the directory under the user's home that holds Name.
	DocumentsDir = "Documents"

	// FileName is the default task file name (inside the data directory).
	FileName = "todos.json"

	// LockSuffix is appended to the task file path to form the lock file path.
	LockSuffix = ".lock"
)

// DataDir resolves <home>/Documents/todo-app and creates it if missing.
// If the home directory cannot be determined or the directory cannot be
// created, it returns ".".
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	dir := filepath.Join(home, DocumentsDir, Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "."
	}
	return dir
}

// TodoPath returns the full path to the task file within a data directory.
func TodoPath(dataDir string) string {
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, FileName)
}

// LockPath returns the advisory lock file path for a task file.
func LockPath(todoPath string) string {
	return todoPath + LockSuffix
}
