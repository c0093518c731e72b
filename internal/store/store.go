// Package store holds the authoritative task list and mirrors it to disk.
//
// A Store keeps tasks in memory in insertion order and rewrites the whole
// task file after every mutation. Tasks are addressed by their zero-based
// position; removing a task shifts every later task one place earlier, so
// callers must not cache positions across mutations. Each task also carries
// a process-local ID for callers that need a stable handle.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/nibzard/todo-app/internal/appdir"
	"github.com/nibzard/todo-app/internal/logging"
	"github.com/nibzard/todo-app/internal/todo"
)

// ErrNotFound is returned by the ID-addressed operations for unknown IDs.
var ErrNotFound = errors.New("task not found")

// Store owns the in-memory task list and the task file path.
type Store struct {
	path     string
	logger   *log.Logger
	now      func() time.Time
	loc      *time.Location
	fileLock *flock.Flock

	// mu guards tasks and loadErr. It is never held during file I/O.
	mu      sync.Mutex
	tasks   []todo.Task
	loadErr error

	// writeMu serializes file writes within the process.
	writeMu sync.Mutex

	// clockMu guards last, the most recent time handed out by timestamp.
	clockMu sync.Mutex
	last    time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the timezone timestamps are written in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithFileLock enables or disables the advisory lock taken on
// <path>.lock around every file write. It is enabled by default.
func WithFileLock(enabled bool) Option {
	return func(s *Store) {
		if enabled {
			s.fileLock = flock.New(appdir.LockPath(s.path))
		} else {
			s.fileLock = nil
		}
	}
}

// Open creates a Store for path and loads the file once.
//
// Open never fails. A missing file yields an empty list. An unreadable or
// malformed file also yields an empty list; the error is logged and kept
// for LoadErr.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		logger:   logging.Discard(),
		now:      time.Now,
		loc:      todo.FixedLocation,
		fileLock: flock.New(appdir.LockPath(path)),
		tasks:    []todo.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	tasks, err := todo.Load(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("no task file yet", "path", s.path)
		return
	case err != nil:
		s.loadErr = err
		s.logger.Warn("load failed, starting with an empty list", "path", s.path, "err", err)
		return
	}

	for i := range tasks {
		tasks[i].ID = uuid.NewString()
	}
	s.tasks = tasks
	s.logger.Debug("loaded", "path", s.path, "tasks", len(tasks))
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// LoadErr returns the error that occurred while loading the file at Open,
// or nil. A missing file is not an error.
func (s *Store) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Add appends a new task with done=false and an empty updated_at.
// The task is always added in memory; the returned error reports only a
// failed save.
func (s *Store) Add(text string, priority bool) error {
	task := todo.Task{
		ID:        uuid.NewString(),
		Text:      text,
		Done:      false,
		Priority:  priority,
		CreatedAt: s.timestamp(),
		UpdatedAt: "",
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	return s.persist()
}

// List returns a copy of the current tasks in insertion order.
func (s *Store) List() []todo.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return todo.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Update sets the done flag of the task at index, clears its priority flag,
// and stamps updated_at. An out-of-range index is a no-op. The file is
// rewritten either way.
func (s *Store) Update(index int, done bool) error {
	now := s.timestamp()

	s.mu.Lock()
	if index >= 0 && index < len(s.tasks) {
		s.setDone(index, done, now)
	} else {
		s.logger.Debug("index out of range", "op", "update", "index", index, "len", len(s.tasks))
	}
	s.mu.Unlock()

	return s.persist()
}

// Remove deletes the task at index, shifting later tasks one place
// earlier. An out-of-range index is a no-op. The file is rewritten either
// way.
func (s *Store) Remove(index int) error {
	s.mu.Lock()
	if index >= 0 && index < len(s.tasks) {
		s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	} else {
		s.logger.Debug("index out of range", "op", "remove", "index", index, "len", len(s.tasks))
	}
	s.mu.Unlock()

	return s.persist()
}

// IndexOf returns the current position of the task with the given ID.
func (s *Store) IndexOf(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	return i, i >= 0
}

// UpdateByID is Update addressed by task ID. Unknown IDs return ErrNotFound
// and leave the file untouched.
func (s *Store) UpdateByID(id string, done bool) error {
	now := s.timestamp()

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.setDone(i, done, now)
	s.mu.Unlock()

	return s.persist()
}

// RemoveByID is Remove addressed by task ID. Unknown IDs return ErrNotFound
// and leave the file untouched.
func (s *Store) RemoveByID(id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.mu.Unlock()

	return s.persist()
}

// setDone requires s.mu.
func (s *Store) setDone(i int, done bool, now string) {
	s.tasks[i].Done = done
	// Any update demotes the task.
	s.tasks[i].Priority = false
	s.tasks[i].UpdatedAt = now
}

// indexOf requires s.mu.
func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// timestamp returns the current time formatted for the task file. Successive
// calls never return the same instant, so an update made right after an add
// still sorts after the task's created_at.
func (s *Store) timestamp() string {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()

	now := s.now()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now
	return todo.FormatTimestamp(now, s.loc)
}

// persist snapshots the list under mu, then writes it without holding mu.
func (s *Store) persist() error {
	s.mu.Lock()
	data, err := todo.Marshal(s.tasks)
	n := len(s.tasks)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("encode failed", "path", s.path, "err", err)
		return err
	}

	if err := s.write(data); err != nil {
		s.logger.Error("save failed", "path", s.path, "err", err)
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	s.logger.Debug("saved", "path", s.path, "tasks", n)
	return nil
}

func (s *Store) write(data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.fileLock != nil {
		// The lock file lives next to the task file.
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return fmt.Errorf("create todo dir: %w", err)
		}
		if err := s.fileLock.Lock(); err != nil {
			return fmt.Errorf("lock %s: %w", s.fileLock.Path(), err)
		}
		defer func() { _ = s.fileLock.Unlock() }()
	}

	return todo.WriteFile(s.path, data)
}
