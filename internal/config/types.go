// Package config handles configuration loading and defaults.
package config

import (
	"github.com/nibzard/todo-app/internal/appdir"
	"github.com/nibzard/todo-app/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultTodoFile      = appdir.FileName
	DefaultTimezone      = todo.DefaultTimezone
	DefaultFileLock      = true
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultLogTimestamps = false
)

// Config holds the full configuration for todo-app.
type Config struct {
	// Paths. An empty DataDir resolves to <home>/Documents/todo-app.
	DataDir  string `toml:"data_dir"`
	TodoFile string `toml:"todo_file"`

	// Timezone for created_at and updated_at.
	Timezone string `toml:"timezone"`

	// FileLock takes an advisory lock on <todo_file>.lock while writing.
	FileLock bool `toml:"file_lock"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// ConfigFiles lists the files that were loaded, lowest priority first.
	ConfigFiles []string `toml:"-"`

	// Warnings collects non-fatal problems found while loading.
	Warnings []string `toml:"-"`

	// Sources maps config keys to where their value came from.
	Sources map[string]ConfigSource `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_dir",
		"todo_file",
		"timezone",
		"file_lock",
		"log_level",
		"log_format",
		"log_timestamps",
	}
}

// Source returns where the value of a config key came from.
func (c *Config) Source(field string) ConfigSource {
	if c.Sources == nil {
		return SourceDefault
	}
	if s, ok := c.Sources[field]; ok {
		return s
	}
	return SourceDefault
}

func (c *Config) setSource(field string, source ConfigSource) {
	if c.Sources == nil {
		c.Sources = make(map[string]ConfigSource)
	}
	c.Sources[field] = source
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = ""
	cfg.TodoFile = DefaultTodoFile
	cfg.Timezone = DefaultTimezone
	cfg.FileLock = DefaultFileLock
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = DefaultLogTimestamps

	for _, field := range configFields() {
		cfg.setSource(field, SourceDefault)
	}
}
