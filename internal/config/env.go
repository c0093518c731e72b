package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvDataDir       = "TODO_APP_DATA_DIR"
	EnvTodoFile      = "TODO_APP_FILE"
	EnvTimezone      = "TODO_APP_TIMEZONE"
	EnvFileLock      = "TODO_APP_FILE_LOCK"
	EnvLogLevel      = "TODO_APP_LOG_LEVEL"
	EnvLogFormat     = "TODO_APP_LOG_FORMAT"
	EnvLogTimestamps = "TODO_APP_LOG_TIMESTAMPS"
)

// loadFromEnv overrides config from environment variables. Empty values
// are ignored.
func loadFromEnv(cfg *Config) {
	setString := func(env, field string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
			cfg.setSource(field, SourceEnv)
		}
	}
	setBool := func(env, field string, dst *bool) {
		if v := os.Getenv(env); v != "" {
			*dst = boolFromString(v)
			cfg.setSource(field, SourceEnv)
		}
	}

	setString(EnvDataDir, "data_dir", &cfg.DataDir)
	setString(EnvTodoFile, "todo_file", &cfg.TodoFile)
	setString(EnvTimezone, "timezone", &cfg.Timezone)
	setBool(EnvFileLock, "file_lock", &cfg.FileLock)

	// Logging configuration
	setString(EnvLogLevel, "log_level", &cfg.LogLevel)
	setString(EnvLogFormat, "log_format", &cfg.LogFormat)
	setBool(EnvLogTimestamps, "log_timestamps", &cfg.LogTimestamps)
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
