package config

import (
	"flag"
)

// flagFields maps flag names to config keys.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"file":           "todo_file",
	"tz":             "timezone",
	"file-lock":      "file_lock",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
}

// RegisterFlags defines the global flags on fs, bound to cfg. Values
// already in cfg become the flag defaults.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	// Paths
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding the task file")
	fs.StringVar(&cfg.TodoFile, "file", cfg.TodoFile, "Path to task file")

	// Storage
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "Timezone for task timestamps")
	fs.BoolVar(&cfg.FileLock, "file-lock", cfg.FileLock, "Lock the task file while writing")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
}

// parseFlags defines and parses CLI flags. Flags set explicitly on the
// command line are recorded with SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo-app", flag.ContinueOnError)
	}

	RegisterFlags(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			cfg.setSource(field, SourceFlag)
		}
	})
	return nil
}
