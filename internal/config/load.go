package config

import (
	"flag"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todo-app/internal/appdir"
	"github.com/nibzard/todo-app/internal/logging"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file (todo-app.toml or .todo-app.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile decodes TOML from path on top of cfg and records the
// source of every key present in the file.
func loadConfigFile(cfg *Config, path string, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}

	for _, key := range md.Keys() {
		cfg.setSource(key.String(), source)
	}

	undecoded := md.Undecoded()
	if len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		for _, key := range keys {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: unknown key %q", path, key))
		}
	}

	cfg.ConfigFiles = append(cfg.ConfigFiles, path)
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn, error)", cfg.LogLevel)
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		return fmt.Errorf("invalid log_format %q (expected text, json, logfmt)", cfg.LogFormat)
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.TodoFile = expandPath(cfg.TodoFile)
	if cfg.TodoFile == "" {
		cfg.TodoFile = DefaultTodoFile
	}

	if filepath.IsAbs(cfg.TodoFile) {
		if cfg.DataDir == "" {
			cfg.DataDir = filepath.Dir(cfg.TodoFile)
		}
		return nil
	}

	switch cfg.Source("todo_file") {
	case SourceFlag, SourceEnv:
		abs, err := filepath.Abs(cfg.TodoFile)
		if err != nil {
			return fmt.Errorf("resolving todo file: %w", err)
		}
		cfg.TodoFile = abs
		if cfg.DataDir == "" {
			cfg.DataDir = filepath.Dir(abs)
		}
	default:
		if cfg.DataDir == "" {
			cfg.DataDir = appdir.DataDir()
		}
		cfg.TodoFile = filepath.Join(cfg.DataDir, cfg.TodoFile)
	}

	return nil
}
