// Package config tests configuration loading.
package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// isolate points HOME and the config directories at a temp dir, clears the
// TODO_APP_* variables and changes into an empty working directory.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, env := range []string{
		EnvDataDir, EnvTodoFile, EnvTimezone, EnvFileLock,
		EnvLogLevel, EnvLogFormat, EnvLogTimestamps,
	} {
		t.Setenv(env, "")
	}
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.TodoFile != DefaultTodoFile {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, DefaultTodoFile)
	}
	if cfg.Timezone != "Asia/Jakarta" {
		t.Errorf("Timezone: got %q, want Asia/Jakarta", cfg.Timezone)
	}
	if !cfg.FileLock {
		t.Errorf("FileLock: got false, want true")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
	for _, field := range configFields() {
		if got := cfg.Source(field); got != SourceDefault {
			t.Errorf("Source(%s): got %q, want %q", field, got, SourceDefault)
		}
	}
}

func TestLoadDefaultPath(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantDir := filepath.Join(home, "Documents", "todo-app")
	if cfg.DataDir != wantDir {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, wantDir)
	}
	if want := filepath.Join(wantDir, "todos.json"); cfg.TodoFile != want {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, want)
	}
	if len(cfg.ConfigFiles) != 0 {
		t.Errorf("ConfigFiles: got %v, want none", cfg.ConfigFiles)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTodoFile, "custom-todo.json")
	t.Setenv(EnvTimezone, "UTC")
	t.Setenv(EnvFileLock, "off")
	t.Setenv(EnvLogLevel, "debug")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.TodoFile != "custom-todo.json" {
		t.Errorf("TodoFile: got %q, want custom-todo.json", cfg.TodoFile)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone: got %q, want UTC", cfg.Timezone)
	}
	if cfg.FileLock {
		t.Errorf("FileLock: got true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if got := cfg.Source("todo_file"); got != SourceEnv {
		t.Errorf("Source(todo_file): got %q, want %q", got, SourceEnv)
	}
	if got := cfg.Source("log_format"); got != SourceDefault {
		t.Errorf("Source(log_format): got %q, want %q", got, SourceDefault)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todo-app.toml")
	writeFile(t, configFile, `todo_file = "custom.json"
timezone = "UTC"
log_format = "json"
colour = "blue"
`)

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.TodoFile != "custom.json" {
		t.Errorf("TodoFile: got %q, want custom.json", cfg.TodoFile)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cfg.LogFormat)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if got := cfg.Source("timezone"); got != SourceProjFile {
		t.Errorf("Source(timezone): got %q, want %q", got, SourceProjFile)
	}
	if got := cfg.Source("log_level"); got != SourceDefault {
		t.Errorf("Source(log_level): got %q, want %q", got, SourceDefault)
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], `"colour"`) {
		t.Errorf("Warnings: got %v, want one about colour", cfg.Warnings)
	}
	if len(cfg.ConfigFiles) != 1 || cfg.ConfigFiles[0] != configFile {
		t.Errorf("ConfigFiles: got %v, want [%s]", cfg.ConfigFiles, configFile)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "todo-app.toml")
	writeFile(t, configFile, "todo_file = \n")

	cfg := &Config{}
	setDefaults(cfg)
	if err := loadConfigFile(cfg, configFile, SourceProjFile); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}

func TestLoadPrecedence(t *testing.T) {
	home, work := isolate(t)
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("user config location differs on this OS")
	}

	dataDir := filepath.Join(work, "data")
	writeFile(t, filepath.Join(home, ".config", "todo-app", "config.toml"), `data_dir = "`+filepath.ToSlash(dataDir)+`"
timezone = "Europe/Berlin"
log_level = "info"
log_format = "logfmt"
`)
	writeFile(t, filepath.Join(work, "todo-app.toml"), `timezone = "UTC"
log_level = "error"
`)
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-log-format", "json"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"data_dir", cfg.DataDir, dataDir, SourceUserFile},
		{"timezone", cfg.Timezone, "UTC", SourceProjFile},
		{"log_level", cfg.LogLevel, "debug", SourceEnv},
		{"log_format", cfg.LogFormat, "json", SourceFlag},
		{"todo_file", cfg.TodoFile, filepath.Join(dataDir, "todos.json"), SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s: got %q, want %q", tt.field, tt.got, tt.want)
			}
			if got := cfg.Source(tt.field); got != tt.source {
				t.Errorf("Source(%s): got %q, want %q", tt.field, got, tt.source)
			}
		})
	}

	if len(cfg.ConfigFiles) != 2 {
		t.Errorf("ConfigFiles: got %v, want user and project file", cfg.ConfigFiles)
	}
}

func TestLoadRelativeFile(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     string
		project string
		want    func(work string) string
	}{
		{
			name: "flag resolves against working directory",
			args: []string{"-file", "mine.json"},
			want: func(work string) string { return filepath.Join(work, "mine.json") },
		},
		{
			name: "env resolves against working directory",
			env:  filepath.Join("sub", "mine.json"),
			want: func(work string) string { return filepath.Join(work, "sub", "mine.json") },
		},
		{
			name:    "config file resolves against data_dir",
			project: "data_dir = \"store\"\ntodo_file = \"mine.json\"\n",
			want:    func(work string) string { return filepath.Join("store", "mine.json") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			cwd, err := os.Getwd()
			if err != nil {
				t.Fatal(err)
			}
			if tt.env != "" {
				t.Setenv(EnvTodoFile, tt.env)
			}
			if tt.project != "" {
				writeFile(t, filepath.Join(cwd, "todo-app.toml"), tt.project)
			}

			cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), tt.args)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if want := tt.want(cwd); cfg.TodoFile != want {
				t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, want)
			}
		})
	}
}

func TestLoadAbsoluteFile(t *testing.T) {
	isolate(t)
	abs := filepath.Join(t.TempDir(), "elsewhere", "tasks.json")

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-file", abs})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TodoFile != abs {
		t.Errorf("TodoFile: got %q, want %q", cfg.TodoFile, abs)
	}
	if cfg.DataDir != filepath.Dir(abs) {
		t.Errorf("DataDir: got %q, want %q", cfg.DataDir, filepath.Dir(abs))
	}
}

func TestLoadInvalidLogging(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"level", []string{"-log-level", "loud"}},
		{"format", []string{"-log-format", "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), tt.args); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadHelpFlag(t *testing.T) {
	isolate(t)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	_, err := Load(fs, []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("Load(-h): got %v, want flag.ErrHelp", err)
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	args := []string{"-file", "x.json", "-file-lock=false", "-log-timestamps", "ls", "-json"}
	if err := parseFlags(cfg, fs, args); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.TodoFile != "x.json" {
		t.Errorf("TodoFile: got %q, want x.json", cfg.TodoFile)
	}
	if cfg.FileLock {
		t.Errorf("FileLock: got true, want false")
	}
	if !cfg.LogTimestamps {
		t.Errorf("LogTimestamps: got false, want true")
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "ls" {
		t.Errorf("Args: got %v, want [ls -json]", got)
	}
	if got := cfg.Source("file_lock"); got != SourceFlag {
		t.Errorf("Source(file_lock): got %q, want %q", got, SourceFlag)
	}
	if got := cfg.Source("timezone"); got != SourceDefault {
		t.Errorf("Source(timezone): got %q, want %q", got, SourceDefault)
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" yes ", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TODO_APP_TEST_DIR", "/srv/tasks")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"$TODO_APP_TEST_DIR/todos.json", "/srv/tasks/todos.json"},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}
	if runtime.GOOS != "windows" {
		tests = append(tests, struct {
			input string
			want  string
		}{`~\test`, `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "todo-app.toml")
	writeFile(t, configFile, ExampleConfig())

	cfg := &Config{}
	if err := loadConfigFile(cfg, configFile, SourceProjFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("Warnings: got %v, want none", cfg.Warnings)
	}
	if cfg.Timezone != DefaultTimezone || cfg.TodoFile != DefaultTodoFile {
		t.Errorf("example values: got timezone %q file %q", cfg.Timezone, cfg.TodoFile)
	}
}
