// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (OS-specific config directory)
// 3. Project config file (todo-app.toml or .todo-app.toml in the working directory)
// 4. Environment variables (TODO_APP_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - Windows: %APPDATA%\todo-app\config.toml
// - macOS: ~/Library/Application Support/todo-app/config.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todo-app/config.toml or ~/.config/todo-app/config.toml
//
// The task file defaults to <home>/Documents/todo-app/todos.json. A relative
// todo_file from a config file is resolved against data_dir; one given by
// flag or environment is resolved against the working directory.
package config
