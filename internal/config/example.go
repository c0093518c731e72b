package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo-app configuration file
# Values can be overridden by TODO_APP_* environment variables or CLI flags

# Directory holding the task file (default: ~/Documents/todo-app)
# data_dir = "~/Documents/todo-app"

# Task file, relative to data_dir unless absolute
todo_file = "todos.json"

# Timezone for created_at and updated_at (IANA name)
timezone = "Asia/Jakarta"

# Take an advisory lock on <todo_file>.lock while writing
file_lock = true

# Logging: debug, info, warn, error
log_level = "warn"

# Log format: text, json, logfmt
log_format = "text"

# Show timestamps in log lines
log_timestamps = false
`
}
