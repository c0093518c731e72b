// Package cmd implements the CLI command structure for todo-app.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-app/internal/appdir"
	"github.com/nibzard/todo-app/internal/config"
	"github.com/nibzard/todo-app/internal/logging"
	"github.com/nibzard/todo-app/internal/store"
	"github.com/nibzard/todo-app/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrUsage marks errors caused by bad command-line input.
var ErrUsage = errors.New("usage error")

// cli carries what every command needs.
type cli struct {
	cfg    *config.Config
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer
}

// Run executes the todo-app CLI with the process's standard streams.
func Run(ctx context.Context, args []string) error {
	return RunIO(ctx, args, os.Stdout, os.Stderr)
}

// RunIO executes the todo-app CLI writing command output to stdout and
// diagnostics to stderr.
func RunIO(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo-app", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	c := &cli{
		cfg:    cfg,
		logger: logging.NewFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, stderr),
		stdout: stdout,
		stderr: stderr,
	}
	for _, w := range cfg.Warnings {
		c.logger.Warn("config", "warning", w)
	}

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return c.versionCommand()
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stderr)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	subcommand, rest := remaining[0], remaining[1:]

	if err := ctx.Err(); err != nil {
		return err
	}

	// Execute the subcommand
	switch subcommand {
	case "add":
		return c.addCommand(rest)
	case "ls", "list":
		return c.lsCommand(rest)
	case "done":
		return c.updateCommand("done", rest, true)
	case "undone":
		return c.updateCommand("undone", rest, false)
	case "rm", "remove":
		return c.rmCommand(rest)
	case "doctor":
		return c.doctorCommand(rest)
	case "path":
		fmt.Fprintln(stdout, cfg.TodoFile)
		return nil
	case "config":
		return c.configCommand(rest)
	case "schema":
		_, err := stdout.Write(todo.SchemaJSON())
		return err
	case "version":
		return c.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("%w: unknown command: %s", ErrUsage, subcommand)
	}
}

// newFlagSet returns a subcommand flag set that reports to stderr.
func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("todo-app "+name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// openStore opens the configured task file.
func (c *cli) openStore() *store.Store {
	loc, err := todo.LoadLocation(c.cfg.Timezone)
	if err != nil {
		c.logger.Warn("unknown timezone, using UTC+7", "timezone", c.cfg.Timezone, "err", err)
		loc = todo.FixedLocation
	}
	return store.Open(c.cfg.TodoFile,
		store.WithLogger(c.logger),
		store.WithLocation(loc),
		store.WithFileLock(c.cfg.FileLock),
	)
}

// openForWrite opens the store and refuses to continue if the existing file
// could not be read, so a mutation never replaces a damaged file.
func (c *cli) openForWrite() (*store.Store, error) {
	s := c.openStore()
	if err := s.LoadErr(); err != nil {
		return nil, fmt.Errorf("task file %s is unreadable (run 'todo-app doctor'): %w", s.Path(), err)
	}
	return s, nil
}

// addCommand appends a task.
func (c *cli) addCommand(args []string) error {
	fs := c.newFlagSet("add")
	priority := fs.Bool("priority", false, "Mark the task as priority")
	fs.BoolVar(priority, "p", false, "Mark the task as priority")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: add requires task text", ErrUsage)
	}

	s, err := c.openForWrite()
	if err != nil {
		return err
	}
	if err := s.Add(text, *priority); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Added #%d: %s\n", s.Len()-1, text)
	return nil
}

// lsCommand prints tasks in insertion order.
func (c *cli) lsCommand(args []string) error {
	fs := c.newFlagSet("ls")
	asJSON := fs.Bool("json", false, "Print tasks in the task file format")
	pending := fs.Bool("pending", false, "Only tasks that are not done")
	onlyPriority := fs.Bool("priority", false, "Only priority tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, fs.Args())
	}

	s := c.openStore()
	if err := s.LoadErr(); err != nil {
		return fmt.Errorf("loading todo file: %w", err)
	}

	tasks := s.List()
	indices := make([]int, 0, len(tasks))
	for i, t := range tasks {
		if *pending && t.Done {
			continue
		}
		if *onlyPriority && !t.Priority {
			continue
		}
		indices = append(indices, i)
	}

	if *asJSON {
		selected := make([]todo.Task, 0, len(indices))
		for _, i := range indices {
			selected = append(selected, tasks[i])
		}
		data, err := todo.Marshal(selected)
		if err != nil {
			return err
		}
		_, err = c.stdout.Write(data)
		return err
	}

	if len(indices) == 0 {
		fmt.Fprintln(c.stdout, "No tasks.")
		return nil
	}
	return printTaskTable(c.stdout, tasks, indices)
}

// printTaskTable prints the selected tasks with their list positions.
func printTaskTable(w io.Writer, tasks []todo.Task, indices []int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDONE\tTASK\tCREATED\tUPDATED")
	for _, i := range indices {
		t := tasks[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, doneMark(t), taskLabel(t), t.CreatedAt, orDash(t.UpdatedAt))
	}
	return tw.Flush()
}

func doneMark(t todo.Task) string {
	if t.Done {
		return "[x]"
	}
	return "[ ]"
}

func taskLabel(t todo.Task) string {
	if t.Priority {
		return "! " + t.Text
	}
	return t.Text
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// updateCommand sets or clears the done flag of one task.
func (c *cli) updateCommand(name string, args []string, done bool) error {
	index, err := c.parseIndex(name, args)
	if err != nil {
		return err
	}

	s, err := c.openForWrite()
	if err != nil {
		return err
	}
	inRange := index < s.Len()
	if err := s.Update(index, done); err != nil {
		return err
	}
	if inRange {
		fmt.Fprintf(c.stdout, "Marked #%d %s\n", index, name)
	}
	return nil
}

// rmCommand removes one task.
func (c *cli) rmCommand(args []string) error {
	index, err := c.parseIndex("rm", args)
	if err != nil {
		return err
	}

	s, err := c.openForWrite()
	if err != nil {
		return err
	}
	inRange := index < s.Len()
	if err := s.Remove(index); err != nil {
		return err
	}
	if inRange {
		fmt.Fprintf(c.stdout, "Removed #%d\n", index)
	}
	return nil
}

// parseIndex reads exactly one non-negative integer argument.
func (c *cli) parseIndex(name string, args []string) (int, error) {
	fs := c.newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if fs.NArg() != 1 {
		return 0, fmt.Errorf("%w: %s requires exactly one index", ErrUsage, name)
	}
	index, err := strconv.Atoi(fs.Arg(0))
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: invalid index %q", ErrUsage, fs.Arg(0))
	}
	return index, nil
}

// doctorCommand reports resolved paths and validates the task file.
func (c *cli) doctorCommand(args []string) error {
	fs := c.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("%w: unexpected arguments: %v", ErrUsage, remaining[1:])
	}
	todoPath := c.cfg.TodoFile
	if len(remaining) == 1 {
		todoPath = remaining[0]
	}

	w := c.stdout
	fmt.Fprintln(w, "todo-app doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if len(c.cfg.ConfigFiles) == 0 {
		fmt.Fprintln(w, "  No config files (defaults, environment and flags only)")
	}
	for _, f := range c.cfg.ConfigFiles {
		fmt.Fprintf(w, "  ✅ Loaded %s\n", f)
	}
	for _, warn := range c.cfg.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warn)
	}
	if _, err := todo.LoadLocation(c.cfg.Timezone); err != nil {
		fmt.Fprintf(w, "  ❌ Timezone: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "  ✅ Timezone: %s\n", c.cfg.Timezone)
	}
	fmt.Fprintln(w)

	// Data directory
	fmt.Fprintf(w, "Data directory: %s\n", c.cfg.DataDir)
	if info, err := os.Stat(c.cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first save)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Todo file
	fmt.Fprintf(w, "Todo file: %s\n", todoPath)
	info, err := os.Stat(todoPath)
	switch {
	case err != nil && os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (starts empty, created on first save)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		if !c.checkTodoFile(todoPath, *verbose) {
			allOK = false
		}
	}
	if c.cfg.FileLock {
		fmt.Fprintf(w, "  Lock file: %s\n", appdir.LockPath(todoPath))
	}
	fmt.Fprintln(w)

	// Overall status
	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkTodoFile validates the file at path and prints the result.
func (c *cli) checkTodoFile(path string, verbose bool) bool {
	w := c.stdout
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}

	result := todo.Validate(data)
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warn)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	if result.UsedSchema {
		fmt.Fprintln(w, "  ✅ Valid (JSON Schema)")
	} else {
		fmt.Fprintln(w, "  ✅ Valid (structural check)")
	}

	if verbose {
		fmt.Fprintf(w, "  Tasks: %d\n", result.Tasks)
		if tasks, err := todo.Unmarshal(data); err == nil {
			for i, t := range tasks {
				fmt.Fprintf(w, "    - %d %s %s\n", i, doneMark(t), taskLabel(t))
			}
		}
	}
	return true
}

// configCommand prints the resolved configuration, or an example file.
func (c *cli) configCommand(args []string) error {
	fs := c.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		_, err := io.WriteString(c.stdout, config.ExampleConfig())
		return err
	}

	values := map[string]string{
		"data_dir":       c.cfg.DataDir,
		"todo_file":      c.cfg.TodoFile,
		"timezone":       c.cfg.Timezone,
		"file_lock":      strconv.FormatBool(c.cfg.FileLock),
		"log_level":      c.cfg.LogLevel,
		"log_format":     c.cfg.LogFormat,
		"log_timestamps": strconv.FormatBool(c.cfg.LogTimestamps),
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\t(%s)\n", k, values[k], c.cfg.Source(k))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if p := config.UserConfigPath(); p != "" {
		fmt.Fprintf(c.stdout, "\nUser config file: %s\n", p)
	}
	return nil
}

// versionCommand prints version information.
func (c *cli) versionCommand() error {
	fmt.Fprintf(c.stdout, "todo-app version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo-app - A small persistent to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo-app [global options] <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add [-priority] <text>      Add a task")
	fmt.Fprintln(w, "  ls [-json] [-pending] [-priority]")
	fmt.Fprintln(w, "                              List tasks with their index")
	fmt.Fprintln(w, "  done <index>                Mark a task done")
	fmt.Fprintln(w, "  undone <index>              Mark a task not done")
	fmt.Fprintln(w, "  rm <index>                  Remove a task (later tasks move up)")
	fmt.Fprintln(w, "  doctor [-v] [file]          Check paths, config and task file validity")
	fmt.Fprintln(w, "  path                        Print the task file path")
	fmt.Fprintln(w, "  config [-example]           Print resolved config or an example file")
	fmt.Fprintln(w, "  schema                      Print the task file JSON Schema")
	fmt.Fprintln(w, "  version                     Show version information")
	fmt.Fprintln(w, "  help                        Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
