package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/taskz/internal/config"
	"github.com/idilsaglam/taskz/internal/install"
	"github.com/idilsaglam/taskz/internal/tasks"
	"github.com/idilsaglam/taskz/internal/tui"
	"github.com/idilsaglam/taskz/internal/ui"
	"github.com/idilsaglam/taskz/internal/undo"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const editSeparator = "///"

// Options carry everything a command needs; main builds them once.
type Options struct {
	Config  *config.Config
	Logger  *log.Logger
	Console *ui.Console

	// Executable locates the running binary for -i. Defaults to os.Executable.
	Executable func() (string, error)
	// Browse runs the interactive browser. Defaults to tui.Run.
	Browse func(*tasks.Service, ui.Theme) error
}

type runner struct {
	Options
	svc *tasks.Service
	c   *ui.Console
}

// Run dispatches one command and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Executable == nil {
		opt.Executable = os.Executable
	}
	if opt.Browse == nil {
		opt.Browse = tui.Run
	}
	r := &runner{Options: opt, svc: tasks.New(opt.Config, opt.Logger), c: opt.Console}

	if len(args) == 0 {
		r.c.Fail("no command provided. usage: taskz <command> [args]")
		PrintHelp(r.c)
		return ExitUsage
	}
	cmd, a := args[0], args[1:]
	r.Logger.Debug("dispatch", "command", cmd, "args", len(a), "store", r.Config.StorePath)

	switch cmd {
	case "help", "-h", "--help", "-?", "/?":
		PrintHelp(r.c)
		return ExitOK

	case "-i", "install":
		return r.doInstall()

	case "-u", "uninstall":
		return r.doUninstall()

	case "add":
		if len(a) == 0 {
			return r.usage("please provide a task description", "taskz add <task>")
		}
		return r.doAdd(strings.Join(a, " "))

	case "list", "ls":
		alpha := r.Config.Sort == config.SortAlpha
		for _, f := range a {
			switch f {
			case "-a", "--alpha":
				alpha = true
			case "-i", "--interactive":
				return r.doBrowse()
			}
		}
		return r.doList(alpha)

	case "search":
		if len(a) == 0 {
			return r.usage("please provide a search query", "taskz search <query>")
		}
		return r.doSearch(strings.Join(a, " "))

	case "done":
		if len(a) == 0 {
			return r.usage("please provide the task to mark as done", "taskz done <task>")
		}
		return r.doDone(strings.Join(a, " "))

	case "undo":
		return r.doUndo()

	case "edit":
		query, desc, ok := parseEdit(a)
		if !ok {
			return r.usage("please provide the edit command in format: taskz edit <query> /// <new description>", "")
		}
		return r.doEdit(query, desc)

	case "clear":
		return r.doClear()

	case "browse":
		return r.doBrowse()
	}

	r.c.Fail("unknown command: " + cmd)
	r.c.Hint("Run `taskz help` to see available commands")
	return ExitUsage
}

// parseEdit splits "<query> /// <new text>". Exactly one separator is allowed.
func parseEdit(args []string) (query, desc string, ok bool) {
	parts := strings.Split(strings.Join(args, " "), editSeparator)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// PrintHelp shows the command overview.
func PrintHelp(c *ui.Console) {
	rows := [][2]string{
		{"taskz -i", "install the app globally"},
		{"taskz -u", "uninstall the app"},
		{"taskz add <task>", "add a new task"},
		{"taskz list [-a] [-i]", "list tasks (-a alphabetical, -i interactive)"},
		{"taskz search <query>", "search for tasks containing the query"},
		{"taskz done <task>", "mark the closest task as done (and remove it)"},
		{"taskz undo", "undo the last removal"},
		{"taskz edit <old> /// <new>", "edit the closest task"},
		{"taskz clear", "clear all tasks"},
		{"taskz browse", "browse tasks interactively"},
		{"taskz /? | -? | -h", "show this help"},
	}
	lines := []string{"usage:"}
	for _, row := range rows {
		lines = append(lines, "  "+c.Accent(fmt.Sprintf("%-28s", row[0]))+" "+c.Muted(row[1]))
	}
	lines = append(lines, "",
		"flags (before the command):",
		fmt.Sprintf("  %-28s %s", "--theme="+strings.Join(ui.ThemeNames, "|"), c.Muted("color theme")),
		fmt.Sprintf("  %-28s %s", "--no-color", c.Muted("plain output")),
		fmt.Sprintf("  %-28s %s", "--config=<path>", c.Muted("config file")),
		fmt.Sprintf("  %-28s %s", "--debug", c.Muted("log diagnostics to stderr")),
	)
	c.Panel("taskz - minimalist todo list", lines)
}

// Fatal reports an error raised before any command could run, such as
// an unreadable config file.
func Fatal(c *ui.Console, action string, err error) int {
	c.Fail(fmt.Sprintf("failed to %s: %v", action, err))
	return ExitError
}

// -------------- subcommand impls ----------------

func (r *runner) usage(msg, example string) int {
	r.c.Fail(msg)
	if example != "" {
		r.c.Hint("usage: " + example)
	}
	return ExitUsage
}

// failed reports err for the named action and picks the exit code.
func (r *runner) failed(action string, err error) int {
	if errors.Is(err, tasks.ErrEmptyDescription) {
		return r.usage(action+": empty description", "")
	}
	r.Logger.Debug(action, "err", err)
	r.c.Fail(fmt.Sprintf("failed to %s: %v", action, err))
	if errors.Is(err, tasks.ErrLocked) {
		r.c.Hint("another taskz process is using " + r.Config.DataDir)
	}
	return ExitError
}

func (r *runner) doAdd(desc string) int {
	if _, err := r.svc.Add(desc); err != nil {
		return r.failed("add task", err)
	}
	r.c.OK("task added")
	return ExitOK
}

func (r *runner) doList(alpha bool) int {
	order := tasks.ByCreated
	if alpha {
		order = tasks.ByDescription
	}
	items, err := r.svc.List(order)
	if err != nil {
		return r.failed("list tasks", err)
	}
	if len(items) == 0 {
		r.c.Note("no tasks found")
		return ExitOK
	}
	r.c.Tasks(items)
	return ExitOK
}

func (r *runner) doSearch(query string) int {
	items, err := r.svc.Search(query)
	if err != nil {
		return r.failed("search tasks", err)
	}
	if len(items) > 0 {
		r.c.Tasks(items)
		return ExitOK
	}
	r.c.Note(fmt.Sprintf("no tasks found matching %q", query))
	if near, err := r.svc.Suggest(query, 3); err == nil && len(near) > 0 {
		r.c.Plain(r.c.Muted("did you mean:"))
		r.c.Tasks(near)
	}
	return ExitOK
}

func (r *runner) doDone(query string) int {
	removed, found, err := r.svc.Done(query)
	if err != nil {
		return r.failed("mark task as done", err)
	}
	if !found {
		r.c.Note("no matching task found")
		return ExitOK
	}
	r.c.OK("task done and removed: " + removed.Description)
	return ExitOK
}

func (r *runner) doUndo() int {
	_, found, err := r.svc.Undo()
	if errors.Is(err, undo.ErrCorrupt) {
		r.Logger.Debug("undo buffer unreadable", "path", r.Config.UndoPath, "err", err)
		r.c.Fail("failed to parse undo data")
		return ExitError
	}
	if err != nil {
		return r.failed("undo", err)
	}
	if !found {
		r.c.Note("no undo available")
		return ExitOK
	}
	r.c.OK("undo successful: task restored")
	return ExitOK
}

func (r *runner) doEdit(query, desc string) int {
	updated, found, err := r.svc.Edit(query, desc)
	if err != nil {
		return r.failed("edit task", err)
	}
	if !found {
		r.c.Note("no matching task found")
		return ExitOK
	}
	r.c.OK("task updated to: " + updated.Description)
	return ExitOK
}

func (r *runner) doClear() int {
	if err := r.svc.Clear(); err != nil {
		return r.failed("clear tasks", err)
	}
	r.c.OK("all tasks cleared")
	return ExitOK
}

func (r *runner) doBrowse() int {
	err := r.Browse(r.svc, r.c.Theme())
	if errors.Is(err, undo.ErrCorrupt) {
		r.c.Fail("failed to parse undo data")
		return ExitError
	}
	if err != nil {
		return r.failed("browse tasks", err)
	}
	return ExitOK
}

func (r *runner) doInstall() int {
	src, err := r.Executable()
	if err != nil {
		return r.failed("locate executable", err)
	}
	dst := r.Config.InstallPath
	r.Logger.Debug("install", "from", src, "to", dst)
	if err := install.Install(src, dst); err != nil {
		if install.IsPermission(err) {
			r.c.Fail("run as administrator")
		}
		r.c.Fail("installation failed: " + err.Error())
		return ExitError
	}
	r.c.OK(fmt.Sprintf("installed successfully to %s", dst))
	return ExitOK
}

func (r *runner) doUninstall() int {
	dst := r.Config.InstallPath
	removed, err := install.Uninstall(dst)
	if err != nil {
		if install.IsPermission(err) {
			r.c.Fail("run as administrator")
		}
		r.c.Fail("uninstallation failed: " + err.Error())
		return ExitError
	}
	if !removed {
		r.c.Note("no installation found")
		return ExitOK
	}
	r.c.OK(fmt.Sprintf("uninstalled successfully from %s", dst))
	return ExitOK
}
