package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/idilsaglam/taskz/internal/model"
)

// Console prints user-facing results: outcomes on out, failures on err.
type Console struct {
	out, err   io.Writer
	outR, errR *lipgloss.Renderer
	theme      Theme
}

// NewConsole renders with the named theme. noColor, or the mono theme,
// strips all styling.
func NewConsole(out, err io.Writer, theme string, noColor bool) *Console {
	t := LookupTheme(theme)
	outR, errR := lipgloss.NewRenderer(out), lipgloss.NewRenderer(err)
	if noColor || t.Mono {
		outR.SetColorProfile(termenv.Ascii)
		errR.SetColorProfile(termenv.Ascii)
	}
	return &Console{out: out, err: err, outR: outR, errR: errR, theme: t}
}

// Theme is the active theme.
func (c *Console) Theme() Theme { return c.theme }

func (c *Console) fg(r *lipgloss.Renderer, color lipgloss.TerminalColor) lipgloss.Style {
	return r.NewStyle().Foreground(color)
}

// OK reports a completed action.
func (c *Console) OK(msg string) {
	fmt.Fprintln(c.out, c.fg(c.outR, c.theme.Success).Render(c.theme.SymOK+" "+msg))
}

// Fail reports an error.
func (c *Console) Fail(msg string) {
	fmt.Fprintln(c.err, c.fg(c.errR, c.theme.Error).Bold(true).Render(c.theme.SymFail+" "+msg))
}

// Note reports a normal but empty outcome, like nothing matching.
func (c *Console) Note(msg string) {
	fmt.Fprintln(c.out, c.fg(c.outR, c.theme.Error).Render(c.theme.SymNote+" "+msg))
}

// Hint adds a dim follow-up line to a failure.
func (c *Console) Hint(msg string) {
	fmt.Fprintln(c.err, c.errR.NewStyle().Faint(true).Render(msg))
}

// Task prints one task as "[created_at] description".
func (c *Console) Task(t model.Task) {
	fmt.Fprintln(c.out, c.fg(c.outR, c.theme.Task).Render(FormatTask(t)))
}

// Tasks prints each task on its own line.
func (c *Console) Tasks(tasks []model.Task) {
	for _, t := range tasks {
		c.Task(t)
	}
}

// FormatTask is the plain text form used by Task.
func FormatTask(t model.Task) string {
	return fmt.Sprintf("[%d] %s", t.CreatedAt, t.Description)
}

// Plain writes lines to out unstyled.
func (c *Console) Plain(lines ...string) {
	fmt.Fprintln(c.out, strings.Join(lines, "\n"))
}
