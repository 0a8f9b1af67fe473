// Package tui is the full-screen task browser behind `taskz browse`.
// Every action goes straight through the task service, so the files on
// disk always match what the screen shows.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/taskz/internal/model"
	"github.com/idilsaglam/taskz/internal/tasks"
	"github.com/idilsaglam/taskz/internal/ui"
	"github.com/idilsaglam/taskz/internal/undo"
)

type mode int

const (
	browsing mode = iota
	adding
	editing
)

// listItem adapts a task to bubbles/list.Item.
type listItem struct {
	task model.Task
}

func (i listItem) Title() string       { return i.task.Description }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Description }

type styles struct {
	title, muted, task, selected, ok, err, frame lipgloss.Style
}

func newStyles(t ui.Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		muted:    lipgloss.NewStyle().Faint(true),
		task:     lipgloss.NewStyle().Foreground(t.Task),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		ok:       lipgloss.NewStyle().Foreground(t.Success),
		err:      lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		frame:    lipgloss.NewStyle().Border(t.Border).BorderForeground(t.Muted).Padding(0, 1),
	}
}

// itemDelegate renders each task on a single line.
type itemDelegate struct{ st styles }

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	when := time.Unix(it.task.CreatedAt, 0).Format("2006-01-02 15:04")
	line := fmt.Sprintf("%s  %s", d.st.muted.Render(when), d.st.task.Render(it.task.Description))
	prefix := "  "
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

type keyMap struct {
	done, undo, edit, add, quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		done: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d/x", "done")),
		undo: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		edit: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		add:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the Bubble Tea model of the browser.
type Model struct {
	svc   *tasks.Service
	list  list.Model
	input textinput.Model
	keys  keyMap
	st    styles

	mode   mode
	target model.Task // task being edited
	status string
	failed bool
	fatal  error
}

// New loads the current tasks into a browser model.
func New(svc *tasks.Service, theme ui.Theme) (Model, error) {
	st := newStyles(theme)
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{st: st}, 0, 0)
	l.Title = "taskz"
	l.Styles.Title = st.title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("task", "tasks")
	l.FilterInput.Prompt = "/ "
	// d and u belong to done/undo here, not paging.
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	l.KeyMap.PrevPage.SetKeys("left", "h", "pgup", "b")
	l.KeyMap.Quit.SetEnabled(false)
	extra := func() []key.Binding { return []key.Binding{keys.add, keys.edit, keys.done, keys.undo} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{svc: svc, list: l, input: ti, keys: keys, st: st}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Run starts the browser and blocks until the user quits. A damaged undo
// buffer ends the session with an error wrapping undo.ErrCorrupt.
func Run(svc *tasks.Service, theme ui.Theme) error {
	m, err := New(svc, theme)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.fatal != nil {
		return fm.fatal
	}
	return nil
}

func (m *Model) reload() error {
	items, err := m.svc.List(tasks.ByCreated)
	if err != nil {
		return err
	}
	li := make([]list.Item, 0, len(items))
	for _, t := range items {
		li = append(li, listItem{task: t})
	}
	idx := m.list.Index()
	m.list.SetItems(li)
	if idx >= len(li) {
		idx = len(li) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	return nil
}

func (m *Model) report(msg string, err error) {
	if err != nil {
		m.status, m.failed = err.Error(), true
		return
	}
	m.status, m.failed = msg, false
}

func (m Model) selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.task, ok
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(size.Width-4, size.Height-6)
		m.input.Width = size.Width - 10
		return m, nil
	}
	if m.mode != browsing {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(km, m.keys.quit):
		if km.String() == "esc" && m.list.FilterState() == list.FilterApplied {
			break
		}
		return m, tea.Quit

	case key.Matches(km, m.keys.done):
		t, ok := m.selected()
		if !ok {
			m.report("no matching task found", nil)
			return m, nil
		}
		found, err := m.svc.DoneTask(t)
		if err == nil && !found {
			err = errors.New("task changed on disk; reloaded")
		}
		m.report("task done and removed: "+t.Description, err)
		if err := m.reload(); err != nil {
			m.report("", err)
		}
		return m, nil

	case key.Matches(km, m.keys.undo):
		_, found, err := m.svc.Undo()
		if errors.Is(err, undo.ErrCorrupt) {
			m.fatal = err
			return m, tea.Quit
		}
		switch {
		case err != nil:
			m.report("", err)
		case !found:
			m.report("no undo available", nil)
		default:
			m.report("undo successful: task restored", nil)
		}
		if err := m.reload(); err != nil {
			m.report("", err)
		}
		return m, nil

	case key.Matches(km, m.keys.add):
		m.mode = adding
		m.input.SetValue("")
		m.input.Placeholder = "New task..."
		return m, m.input.Focus()

	case key.Matches(km, m.keys.edit):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode, m.target = editing, t
		m.input.SetValue(t.Description)
		m.input.CursorEnd()
		m.input.Placeholder = "Edit task..."
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			m.mode = browsing
			m.input.Blur()
			m.status = ""
			return m, nil
		case "enter":
			value := m.input.Value()
			var err error
			var note string
			if m.mode == adding {
				_, err = m.svc.Add(value)
				note = "task added"
			} else {
				var found bool
				_, found, err = m.svc.Rename(m.target, value)
				if err == nil && !found {
					err = errors.New("task changed on disk; reloaded")
				}
				note = "task updated to: " + strings.TrimSpace(value)
			}
			if errors.Is(err, tasks.ErrEmptyDescription) {
				m.report("", errors.New("description cannot be empty"))
				return m, nil
			}
			m.report(note, err)
			m.mode = browsing
			m.input.Blur()
			if err := m.reload(); err != nil {
				m.report("", err)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	content := m.list.View()
	if m.mode != browsing {
		title := "Add task"
		if m.mode == editing {
			title = "Edit task"
		}
		content += "\n" + m.st.frame.Render(title+"\n"+m.input.View())
	}
	if m.status != "" {
		style := m.st.ok
		if m.failed {
			style = m.st.err
		}
		content += "\n" + style.Render(m.status)
	}
	return m.st.frame.Render(content)
}
