// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/logging"
	"taskpad/internal/storage"
	"taskpad/internal/task"
	"taskpad/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
)

// Model wires key events to store mutations. Every mutating trigger runs the
// same sequence: mutate store, write through to the slot, rebuild the rows.
type Model struct {
	store   *task.Store
	adapter *storage.Adapter
	session *logging.SessionLogger

	rows     []view.Row
	cursor   int
	mode     mode
	entry    textinput.Model
	search   textinput.Model
	flash    string
	flashErr bool
}

// New builds the model around an already-hydrated store.
func New(store *task.Store, adapter *storage.Adapter, session *logging.SessionLogger) *Model {
	entry := textinput.New()
	entry.Placeholder = "What needs doing?"
	entry.CharLimit = 256
	entry.Width = 40

	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/"
	search.Width = 40

	m := &Model{
		store:   store,
		adapter: adapter,
		session: session,
		entry:   entry,
		search:  search,
	}
	m.refresh()
	return m
}

// Run starts the TUI program.
func Run(ctx context.Context, store *task.Store, adapter *storage.Adapter, session *logging.SessionLogger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(New(store, adapter, session), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeSearch:
			return m.updateSearchMode(msg)
		default:
			return m.updateListMode(msg)
		}
	case tea.WindowSizeMsg:
		m.entry.Width = msg.Width - 10
		m.search.Width = msg.Width - 10
	}
	return m, nil
}

func (m *Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-1)
	case "a":
		m.mode = modeAdd
		m.flash = ""
		m.entry.Focus()
	case "/":
		m.mode = modeSearch
		m.flash = ""
		m.search.Focus()
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refresh()
		}
	case "enter", " ":
		m.toggleAtCursor()
	case "d":
		m.removeAtCursor()
	}
	return m, nil
}

func (m *Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.entry.SetValue("")
		m.entry.Blur()
		m.flash = ""
		return m, nil
	case "enter":
		m.submitAdd()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.entry, cmd = m.entry.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		// Search is display-only: rebuild the rows, touch nothing else.
		m.refresh()
		return m, cmd
	}
}

// submitAdd handles the add trigger. On success the entry field is cleared;
// a rejected empty add surfaces a notification and leaves the field alone.
func (m *Model) submitAdd() {
	added, err := m.store.Add(m.entry.Value())
	if err != nil {
		m.flash = "Task text is empty"
		m.flashErr = true
		return
	}

	m.entry.SetValue("")
	m.session.Log(logging.Event{Type: logging.EventAdd, TaskID: added.ID, Text: added.Text})
	m.persist()
	m.refresh()
	m.cursorTo(added.ID)
	m.flash = fmt.Sprintf("Added %q", added.Text)
	m.flashErr = false
}

func (m *Model) toggleAtCursor() {
	id, ok := m.taskAtCursor()
	if !ok {
		return
	}
	if m.store.Toggle(id) {
		m.session.Log(logging.Event{Type: logging.EventToggle, TaskID: id})
		m.persist()
	}
	m.refresh()
}

func (m *Model) removeAtCursor() {
	id, ok := m.taskAtCursor()
	if !ok {
		return
	}
	if m.store.Remove(id) {
		m.session.Log(logging.Event{Type: logging.EventRemove, TaskID: id})
		m.persist()
		m.flash = "✗ Deleted"
		m.flashErr = false
	}
	m.refresh()
}

// taskAtCursor maps the cursor through the rendered rows to a task id.
// Hidden rows never resolve: their affordances are suppressed.
func (m *Model) taskAtCursor() (int64, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return 0, false
	}
	row := m.rows[m.cursor]
	if row.Hidden {
		return 0, false
	}
	return row.Task.ID, true
}

// persist writes the whole collection through to the slot.
func (m *Model) persist() {
	if err := m.adapter.Save(m.store.Tasks()); err != nil {
		m.session.Log(logging.Event{Type: logging.EventSaveError, Error: err.Error()})
		m.flash = fmt.Sprintf("Save failed: %v", err)
		m.flashErr = true
	}
}

// refresh rebuilds the rows from the store and the live query, then snaps
// the cursor back onto a visible row.
func (m *Model) refresh() {
	m.rows = view.Render(m.store.Tasks(), m.search.Value())
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = -1
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.rows[m.cursor].Hidden {
		if next := m.nearestVisible(m.cursor); next >= 0 {
			m.cursor = next
		} else {
			m.cursor = -1
		}
	}
}

// moveCursor steps to the next visible row in the given direction.
func (m *Model) moveCursor(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.rows); i += delta {
		if !m.rows[i].Hidden {
			m.cursor = i
			return
		}
	}
}

// nearestVisible finds the visible row closest to from, or -1.
func (m *Model) nearestVisible(from int) int {
	for offset := 0; offset < len(m.rows); offset++ {
		for _, i := range []int{from + offset, from - offset} {
			if i >= 0 && i < len(m.rows) && !m.rows[i].Hidden {
				return i
			}
		}
	}
	return -1
}

// cursorTo places the cursor on the row holding the given task id.
func (m *Model) cursorTo(id int64) {
	for i, r := range m.rows {
		if r.Task.ID == id && !r.Hidden {
			m.cursor = i
			return
		}
	}
}

// View renders the full screen on every call.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(view.FormatTitle("Taskpad"))

	if m.mode == modeAdd {
		b.WriteString(m.entry.View() + "\n\n")
	}
	if m.mode == modeSearch || m.search.Value() != "" {
		b.WriteString(m.search.View() + "\n\n")
	}

	b.WriteString(view.FormatList(m.rows, m.cursor))
	b.WriteByte('\n')

	if m.flash != "" {
		if m.flashErr {
			b.WriteString(view.FormatError(m.flash) + "\n")
		} else {
			b.WriteString(view.FormatStatus(m.flash) + "\n")
		}
	}

	b.WriteString(view.FormatHelp(m.helpLine()))
	return b.String()
}

// IsTTY returns true if stdout is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (m *Model) helpLine() string {
	switch m.mode {
	case modeAdd:
		return "enter add • esc back"
	case modeSearch:
		return "type to filter • enter/esc back"
	default:
		return "a add • enter/space toggle • d delete • / search • esc clear search • q quit"
	}
}
