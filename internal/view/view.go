// Package view projects the task collection into rendered rows.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/task"
)

// Row is one rendered entry. Hidden is presentational: a hidden row is
// still part of the output, it is only suppressed. Hidden and the task's
// Completed flag are independent.
type Row struct {
	Task   task.Task
	Hidden bool
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243"))
	hiddenStyle    = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("238"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

// Matches reports whether text matches the search query: case-insensitive
// substring containment. The empty query matches everything.
func Matches(text, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}

// Render projects the collection through the search query. It is a pure
// function: one output row per task, in collection order, with rows whose
// text does not match the query flagged hidden rather than dropped.
func Render(tasks []task.Task, query string) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{Task: t, Hidden: !Matches(t.Text, query)}
	}
	return rows
}

// FormatRow renders a single row. Completed rows get a checked box and
// strikethrough; hidden rows are dimmed with their affordance hints
// suppressed. The cursor marker is drawn only on the selected row.
func FormatRow(r Row, selected bool) string {
	marker := "  "
	if selected {
		marker = cursorStyle.Render("> ")
	}

	box := "[ ]"
	if r.Task.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s", box, r.Task.Text)

	switch {
	case r.Hidden:
		return marker + hiddenStyle.Render(line)
	case r.Task.Completed:
		return marker + completedStyle.Render(line)
	default:
		return marker + line
	}
}

// FormatList renders the whole list, full replace on every call. cursor is
// an index into rows; -1 means no selection.
func FormatList(rows []Row, cursor int) string {
	if len(rows) == 0 {
		return helpStyle.Render("No tasks yet. Press a to add one.") + "\n"
	}

	var b strings.Builder
	for i, r := range rows {
		b.WriteString(FormatRow(r, i == cursor))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatTitle renders the header line.
func FormatTitle(text string) string {
	return titleStyle.Render(text) + "\n\n"
}

// FormatError renders a notification flash for a rejected action.
func FormatError(msg string) string {
	return errorStyle.Render("✗ " + msg)
}

// FormatStatus renders an informational status line.
func FormatStatus(msg string) string {
	return statusStyle.Render(msg)
}

// FormatHelp renders the key hint footer.
func FormatHelp(hints string) string {
	return helpStyle.Render(hints)
}
