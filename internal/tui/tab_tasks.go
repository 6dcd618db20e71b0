package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/tui/components"
	"github.com/theirongolddev/richlife/internal/tui/theme"
)

func (a App) renderTasksTab(cw, h int) string {
	t := theme.Active
	d := a.dash
	innerW := components.CardInnerWidth(cw)

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(d.Tasks) == 0 {
		return components.ContentCard("Tasks", mutedStyle.Render("No tasks. Add one with `richlife tasks add`."), cw)
	}

	doneStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Strikethrough(true)
	openStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	checkStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	cursorStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	// Card border, title and hint line take four rows.
	visible := max(h-4, 3)
	offset := 0
	if a.taskCursor >= visible {
		offset = a.taskCursor - visible + 1
	}
	end := min(offset+visible, len(d.Tasks))

	const (
		prioW = 8
		dueW  = 12
	)
	nameW := max(innerW-prioW-dueW-8, 10)

	var body strings.Builder
	for i := offset; i < end; i++ {
		task := d.Tasks[i]
		selected := i == a.taskCursor

		if selected {
			body.WriteString(cursorStyle.Render("> "))
		} else {
			body.WriteString(spaceStyle.Render("  "))
		}

		box := "[ ] "
		if task.Completed {
			box = "[✓] "
		}
		body.WriteString(checkStyle.Render(box))

		due := ""
		if task.DueDate != nil {
			due = task.DueDate.String()
		}
		line := fmt.Sprintf("%-*s %-*s %*s",
			nameW, truncStr(task.Task, nameW),
			prioW, task.Priority,
			dueW, due)

		switch {
		case selected:
			body.WriteString(selStyle.Render(line))
		case task.Completed:
			body.WriteString(doneStyle.Render(line))
		default:
			body.WriteString(lipgloss.NewStyle().Foreground(priorityColor(task.Priority)).Background(t.Surface).
				Render(fmt.Sprintf("%-*s", nameW, truncStr(task.Task, nameW))) +
				openStyle.Render(fmt.Sprintf(" %-*s %*s", prioW, task.Priority, dueW, due)))
		}
		body.WriteString("\n")
	}
	body.WriteString(mutedStyle.Render("[j/k] move  [space] toggle done"))

	title := fmt.Sprintf("Tasks (%d/%d done)", d.TasksDone, len(d.Tasks))
	return components.ContentCard(title, body.String(), cw)
}

func priorityColor(p model.Priority) lipgloss.Color {
	t := theme.Active
	switch p {
	case model.PriorityHigh:
		return t.Orange
	case model.PriorityLow:
		return t.TextMuted
	default:
		return t.TextPrimary
	}
}
