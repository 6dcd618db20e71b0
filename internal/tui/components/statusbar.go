package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/richlife/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. notice replaces the key
// hints when set; info is right-aligned.
func RenderStatusBar(width int, notice, info string, busy bool) string {
	t := theme.Active

	bg := lipgloss.NewStyle().Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := hintStyle.Render(" [?]help  [r]eload  [T]heme  [q]uit")
	if notice != "" {
		left = noticeStyle.Render(" " + notice)
	}
	right := info
	if busy {
		right = "loading… " + right
	}
	rightStr := infoStyle.Render(right + " ")

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(rightStr), 0)
	return left + bg.Render(strings.Repeat(" ", padding)) + rightStr
}

