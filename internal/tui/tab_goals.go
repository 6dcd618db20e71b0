package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/goals"
	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/tui/components"
	"github.com/theirongolddev/richlife/internal/tui/theme"
)

func (a App) renderGoalsTab(cw int) string {
	t := theme.Active
	d := a.dash

	if len(d.Goals) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Goals", muted.Render("No goals yet. Add one with `richlife goal set`."), cw)
	}

	cols := 2
	if a.isCompactLayout() {
		cols = 1
	}
	widths := components.LayoutRow(cw, cols)

	var rows []string
	for i := 0; i < len(d.Goals); i += cols {
		cards := make([]string, 0, cols)
		for j := 0; j < cols && i+j < len(d.Goals); j++ {
			g := d.Goals[i+j]
			w := widths[j]
			cards = append(cards, components.ContentCard(goalTitle(g), a.goalBody(g, components.CardInnerWidth(w)), w))
		}
		rows = append(rows, components.CardRow(cards))
	}
	return strings.Join(rows, "\n")
}

func goalTitle(g model.GoalProjection) string {
	title := g.Name
	if g.Icon != "" {
		title = g.Icon + " " + title
	}
	return fmt.Sprintf("%s · %s", title, g.Priority)
}

func (a App) goalBody(g model.GoalProjection, innerW int) string {
	t := theme.Active
	cur := a.dash.Currency

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	goodStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	badStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	row := func(label string, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + value
	}

	lines := []string{
		components.GoalBar(g.DisplayProgress(), innerW),
		row("Saved", valueStyle.Render(fmt.Sprintf("%s of %s",
			cli.FormatCurrency(g.CurrentAmount, cur), cli.FormatCurrency(g.TargetAmount, cur)))),
		row("Monthly", valueStyle.Render(cli.FormatCurrency(g.MonthlyContribution, cur))),
	}

	switch g.Mode {
	case model.FixedDateMode:
		lines = append(lines, row("Target date", valueStyle.Render(cli.FormatMonth(*g.TargetDate))))
		if g.Remaining > 0 {
			lines = append(lines, row("Needs", valueStyle.Render(cli.FormatCurrency(g.RequiredMonthly, cur)+"/month")))
		}
		if g.OnTrack {
			lines = append(lines, row("Status", goodStyle.Render("On track")))
		} else {
			lines = append(lines, row("Status", badStyle.Render(fmt.Sprintf("Short %s/month",
				cli.FormatCurrency(g.Shortfall, cur)))))
		}
	default:
		status := goodStyle.Render(goals.EstimatedLabel(g))
		if !g.Reachable() {
			status = badStyle.Render("N/A, no monthly contribution")
		} else if g.Remaining > 0 && g.EstimatedDate == nil {
			status = badStyle.Render("N/A, pace too slow")
		} else if g.Remaining > 0 {
			status += labelStyle.Render(" (" + cli.FormatMonths(g.MonthsRemaining) + ")")
		}
		lines = append(lines, row("Estimated", status))
	}

	if g.Notes != "" {
		lines = append(lines, dimStyle.Render(truncStr(g.Notes, innerW)))
	}
	return strings.Join(lines, "\n")
}
