package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/health"
	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/tui/components"
	"github.com/theirongolddev/richlife/internal/tui/theme"
)

func (a App) renderSpendingTab(cw int) string {
	t := theme.Active
	d := a.dash
	cur := d.Currency
	var b strings.Builder

	innerW := components.CardInnerWidth(cw)

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	const (
		labelW  = 22
		amountW = 11
		pctW    = 6
		bandW   = 9
		trendW  = 12
	)
	barW := max(innerW-labelW-amountW-pctW-bandW-trendW-8, 8)

	checks := make(map[model.Category]model.HealthCheck, len(d.Health.Checks))
	for _, c := range d.Health.Checks {
		checks[c.Category] = c
	}

	var body strings.Builder
	body.WriteString(headStyle.Render(fmt.Sprintf("%-*s%*s%*s  %-*s %-*s  %*s",
		labelW, "Category", amountW, "Amount", pctW, "Share", barW, "", bandW, "Target", trendW, "Change")))
	body.WriteString("\n")

	for _, row := range d.Categories {
		color := t.Category(row.Category)
		markStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
		mark := "✓"
		if !row.Passed {
			markStyle = markStyle.Foreground(t.Red)
			mark = "✗"
		}
		check, ok := checks[row.Category]
		if !ok {
			check = model.HealthCheck{Category: row.Category, Percent: row.Percent, Target: row.Target, Passed: row.Passed}
		}
		trendStyle := lipgloss.NewStyle().Foreground(t.Direction(row.Trend.Direction, false)).Background(t.Surface)

		body.WriteString(lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render("● "))
		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", labelW-2, truncStr(row.Label, labelW-2))))
		body.WriteString(nameStyle.Render(fmt.Sprintf("%*s", amountW, cli.FormatCurrency(row.Amount, cur))))
		body.WriteString(nameStyle.Render(fmt.Sprintf("%*s", pctW, cli.FormatPercent(row.Percent))))
		body.WriteString(spaceStyle.Render("  "))
		body.WriteString(components.ShareBar(check, color, barW))
		body.WriteString(spaceStyle.Render(" "))
		body.WriteString(mutedStyle.Render(fmt.Sprintf("%-*s", bandW-2, health.RangeString(row.Target))))
		body.WriteString(markStyle.Render(mark + " "))
		body.WriteString(spaceStyle.Render(" "))
		if d.HasTrend {
			body.WriteString(trendStyle.Render(fmt.Sprintf("%*s", trendW, cli.FormatSignedCurrency(row.Trend.Change, cur))))
		}
		body.WriteString("\n")
	}

	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(fmt.Sprintf("Planned %s of %s net income",
		cli.FormatCurrency(d.CSPTotal, cur), cli.FormatCurrency(d.Income.Net, cur))))
	if d.Unallocated > 0.5 {
		body.WriteString(mutedStyle.Render(", "))
		body.WriteString(lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).
			Render(cli.FormatCurrency(d.Unallocated, cur) + " unallocated"))
	}

	b.WriteString(components.ContentCard(
		fmt.Sprintf("Conscious Spending Plan (%s)", cli.FormatShortMonth(d.AsOf)),
		body.String(),
		cw,
	))
	b.WriteString("\n")

	// Health score and issues
	scoreStyle := lipgloss.NewStyle().Foreground(healthColor(d.Health)).Background(t.Surface).Bold(true)
	issueStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	var hb strings.Builder
	hb.WriteString(scoreStyle.Render(fmt.Sprintf("%d/100 %s", d.Health.Score, d.Health.Status())))
	if len(d.Health.Issues) == 0 {
		hb.WriteString("\n")
		hb.WriteString(mutedStyle.Render("Every category is within its target."))
	}
	for _, issue := range d.Health.Issues {
		hb.WriteString("\n")
		hb.WriteString(issueStyle.Render("• " + truncStr(issue, innerW-2)))
	}
	b.WriteString(components.ContentCard("Health", hb.String(), cw))

	return b.String()
}
