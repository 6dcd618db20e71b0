package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/tui/components"
	"github.com/theirongolddev/richlife/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	d := a.dash
	cur := d.Currency
	var b strings.Builder

	// Row 1: Metric cards
	total := d.NetWorthTotal()
	netDelta := "first snapshot"
	if d.HasTrend {
		netDelta = cli.TrendArrow(total.Trend.Direction) + " " + cli.FormatTrend(total.Trend, cur)
	}

	unallocated := cli.FormatCurrency(d.Unallocated, cur)
	unallocColor := t.TextDim
	unallocDelta := "fully allocated"
	switch {
	case d.Unallocated > 0.5:
		unallocColor = t.Yellow
		unallocDelta = "not yet assigned"
	case d.Unallocated < -0.5:
		unallocColor = t.Red
		unallocDelta = "over-allocated"
	}

	cards := []components.Metric{
		{Label: "Net Worth", Value: cli.FormatCurrency(total.Value, cur), Delta: netDelta,
			DeltaColor: t.Direction(total.Trend.Direction, false)},
		{Label: "Health", Value: fmt.Sprintf("%d/100", d.Health.Score), Delta: d.Health.Status(),
			DeltaColor: healthColor(d.Health)},
		{Label: "Net Income", Value: cli.FormatCurrency(d.Income.Net, cur), Delta: "per month"},
		{Label: "Unallocated", Value: unallocated, Delta: unallocDelta, DeltaColor: unallocColor},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: Net worth history
	if len(d.History) > 0 {
		vals := make([]float64, len(d.History))
		labels := make([]string, len(d.History))
		for i, p := range d.History {
			vals[i] = p.Total
			labels[i] = p.Date.Time().Format("Jan")
		}
		chartH := 10
		if a.isCompactLayout() {
			chartH = 7
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Net Worth (%s)", rangeLabel(a.rangeMonths)),
			components.ColumnChart(vals, labels, t.Accent, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: Components + All-time
	halves := components.LayoutRow(cw, 2)
	compCard := components.ContentCard("Components", a.componentsBody(components.CardInnerWidth(halves[0])), halves[0])
	allCard := components.ContentCard("All Time", a.allTimeBody(), halves[1])
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Components", a.componentsBody(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("All Time", a.allTimeBody(), cw))
	} else {
		b.WriteString(components.CardRow([]string{compCard, allCard}))
	}

	return b.String()
}

func (a App) componentsBody(innerW int) string {
	t := theme.Active
	cur := a.dash.Currency

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	history := a.dash.History
	series := func(name string) []float64 {
		vals := make([]float64, len(history))
		for i, p := range history {
			switch name {
			case "Assets":
				vals[i] = p.Assets
			case "Investments":
				vals[i] = p.Investments
			case "Savings":
				vals[i] = p.Savings
			case "Debt":
				vals[i] = p.Debt
			}
		}
		return vals
	}

	nameW := 12
	valueW := 12
	sparkW := max(innerW-nameW-valueW-24, 0)

	var body strings.Builder
	for _, c := range a.dash.NetWorth {
		if c.Name == "Total" {
			continue
		}
		inverted := c.Name == "Debt"
		trendStyle := lipgloss.NewStyle().Foreground(t.Direction(c.Trend.Direction, inverted)).Background(t.Surface)

		fmt.Fprintf(&body, "%s%s%s",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, c.Name)),
			valueStyle.Render(fmt.Sprintf("%*s", valueW, cli.FormatCurrency(c.Value, cur))),
			spaceStyle.Render(" "))
		if a.dash.HasTrend {
			body.WriteString(trendStyle.Render(fmt.Sprintf("%s %-20s",
				cli.TrendArrow(c.Trend.Direction), cli.FormatSignedCurrency(c.Trend.Change, cur))))
		}
		if vals := series(c.Name); sparkW >= 4 && len(vals) > 1 {
			if len(vals) > sparkW {
				vals = vals[len(vals)-sparkW:]
			}
			body.WriteString(components.Sparkline(vals, t.Category(categoryForComponent(c.Name))))
		}
		body.WriteString("\n")
	}
	return strings.TrimRight(body.String(), "\n")
}

func (a App) allTimeBody() string {
	t := theme.Active
	cur := a.dash.Currency
	at := a.dash.AllTime

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if at.Periods == 0 {
		return labelStyle.Render("Add a second snapshot to see trends.")
	}

	row := func(label, value string, color lipgloss.Color) string {
		vs := valueStyle
		if color != "" {
			vs = vs.Foreground(color)
		}
		return labelStyle.Render(fmt.Sprintf("%-14s", label)) + vs.Render(value)
	}

	lines := []string{
		row("Since", cli.FormatShortMonth(at.From), ""),
		row("Change", cli.FormatTrend(at.Trend, cur), t.Direction(at.Trend.Direction, false)),
		row("Avg / period", cli.FormatSignedCurrency(at.AverageChange, cur), ""),
	}
	if at.Best != nil {
		lines = append(lines, row("Best", periodLabel(*at.Best, cur), t.Green))
	}
	if at.Worst != nil {
		lines = append(lines, row("Worst", periodLabel(*at.Worst, cur), t.Red))
	}
	return strings.Join(lines, "\n")
}

func periodLabel(p model.PeriodChange, cur string) string {
	return fmt.Sprintf("%s (%s)", cli.FormatSignedCurrency(p.Change, cur), cli.FormatShortMonth(p.To))
}

func categoryForComponent(name string) model.Category {
	switch name {
	case "Investments":
		return model.Investments
	case "Savings":
		return model.SavingsGoals
	case "Debt":
		return model.GuiltFreeSpending
	default:
		return model.FixedCosts
	}
}

func healthColor(r model.HealthReport) lipgloss.Color {
	t := theme.Active
	switch {
	case r.Score == 100:
		return t.GreenBright
	case r.IsHealthy:
		return t.Green
	case r.Score >= 50:
		return t.Orange
	default:
		return t.Red
	}
}
