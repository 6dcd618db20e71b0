package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/tui/theme"
)

// ColorForProgress returns red/orange/yellow/green as a goal fills up.
func ColorForProgress(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.GreenBright
	case pct >= 0.5:
		return t.Green
	case pct >= 0.25:
		return t.Yellow
	default:
		return t.Orange
	}
}

func bar(pct float64, width int, color lipgloss.Color) string {
	t := theme.Active
	pct = min(max(pct, 0), 1)
	b := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	b.EmptyColor = string(t.TextDim)
	return b.ViewAs(pct)
}

// GoalBar renders a goal's progress (0..100) with its percentage.
func GoalBar(progressPct float64, width int) string {
	t := theme.Active
	frac := progressPct / 100
	color := ColorForProgress(frac)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar(frac, max(width-5, 4), color) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", min(max(progressPct, 0), 100)))
}

// ShareBar renders a category's share of income against its target band.
// The bar is scaled so the band's upper bound sits at two thirds of the width.
func ShareBar(check model.HealthCheck, color lipgloss.Color, width int) string {
	t := theme.Active
	scale := check.Target.Max * 1.5
	if scale <= 0 {
		scale = 100
	}
	barColor := color
	if !check.Passed {
		barColor = t.Red
	}
	return bar(check.Percent/scale, width, barColor)
}
