package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/richlife/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	badStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// SeparatorRow draws a horizontal rule when used as a table row.
var SeparatorRow = []string{"---"}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. The first
// column is left-aligned and the rest are right-aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}
	widths := columnWidths(t, numCols)

	rule := func(left, mid, right string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(renderRow(t.Headers, widths, headerStyle))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == SeparatorRow[0] {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(renderRow(row, widths, valueStyle))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

func columnWidths(t Table, numCols int) []int {
	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	return widths
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("│"))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
		if i == 0 {
			b.WriteString(style.Render(" " + cell + pad + " "))
		} else {
			b.WriteString(style.Render(" " + pad + cell + " "))
		}
		b.WriteString(dimStyle.Render("│"))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderProgressBar renders a percent (clamped to 0-100) as a text bar.
func RenderProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = math.Max(0, math.Min(pct, 100))
	filled := int(pct / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s", goodStyle.Render(bar), mutedStyle.Render(FormatPercent(pct)))
}

// RenderSparkline generates a unicode block sparkline scaled between the
// series minimum and maximum.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	var b strings.Builder
	for _, v := range values {
		idx := len(blocks) - 1
		if span > 0 {
			idx = int((v - lo) / span * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// RenderHorizontalBar renders a bar of value relative to maxValue.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	barLen := int(math.Round(value / maxValue * float64(maxWidth)))
	return strings.Repeat("█", min(barLen, maxWidth))
}

// RenderTrend renders a trend colored by direction. Debt trends read inverted.
func RenderTrend(t model.Trend, code string, inverted bool) string {
	text := TrendArrow(t.Direction) + " " + FormatTrend(t, code)
	good := t.Direction == model.Up
	if inverted {
		good = t.Direction == model.Down
	}
	switch {
	case t.Direction == model.Neutral:
		return mutedStyle.Render(text)
	case good:
		return goodStyle.Render(text)
	default:
		return badStyle.Render(text)
	}
}

// RenderHealthBadge renders the health status with its score.
func RenderHealthBadge(r model.HealthReport) string {
	text := fmt.Sprintf("● %s (%d/100)", r.Status(), r.Score)
	switch {
	case r.Score == 100:
		return goodStyle.Bold(true).Render(text)
	case r.IsHealthy:
		return goodStyle.Render(text)
	default:
		return warnStyle.Render(text)
	}
}

// RenderPassFail renders a check mark or a cross.
func RenderPassFail(passed bool) string {
	if passed {
		return goodStyle.Render("✓")
	}
	return badStyle.Render("✗")
}

// Muted renders text in the muted style.
func Muted(s string) string { return mutedStyle.Render(s) }

// Warn renders text in the warning style.
func Warn(s string) string { return warnStyle.Render(s) }

// Header renders text in the section header style.
func Header(s string) string { return headerStyle.Render(s) }
