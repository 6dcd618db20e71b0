package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values scaled between their min and max.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	return style.Render(cli.RenderSparkline(values))
}

// ColumnChart renders a column chart of values with a compact currency
// axis. The baseline sits just below the smallest value so month-to-month
// changes in a large balance stay visible.
func ColumnChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	step := chartTickStep(hi - lo)
	floor := math.Floor(lo/step)*step - step
	if lo >= 0 && floor < 0 {
		floor = 0
	}
	ceiling := math.Ceil(hi/step) * step
	if ceiling <= floor {
		ceiling = floor + step
	}

	yLabelW := max(len(cli.FormatCompact(ceiling)), len(cli.FormatCompact(floor))) + 1

	n := len(values)
	chartW := max(width-yLabelW-1, 5)
	colW := min(max((chartW-(n-1))/n, 1), 6)
	gap := 1
	if colW == 1 && n*2-1 > chartW {
		gap = 0
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	bgStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	span := ceiling - floor
	for row := height; row >= 1; row-- {
		top := floor + span*float64(row)/float64(height)
		bottom := floor + span*float64(row-1)/float64(height)

		label := ""
		switch row {
		case height:
			label = cli.FormatCompact(ceiling)
		case (height + 1) / 2:
			label = cli.FormatCompact(bottom)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(bgStyle.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", colW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * float64(len(sparkBlocks)))
				idx = min(max(idx, 0), len(sparkBlocks)-1)
				b.WriteString(barStyle.Render(strings.Repeat(string(sparkBlocks[idx]), colW)))
			default:
				b.WriteString(bgStyle.Render(strings.Repeat(" ", colW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*colW + (n-1)*gap
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, cli.FormatCompact(floor))))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(bgStyle.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(axisLabels(labels, colW, gap, axisLen)))
	}
	return b.String()
}

// axisLabels places labels under their columns, skipping any that would overlap.
func axisLabels(labels []string, colW, gap, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, lbl := range labels {
		pos := i * (colW + gap)
		r := []rune(lbl)
		if pos <= lastEnd || pos+len(r) > axisLen {
			continue
		}
		copy(buf[pos:], r)
		lastEnd = pos + len(r)
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a round tick interval targeting about five ticks.
func chartTickStep(span float64) float64 {
	if span <= 0 {
		return 1000
	}
	rough := span / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}
