// Package report renders the dashboard as a markdown document, optionally
// styled for the terminal with glamour.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/goals"
	"github.com/theirongolddev/richlife/internal/health"
	"github.com/theirongolddev/richlife/internal/model"
)

//go:embed report.md.tmpl
var reportTemplate string

// DefaultWidth is the word wrap used when the terminal width is unknown.
const DefaultWidth = 80

// Markdown renders d as a markdown report.
func Markdown(d model.Dashboard) (string, error) {
	code := d.Currency
	funcs := template.FuncMap{
		"title": func(d model.Dashboard) string {
			if d.ProfileName != "" {
				return d.ProfileName + "'s Rich Life"
			}
			return "Rich Life Dashboard"
		},
		"money":       func(v float64) string { return cli.FormatCurrency(v, code) },
		"signedMoney": func(v float64) string { return cli.FormatSignedCurrency(v, code) },
		"trend":       func(t model.Trend) string { return cli.FormatTrend(t, code) },
		"pct":         cli.FormatPercent,
		"band":        health.RangeString,
		"shortMonth":  cli.FormatShortMonth,
		"estimated":   goals.EstimatedLabel,
		"month": func(t *time.Time) string {
			if t == nil {
				return "—"
			}
			return cli.FormatMonth(*t)
		},
	}

	tmpl, err := template.New("report").Funcs(funcs).Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// Render styles markdown for a terminal of the given width.
func Render(md string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
