package cli

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/richlife/internal/model"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{196809, "USD", "$196,809"},
		{7859.4, "usd", "$7,859"},
		{999.5, "USD", "$1,000"},
		{0, "USD", "$0"},
		{-50, "USD", "-$50"},
		{1250, "EUR", "€1,250"},
		{1250, "", "$1,250"},
		{1250, "NOPE", "$1,250"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.amount, tt.code); got != tt.want {
			t.Errorf("FormatCurrency(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}

func TestFormatTrend(t *testing.T) {
	up := model.Trend{Change: 3079, Percent: 1.589, Direction: model.Up}
	if got := FormatTrend(up, "USD"); got != "+$3,079 (+1.6%)" {
		t.Fatalf("FormatTrend(up) = %q", got)
	}

	down := model.Trend{Change: -400, Percent: -3.2, Direction: model.Down}
	if got := FormatTrend(down, "USD"); got != "-$400 (-3.2%)" {
		t.Fatalf("FormatTrend(down) = %q", got)
	}

	if got := FormatTrend(model.Trend{Direction: model.Neutral}, "USD"); got != "—" {
		t.Fatalf("FormatTrend(neutral) = %q, want em dash placeholder", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(37.35); got != "37%" {
		t.Fatalf("FormatPercent(37.35) = %q, want 37%%", got)
	}
	if got := FormatPercent(5.5); got != "6%" {
		t.Fatalf("FormatPercent(5.5) = %q, want 6%%", got)
	}
}

func TestFormatMonths(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{math.Inf(1), "N/A"},
		{1, "1 month"},
		{22, "22 months"},
		{0, "0 months"},
	}
	for _, tt := range tests {
		if got := FormatMonths(tt.in); got != tt.want {
			t.Errorf("FormatMonths(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDates(t *testing.T) {
	if got := FormatShortMonth(model.MustParseDate("2023-12-01")); got != "Dec 2023" {
		t.Fatalf("FormatShortMonth = %q", got)
	}
	if got := FormatMonth(time.Date(2028, time.January, 15, 0, 0, 0, 0, time.UTC)); got != "January 2028" {
		t.Fatalf("FormatMonth = %q", got)
	}
}

func TestFormatCompact(t *testing.T) {
	if got := FormatCompact(196809); got != "197K" {
		t.Fatalf("FormatCompact(196809) = %q", got)
	}
	if got := FormatCompact(1_260_000); got != "1.3M" {
		t.Fatalf("FormatCompact(1260000) = %q", got)
	}
	if got := FormatCompact(-850); got != "-850" {
		t.Fatalf("FormatCompact(-850) = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{10, 20, 30}); got != "▁▄█" {
		t.Fatalf("RenderSparkline = %q, want ▁▄█", got)
	}
	if got := RenderSparkline([]float64{5, 5}); got != "██" {
		t.Fatalf("RenderSparkline(flat) = %q, want ██", got)
	}
	if got := RenderSparkline(nil); got != "" {
		t.Fatalf("RenderSparkline(nil) = %q, want empty", got)
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Fixed Costs", "$2,935"},
			SeparatorRow,
			{"Total", "$7,859"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("table has %d lines, want 7:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != width {
			t.Fatalf("line %d width = %d, want %d:\n%s", i, lipgloss.Width(l), width, out)
		}
	}
	if !strings.Contains(lines[1], "Category    ") {
		t.Fatalf("header row not left-padded: %q", lines[1])
	}
	if !strings.Contains(lines[3], "│ $2,935 │") {
		t.Fatalf("amount not right-aligned: %q", lines[3])
	}
}

func TestRenderProgressBar_Clamps(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	if got := RenderProgressBar(150, 10); !strings.HasPrefix(got, strings.Repeat("█", 10)) || !strings.HasSuffix(got, "100%") {
		t.Fatalf("RenderProgressBar(150) = %q", got)
	}
	if got := RenderProgressBar(-5, 4); !strings.HasPrefix(got, "░░░░") {
		t.Fatalf("RenderProgressBar(-5) = %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"7859", 7859, false},
		{" $7,859.50 ", 7859.5, false},
		{"€1.250", 1.25, false},
		{"-400", -400, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"+250", 250, false},
		{"£ 1 200", 1200, false},
		{"7.8k", 0, true},
		{"1e3", 0, true},
		{"12abc34", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"$", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
