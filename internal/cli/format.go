// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Rhymond/go-money"

	"github.com/theirongolddev/richlife/internal/model"
)

// DefaultCurrency is used when a profile names no currency or an unknown one.
const DefaultCurrency = "USD"

// FormatCurrency formats a whole-unit amount in the given ISO currency.
// e.g., (196809, "USD") -> "$196,809", (-50, "EUR") -> "-€50"
func FormatCurrency(amount float64, code string) string {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	f := money.NewFormatter(0, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(int64(math.Round(amount)))
}

// FormatSignedCurrency is FormatCurrency with an explicit "+" on positive amounts.
func FormatSignedCurrency(amount float64, code string) string {
	if math.Round(amount) > 0 {
		return "+" + FormatCurrency(amount, code)
	}
	return FormatCurrency(amount, code)
}

// FormatPercent formats a 0-100 value rounded to a whole percent.
// e.g., 37.35 -> "37%"
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", math.Round(pct))
}

// FormatSignedPercent formats a trend percentage with one decimal and sign.
// e.g., 1.59 -> "+1.6%"
func FormatSignedPercent(pct float64) string {
	if pct > 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatTrend formats a trend as "+$3,079 (+1.6%)", or "—" when no trend is available.
func FormatTrend(t model.Trend, code string) string {
	if t.Direction == model.Neutral && t.Change == 0 {
		return "—"
	}
	return fmt.Sprintf("%s (%s)", FormatSignedCurrency(t.Change, code), FormatSignedPercent(t.Percent))
}

// TrendArrow returns an arrow glyph for a direction.
func TrendArrow(d model.Direction) string {
	switch d {
	case model.Up:
		return "▲"
	case model.Down:
		return "▼"
	default:
		return "•"
	}
}

// FormatMonths formats a month count, "N/A" when the goal is unreachable.
// e.g., 22 -> "22 months", 1 -> "1 month"
func FormatMonths(m float64) string {
	if math.IsInf(m, 0) || math.IsNaN(m) {
		return "N/A"
	}
	n := int64(m)
	if n == 1 {
		return "1 month"
	}
	return FormatNumber(n) + " months"
}

// FormatMonth formats a date as its month, e.g. "December 2023".
func FormatMonth(t time.Time) string {
	return t.Format("January 2006")
}

// FormatShortMonth formats a date as "Dec 2023".
func FormatShortMonth(d model.Date) string {
	if d.IsZero() {
		return "—"
	}
	return d.Time().Format("Jan 2006")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatCompact formats an amount with K/M suffixes for chart axes.
// e.g., 196809 -> "197K", 1260000 -> "1.3M"
func FormatCompact(amount float64) string {
	abs := math.Abs(amount)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", amount/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.0fK", amount/1_000)
	default:
		return fmt.Sprintf("%.0f", amount)
	}
}

// ParseAmount reads a user-entered amount, ignoring currency symbols,
// thousands separators and surrounding space. e.g., "$7,859.50" -> 7859.5
// Any other character, including exponents and suffixes like "k", is an error.
func ParseAmount(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+':
			b.WriteRune(r)
		case r == ',', unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
		default:
			return 0, fmt.Errorf("not an amount: %q", s)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("not an amount: %q", s)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("not an amount: %q", s)
	}
	return v, nil
}
