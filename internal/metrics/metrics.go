// Package metrics provides the pure arithmetic shared by the health scorer,
// the goal projector and the dashboard: percentages, trends and month counts.
package metrics

import (
	"math"
	"time"

	"github.com/theirongolddev/richlife/internal/model"
)

// Percentage returns part as a percent of whole. A zero whole yields 0.
func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// TrendOf compares current with previous. A nil or zero previous means no
// trend is available and yields a neutral zero trend.
func TrendOf(current float64, previous *float64) model.Trend {
	if previous == nil || *previous == 0 {
		return model.Trend{Direction: model.Neutral}
	}
	change := model.Sum(current, -*previous)
	return model.Trend{
		Change:    change,
		Percent:   change / math.Abs(*previous) * 100,
		Direction: DirectionOf(change),
	}
}

// Between is TrendOf for two known values.
func Between(current, previous float64) model.Trend {
	return TrendOf(current, &previous)
}

// DirectionOf returns the direction of a signed change.
func DirectionOf(change float64) model.Direction {
	switch {
	case change > 0:
		return model.Up
	case change < 0:
		return model.Down
	default:
		return model.Neutral
	}
}

// MonthsUntilGoal returns the whole months needed to save remaining at the
// given monthly pace. A non-positive pace never reaches the goal and yields +Inf.
func MonthsUntilGoal(remaining, monthly float64) float64 {
	if monthly <= 0 {
		return math.Inf(1)
	}
	months := math.Ceil(remaining / monthly)
	if months < 0 {
		return 0
	}
	return months
}

// RequiredMonthly returns the whole amount per month needed to save
// remaining within months.
func RequiredMonthly(remaining float64, months int) float64 {
	if months <= 0 || remaining <= 0 {
		return 0
	}
	return math.Ceil(remaining / float64(months))
}

// AddMonths shifts t by n calendar months. Day overflow normalizes forward
// (Jan 31 + 1 month is Mar 3 or Mar 2).
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}
