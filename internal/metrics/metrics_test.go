package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/richlife/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(500, 0))
	assert.Equal(t, 0.0, Percentage(0, 7859))
	assert.InDelta(t, 37.35, Percentage(2935, 7859), 0.01)
}

func TestPercentageProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("positive whole divides", prop.ForAll(
		func(part, whole float64) bool {
			return Percentage(part, whole) == part/whole*100
		},
		gen.Float64Range(-1e7, 1e7),
		gen.Float64Range(0.01, 1e7),
	))

	properties.Property("zero whole is zero", prop.ForAll(
		func(part float64) bool {
			return Percentage(part, 0) == 0
		},
		gen.Float64Range(-1e7, 1e7),
	))

	properties.TestingRun(t)
}

func TestTrendOf(t *testing.T) {
	assert.Equal(t, model.Trend{Change: 10, Percent: 10, Direction: model.Up}, TrendOf(110, ptr(100)))
	assert.Equal(t, model.Trend{Change: -10, Percent: -10, Direction: model.Down}, TrendOf(90, ptr(100)))
	assert.Equal(t, model.Trend{Direction: model.Neutral}, TrendOf(100, ptr(100)))
}

func TestTrendOf_NegativePreviousKeepsSign(t *testing.T) {
	got := TrendOf(-50, ptr(-100))
	assert.Equal(t, model.Up, got.Direction)
	assert.Equal(t, 50.0, got.Change)
	assert.Equal(t, 50.0, got.Percent)
}

func TestTrendOfNoPreviousProperties(t *testing.T) {
	neutral := model.Trend{Direction: model.Neutral}
	properties := gopter.NewProperties(nil)

	properties.Property("zero previous is neutral", prop.ForAll(
		func(x float64) bool {
			return TrendOf(x, ptr(0)) == neutral
		},
		gen.Float64Range(-1e7, 1e7),
	))

	properties.Property("missing previous is neutral", prop.ForAll(
		func(x float64) bool {
			return TrendOf(x, nil) == neutral
		},
		gen.Float64Range(-1e7, 1e7),
	))

	properties.TestingRun(t)
}

func TestMonthsUntilGoal(t *testing.T) {
	assert.True(t, math.IsInf(MonthsUntilGoal(1000, 0), 1))
	assert.True(t, math.IsInf(MonthsUntilGoal(1000, -5), 1))
	assert.Equal(t, 4.0, MonthsUntilGoal(1000, 250))
	assert.Equal(t, 4.0, MonthsUntilGoal(999, 250))
	assert.Equal(t, 22.0, MonthsUntilGoal(21500, 1000))
	assert.Equal(t, 0.0, MonthsUntilGoal(-300, 100))
}

func TestMonthsUntilGoalProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("whole and non-negative", prop.ForAll(
		func(remaining, monthly float64) bool {
			m := MonthsUntilGoal(remaining, monthly)
			return m >= 0 && m == math.Trunc(m)
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(0.01, 1e5),
	))

	properties.TestingRun(t)
}

func TestRequiredMonthly(t *testing.T) {
	assert.Equal(t, 667.0, RequiredMonthly(16000, 24))
	assert.Equal(t, 0.0, RequiredMonthly(-10, 24))
	assert.Equal(t, 0.0, RequiredMonthly(16000, 0))
}

func TestAddMonths(t *testing.T) {
	start := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2028, time.January, 15, 0, 0, 0, 0, time.UTC), AddMonths(start, 22))

	overflow := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), AddMonths(overflow, 1))
}
