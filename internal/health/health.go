// Package health scores a snapshot's spending plan against its target bands.
package health

import (
	"fmt"
	"math"

	"github.com/theirongolddev/richlife/internal/metrics"
	"github.com/theirongolddev/richlife/internal/model"
)

// PointsPerCategory is the score contribution of each passing bucket.
const PointsPerCategory = 25

// HealthyScore is the lowest score considered healthy.
const HealthyScore = 75

// Options tunes the scorer.
type Options struct {
	// FlagLowGuiltFree reports guilt-free spending below its minimum as an
	// issue. The check fails either way.
	FlagLowGuiltFree bool
}

// Score evaluates csp against targets as percentages of net income.
func Score(csp model.CSP, net float64, targets model.Targets, opts Options) model.HealthReport {
	report := model.HealthReport{
		Issues: []string{},
		Checks: make([]model.HealthCheck, 0, len(model.Categories)),
	}

	for _, cat := range model.Categories {
		check := evaluate(cat, csp.Amount(cat), net, targets.For(cat), opts)
		if check.Passed {
			report.Score += PointsPerCategory
		}
		if check.Issue != "" {
			report.Issues = append(report.Issues, check.Issue)
		}
		report.Checks = append(report.Checks, check)
	}

	report.IsHealthy = report.Score >= HealthyScore
	return report
}

// Snapshot is Score applied to a snapshot.
func Snapshot(s model.Snapshot, income model.Income, targets model.Targets, opts Options) model.HealthReport {
	return Score(s.CSP, income.Net, targets, opts)
}

func evaluate(cat model.Category, amount, net float64, target model.Target, opts Options) model.HealthCheck {
	pct := metrics.Percentage(amount, net)
	check := model.HealthCheck{
		Category: cat,
		Label:    labelOf(cat, target),
		Amount:   amount,
		Percent:  pct,
		Target:   target,
	}

	var report bool
	switch cat {
	case model.FixedCosts:
		check.Passed = pct <= target.Max
		report = !check.Passed
	case model.Investments, model.SavingsGoals:
		check.Passed = pct >= target.Min
		report = !check.Passed
	case model.GuiltFreeSpending:
		check.Passed = pct >= target.Min && pct <= target.Max
		report = pct > target.Max || (pct < target.Min && opts.FlagLowGuiltFree)
	}

	if report {
		check.Issue = fmt.Sprintf("%s at %.0f%% (target: %s)", check.Label, math.Round(pct), RangeString(target))
	}
	return check
}

// RangeString formats a target band as "50-60%", or "10%+" when min equals max.
func RangeString(t model.Target) string {
	if t.Min == t.Max {
		return fmt.Sprintf("%g%%+", t.Min)
	}
	return fmt.Sprintf("%g-%g%%", t.Min, t.Max)
}

func labelOf(cat model.Category, t model.Target) string {
	if t.Label != "" {
		return t.Label
	}
	return string(cat)
}
