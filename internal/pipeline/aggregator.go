// Package pipeline assembles the dashboard from a reconciled document:
// trends, all-time statistics, category rows, health, goals and history.
package pipeline

import (
	"github.com/theirongolddev/richlife/internal/goals"
	"github.com/theirongolddev/richlife/internal/health"
	"github.com/theirongolddev/richlife/internal/metrics"
	"github.com/theirongolddev/richlife/internal/model"
)

// RangeOptions are the selectable chart ranges in months. 0 shows everything.
var RangeOptions = []int{3, 6, 12, 0}

// Options tunes dashboard assembly.
type Options struct {
	RangeMonths int
	Health      health.Options
}

// Build computes the dashboard of doc as of today.
func Build(doc *model.Document, today model.Date, opts Options) model.Dashboard {
	snaps := doc.Snapshots
	d := model.Dashboard{
		Today:         today,
		Currency:      doc.Currency(),
		Income:        doc.Income,
		SnapshotCount: len(snaps),
		RangeMonths:   opts.RangeMonths,
		Categories:    []model.CategoryRow{},
		NetWorth:      []model.ComponentTrend{},
		History:       History(snaps, opts.RangeMonths),
		Goals:         goals.ProjectAll(doc.Goals, snaps, today),
		Tasks:         model.SortTasks(doc.WeddingTasks),
	}
	if doc.Profile != nil {
		d.ProfileName = doc.Profile.Name
	}
	for _, t := range doc.WeddingTasks {
		if t.Completed {
			d.TasksDone++
		}
	}

	if len(snaps) == 0 {
		d.Health = health.Score(model.CSP{}, doc.Income.Net, doc.Targets, opts.Health)
		return d
	}

	latest := snaps[len(snaps)-1]
	var prev *model.Snapshot
	if len(snaps) > 1 {
		prev = &snaps[len(snaps)-2]
	}
	d.AsOf = latest.Date
	d.HasTrend = prev != nil

	d.NetWorth = NetWorthTrends(latest, prev)
	d.AllTime = AllTime(snaps)
	d.Health = health.Snapshot(latest, doc.Income, doc.Targets, opts.Health)
	d.Categories = CategoryRows(latest, prev, doc.Income.Net, doc.Targets, d.Health)
	d.CSPTotal = latest.CSP.Total()
	d.Unallocated = model.Sum(doc.Income.Net, -d.CSPTotal)
	return d
}

// NetWorthTrends returns the total and each component of latest with its
// change since prev. A nil prev yields neutral trends.
func NetWorthTrends(latest model.Snapshot, prev *model.Snapshot) []model.ComponentTrend {
	pick := []struct {
		name string
		get  func(model.NetWorth) float64
	}{
		{"Total", func(n model.NetWorth) float64 { return n.Total }},
		{"Assets", func(n model.NetWorth) float64 { return n.Assets }},
		{"Investments", func(n model.NetWorth) float64 { return n.Investments }},
		{"Savings", func(n model.NetWorth) float64 { return n.Savings }},
		{"Debt", func(n model.NetWorth) float64 { return n.Debt }},
	}

	out := make([]model.ComponentTrend, 0, len(pick))
	for _, p := range pick {
		var before *float64
		if prev != nil {
			v := p.get(prev.NetWorth)
			before = &v
		}
		cur := p.get(latest.NetWorth)
		out = append(out, model.ComponentTrend{Name: p.name, Value: cur, Trend: metrics.TrendOf(cur, before)})
	}
	return out
}

// AllTime summarizes the change in total net worth across snaps, which must be sorted.
func AllTime(snaps []model.Snapshot) model.AllTimeStats {
	var stats model.AllTimeStats
	stats.Trend = model.Trend{Direction: model.Neutral}
	if len(snaps) == 0 {
		return stats
	}

	first, last := snaps[0], snaps[len(snaps)-1]
	stats.From = first.Date
	stats.To = last.Date
	stats.Periods = len(snaps) - 1
	if stats.Periods == 0 {
		return stats
	}

	stats.Trend = metrics.Between(last.NetWorth.Total, first.NetWorth.Total)
	stats.AverageChange = model.Sum(last.NetWorth.Total, -first.NetWorth.Total) / float64(stats.Periods)

	for i := 1; i < len(snaps); i++ {
		pc := model.PeriodChange{
			From:   snaps[i-1].Date,
			To:     snaps[i].Date,
			Change: model.Sum(snaps[i].NetWorth.Total, -snaps[i-1].NetWorth.Total),
		}
		if stats.Best == nil || pc.Change > stats.Best.Change {
			best := pc
			stats.Best = &best
		}
		if stats.Worst == nil || pc.Change < stats.Worst.Change {
			worst := pc
			stats.Worst = &worst
		}
	}
	return stats
}

// CategoryRows returns one row per CSP bucket of latest.
func CategoryRows(latest model.Snapshot, prev *model.Snapshot, net float64, targets model.Targets, report model.HealthReport) []model.CategoryRow {
	passed := make(map[model.Category]bool, len(report.Checks))
	for _, c := range report.Checks {
		passed[c.Category] = c.Passed
	}

	rows := make([]model.CategoryRow, 0, len(model.Categories))
	for _, cat := range model.Categories {
		target := targets.For(cat)
		amount := latest.CSP.Amount(cat)
		var before *float64
		if prev != nil {
			v := prev.CSP.Amount(cat)
			before = &v
		}
		label := target.Label
		if label == "" {
			label = string(cat)
		}
		rows = append(rows, model.CategoryRow{
			Category: cat,
			Label:    label,
			Color:    target.Color,
			Amount:   amount,
			Percent:  metrics.Percentage(amount, net),
			Target:   target,
			Trend:    metrics.TrendOf(amount, before),
			Passed:   passed[cat],
		})
	}
	return rows
}

// History returns the last months snapshots as chart points. 0 returns all.
func History(snaps []model.Snapshot, months int) []model.HistoryPoint {
	if months > 0 && len(snaps) > months {
		snaps = snaps[len(snaps)-months:]
	}
	out := make([]model.HistoryPoint, len(snaps))
	for i, s := range snaps {
		out[i] = model.HistoryPoint{
			Date:        s.Date,
			Total:       s.NetWorth.Total,
			Assets:      s.NetWorth.Assets,
			Investments: s.NetWorth.Investments,
			Savings:     s.NetWorth.Savings,
			Debt:        s.NetWorth.Debt,
		}
	}
	return out
}

// NextRange returns the range option after current, wrapping around.
func NextRange(current int) int {
	for i, r := range RangeOptions {
		if r == current {
			return RangeOptions[(i+1)%len(RangeOptions)]
		}
	}
	return RangeOptions[0]
}
