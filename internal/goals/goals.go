// Package goals projects progress toward savings goals, either at the
// current contribution pace or back-solved from a target date.
package goals

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/richlife/internal/metrics"
	"github.com/theirongolddev/richlife/internal/model"
)

// DaysPerMonth is the month length used for target-date projections.
const DaysPerMonth = 30

// MaxProjectionMonths bounds velocity projections. Slower paces get no estimated date.
const MaxProjectionMonths = 12 * 1000

// DerivedAmount returns the cumulative sum of field across every snapshot's breakdown.
func DerivedAmount(field string, snapshots []model.Snapshot) float64 {
	total := decimal.Zero
	for _, s := range snapshots {
		if v, ok := s.Breakdown[field]; ok {
			total = total.Add(decimal.NewFromFloat(v))
		}
	}
	return total.InexactFloat64()
}

// CurrentAmount returns the amount used for projection: the stored value,
// floored by the derived breakdown sum when the goal declares a source field.
func CurrentAmount(g model.Goal, snapshots []model.Snapshot) float64 {
	if g.DerivedFromBreakdownField == "" {
		return g.CurrentAmount
	}
	return math.Max(g.CurrentAmount, DerivedAmount(g.DerivedFromBreakdownField, snapshots))
}

// Project computes the projection of one goal as of today.
func Project(key string, g model.Goal, snapshots []model.Snapshot, today model.Date) model.GoalProjection {
	current := CurrentAmount(g, snapshots)
	remaining := model.Sum(g.TargetAmount, -current)

	p := model.GoalProjection{
		Key:                 key,
		Name:                g.Name,
		Icon:                g.Icon,
		Priority:            g.Priority,
		Notes:               g.Notes,
		TargetAmount:        g.TargetAmount,
		StoredAmount:        g.CurrentAmount,
		CurrentAmount:       current,
		Remaining:           remaining,
		Progress:            metrics.Percentage(current, g.TargetAmount),
		MonthlyContribution: g.MonthlyContribution,
	}

	if g.HasTargetDate() {
		projectFixedDate(&p, *g.TargetDate, today)
	} else {
		projectVelocity(&p, today)
	}
	return p
}

func projectVelocity(p *model.GoalProjection, today model.Date) {
	p.Mode = model.VelocityMode
	if p.Remaining <= 0 {
		p.MonthsRemaining = 0
		p.OnTrack = true
		return
	}

	p.MonthsRemaining = metrics.MonthsUntilGoal(p.Remaining, p.MonthlyContribution)
	if !p.Reachable() || p.MonthsRemaining > MaxProjectionMonths {
		return
	}
	est := metrics.AddMonths(today.Time(), int(p.MonthsRemaining))
	p.EstimatedDate = &est
	p.OnTrack = true
}

func projectFixedDate(p *model.GoalProjection, target, today model.Date) {
	p.Mode = model.FixedDateMode
	td := target.Time()
	p.TargetDate = &td

	months := MonthsUntil(target, today)
	p.MonthsRemaining = float64(months)
	p.RequiredMonthly = metrics.RequiredMonthly(p.Remaining, months)
	p.OnTrack = p.Remaining <= 0 || p.MonthlyContribution >= p.RequiredMonthly
	if !p.OnTrack {
		p.Shortfall = model.Sum(p.RequiredMonthly, -p.MonthlyContribution)
	}
}

// MonthsUntil returns the 30-day months from today to target, at least 1.
func MonthsUntil(target, today model.Date) int {
	days := (target.Time().Unix() - today.Time().Unix()) / 86400
	months := int(math.Ceil(float64(days) / DaysPerMonth))
	if months < 1 {
		return 1
	}
	return months
}

// ProjectAll projects every goal, ordered by priority then key.
func ProjectAll(goals map[string]model.Goal, snapshots []model.Snapshot, today model.Date) []model.GoalProjection {
	out := make([]model.GoalProjection, 0, len(goals))
	for key, g := range goals {
		out = append(out, Project(key, g, snapshots, today))
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// EstimatedLabel formats the estimated completion month, or "N/A" when unreachable.
func EstimatedLabel(p model.GoalProjection) string {
	if p.EstimatedDate == nil {
		if p.Remaining <= 0 {
			return "Reached"
		}
		return "N/A"
	}
	return p.EstimatedDate.Format("Jan 2006")
}
