package model

import (
	"math"
	"time"
)

// Direction is the sign of a trend.
type Direction string

const (
	Up      Direction = "up"
	Down    Direction = "down"
	Neutral Direction = "neutral"
)

// Trend compares a current value with a previous one.
type Trend struct {
	Change    float64   `json:"change"`
	Percent   float64   `json:"percent"`
	Direction Direction `json:"direction"`
}

// HealthCheck is the evaluation of one CSP bucket against its target.
type HealthCheck struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Amount   float64  `json:"amount"`
	Percent  float64  `json:"percent"`
	Target   Target   `json:"target"`
	Passed   bool     `json:"passed"`
	Issue    string   `json:"issue,omitempty"`
}

// HealthReport is the CSP health score of one snapshot.
type HealthReport struct {
	Score     int           `json:"score"`
	IsHealthy bool          `json:"isHealthy"`
	Issues    []string      `json:"issues"`
	Checks    []HealthCheck `json:"checks"`
}

// Status returns the presentation label for the score.
func (r HealthReport) Status() string {
	switch {
	case r.Score == 100:
		return "Perfect"
	case r.IsHealthy:
		return "Healthy"
	default:
		return "Needs Attention"
	}
}

// ProjectionMode says how a goal's completion is projected.
type ProjectionMode string

const (
	VelocityMode  ProjectionMode = "velocity"
	FixedDateMode ProjectionMode = "fixedDate"
)

// GoalProjection is the computed progress of one goal.
type GoalProjection struct {
	Key                 string         `json:"key"`
	Name                string         `json:"name"`
	Icon                string         `json:"icon"`
	Priority            Priority       `json:"priority"`
	Notes               string         `json:"notes,omitempty"`
	Mode                ProjectionMode `json:"mode"`
	TargetAmount        float64        `json:"targetAmount"`
	StoredAmount        float64        `json:"storedAmount"`
	CurrentAmount       float64        `json:"currentAmount"`
	Remaining           float64        `json:"remaining"`
	Progress            float64        `json:"progress"`
	MonthlyContribution float64        `json:"monthlyContribution"`
	MonthsRemaining     float64        `json:"-"`
	EstimatedDate       *time.Time     `json:"estimatedDate,omitempty"`
	TargetDate          *time.Time     `json:"targetDate,omitempty"`
	RequiredMonthly     float64        `json:"requiredMonthly,omitempty"`
	OnTrack             bool           `json:"onTrack"`
	Shortfall           float64        `json:"shortfall,omitempty"`
}

// Reachable reports whether the goal completes at the current pace.
func (p GoalProjection) Reachable() bool {
	return !math.IsInf(p.MonthsRemaining, 1)
}

// DisplayProgress clamps progress to 0..100 for bars and labels.
func (p GoalProjection) DisplayProgress() float64 {
	return math.Max(0, math.Min(p.Progress, 100))
}
