package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Document is the whole persisted finance state.
type Document struct {
	SchemaVersion int             `json:"schemaVersion"`
	Profile       *Profile        `json:"profile,omitempty"`
	Income        Income          `json:"income"`
	Targets       Targets         `json:"targets"`
	Snapshots     []Snapshot      `json:"snapshots"`
	Goals         map[string]Goal `json:"goals"`
	WeddingTasks  []WeddingTask   `json:"weddingTasks"`
}

// Currency returns the display currency code, USD when unset.
func (d *Document) Currency() string {
	if d.Profile == nil || d.Profile.Currency == "" {
		return "USD"
	}
	return d.Profile.Currency
}

// Normalize recomputes snapshot totals, sorts snapshots by date and
// replaces nil collections with empty ones.
func (d *Document) Normalize() {
	for i := range d.Snapshots {
		d.Snapshots[i].Normalize()
	}
	SortSnapshots(d.Snapshots)
	if d.Snapshots == nil {
		d.Snapshots = []Snapshot{}
	}
	if d.Goals == nil {
		d.Goals = make(map[string]Goal)
	}
	if d.WeddingTasks == nil {
		d.WeddingTasks = []WeddingTask{}
	}
}

// Profile holds display preferences of the single user.
type Profile struct {
	Name            string `json:"name"`
	Currency        string `json:"currency"`
	IncomeFrequency string `json:"incomeFrequency"`
}

// Income holds monthly income. Net is the denominator for every percentage.
type Income struct {
	Gross       float64 `json:"gross"`
	Net         float64 `json:"net"`
	LastUpdated string  `json:"lastUpdated,omitempty"`
}

// Target is a percentage band of net income for one CSP bucket.
type Target struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
	Color string  `json:"color,omitempty"`
}

// Validate checks min <= max and both lie within 0..100.
func (t Target) Validate() error {
	if t.Min < 0 || t.Max > 100 {
		return fmt.Errorf("target %q: bounds must lie within 0-100", t.Label)
	}
	if t.Min > t.Max {
		return fmt.Errorf("target %q: min %.0f exceeds max %.0f", t.Label, t.Min, t.Max)
	}
	return nil
}

// Targets holds one band per CSP bucket.
type Targets struct {
	FixedCosts        Target `json:"fixedCosts"`
	Investments       Target `json:"investments"`
	SavingsGoals      Target `json:"savingsGoals"`
	GuiltFreeSpending Target `json:"guiltFreeSpending"`
}

// For returns the target of one bucket.
func (t Targets) For(cat Category) Target {
	switch cat {
	case FixedCosts:
		return t.FixedCosts
	case Investments:
		return t.Investments
	case SavingsGoals:
		return t.SavingsGoals
	case GuiltFreeSpending:
		return t.GuiltFreeSpending
	}
	return Target{}
}

// Set replaces the target of one bucket.
func (t *Targets) Set(cat Category, target Target) {
	switch cat {
	case FixedCosts:
		t.FixedCosts = target
	case Investments:
		t.Investments = target
	case SavingsGoals:
		t.SavingsGoals = target
	case GuiltFreeSpending:
		t.GuiltFreeSpending = target
	}
}

// Priority ranks goals and tasks.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns 0 for high, 1 for medium and unknown values, 2 for low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Goal is a savings target defined in configuration.
type Goal struct {
	Name                string   `json:"name"`
	Icon                string   `json:"icon"`
	TargetAmount        float64  `json:"targetAmount"`
	CurrentAmount       float64  `json:"currentAmount"`
	MonthlyContribution float64  `json:"monthlyContribution"`
	Priority            Priority `json:"priority"`
	Notes               string   `json:"notes"`
	StartDate           *Date    `json:"startDate,omitempty"`
	TargetDate          *Date    `json:"targetDate,omitempty"`

	// DerivedFromBreakdownField names a breakdown key whose cumulative sum
	// across all snapshots floors CurrentAmount.
	DerivedFromBreakdownField string `json:"derivedFromBreakdownField,omitempty"`
}

// HasTargetDate reports whether the goal is in fixed-date mode.
func (g Goal) HasTargetDate() bool {
	return g.TargetDate != nil && !g.TargetDate.IsZero()
}

// TaskID identifies a wedding task. Older exports store numeric ids.
type TaskID string

// UnmarshalJSON accepts both JSON strings and numbers.
func (id *TaskID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// MarshalJSON writes purely numeric ids back as numbers.
func (id TaskID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// WeddingTask is a checklist item carried through the document untouched by analytics.
type WeddingTask struct {
	ID        TaskID   `json:"id"`
	Task      string   `json:"task"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	DueDate   *Date    `json:"dueDate,omitempty"`
	Notes     string   `json:"notes"`
}

// SortTasks orders tasks incomplete first, then by priority, then due date, then name.
func SortTasks(tasks []WeddingTask) []WeddingTask {
	out := make([]WeddingTask, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		switch {
		case a.DueDate != nil && b.DueDate != nil && *a.DueDate != *b.DueDate:
			return a.DueDate.Before(*b.DueDate)
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		}
		return strings.ToLower(a.Task) < strings.ToLower(b.Task)
	})
	return out
}
