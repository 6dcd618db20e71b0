// Package model defines the domain types of the richlife finance document.
package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidSnapshot is returned when a snapshot fails validation.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Category identifies one of the four Conscious Spending Plan buckets.
type Category string

const (
	FixedCosts        Category = "fixedCosts"
	Investments       Category = "investments"
	SavingsGoals      Category = "savingsGoals"
	GuiltFreeSpending Category = "guiltFreeSpending"
)

// Categories lists the CSP buckets in display order.
var Categories = []Category{FixedCosts, Investments, SavingsGoals, GuiltFreeSpending}

// BreakdownFields maps each CSP bucket to the itemized breakdown keys that roll up into it.
var BreakdownFields = map[Category][]string{
	FixedCosts: {
		"rent", "utilities", "insurance", "carPayment", "phone",
		"internet", "subscriptions", "groceries", "transportation", "haircut",
	},
	Investments:       {"rothIRA", "retirement401k", "stocks", "crypto"},
	SavingsGoals:      {"vacations", "wedding", "emergencyFund", "homeDownPayment", "gifts"},
	GuiltFreeSpending: {"dining", "entertainment", "shopping"},
}

// NetWorth holds the balance-sheet side of a snapshot. Debt is a positive magnitude.
type NetWorth struct {
	Assets      float64 `json:"assets"`
	Investments float64 `json:"investments"`
	Savings     float64 `json:"savings"`
	Debt        float64 `json:"debt"`
	Total       float64 `json:"total"`
}

// ComputeTotal returns assets + investments + savings - debt.
func (n NetWorth) ComputeTotal() float64 {
	return Sum(n.Assets, n.Investments, n.Savings, -n.Debt)
}

// CSP holds the monthly totals of the four spending buckets.
type CSP struct {
	FixedCosts        float64 `json:"fixedCosts"`
	Investments       float64 `json:"investments"`
	SavingsGoals      float64 `json:"savingsGoals"`
	GuiltFreeSpending float64 `json:"guiltFreeSpending"`
}

// Amount returns the total for one bucket.
func (c CSP) Amount(cat Category) float64 {
	switch cat {
	case FixedCosts:
		return c.FixedCosts
	case Investments:
		return c.Investments
	case SavingsGoals:
		return c.SavingsGoals
	case GuiltFreeSpending:
		return c.GuiltFreeSpending
	}
	return 0
}

// Total returns the sum of all four buckets.
func (c CSP) Total() float64 {
	return Sum(c.FixedCosts, c.Investments, c.SavingsGoals, c.GuiltFreeSpending)
}

// Breakdown holds itemized sub-category amounts keyed by field name.
type Breakdown map[string]float64

// CategorySum returns the sum of the fields belonging to cat and whether any was present.
func (b Breakdown) CategorySum(cat Category) (float64, bool) {
	var (
		values  []float64
		present bool
	)
	for _, field := range BreakdownFields[cat] {
		if v, ok := b[field]; ok {
			values = append(values, v)
			present = true
		}
	}
	return Sum(values...), present
}

// Snapshot is a dated record of net worth and CSP totals.
type Snapshot struct {
	Date      Date      `json:"date"`
	NetWorth  NetWorth  `json:"netWorth"`
	CSP       CSP       `json:"csp"`
	Breakdown Breakdown `json:"breakdown,omitempty"`
}

// Normalize recomputes derived fields. Stored totals are never trusted.
func (s *Snapshot) Normalize() {
	s.NetWorth.Total = s.NetWorth.ComputeTotal()
}

// Validate checks amounts are non-negative and breakdown sums match their CSP totals.
func (s Snapshot) Validate() error {
	if s.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidSnapshot)
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"netWorth.assets", s.NetWorth.Assets},
		{"netWorth.investments", s.NetWorth.Investments},
		{"netWorth.savings", s.NetWorth.Savings},
		{"netWorth.debt", s.NetWorth.Debt},
		{"csp.fixedCosts", s.CSP.FixedCosts},
		{"csp.investments", s.CSP.Investments},
		{"csp.savingsGoals", s.CSP.SavingsGoals},
		{"csp.guiltFreeSpending", s.CSP.GuiltFreeSpending},
	}
	for _, a := range amounts {
		if !finite(a.value) {
			return fmt.Errorf("%w: %s is not a finite amount", ErrInvalidSnapshot, a.name)
		}
		if a.value < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidSnapshot, a.name)
		}
	}

	for field, v := range s.Breakdown {
		if !finite(v) {
			return fmt.Errorf("%w: breakdown.%s is not a finite amount", ErrInvalidSnapshot, field)
		}
		if v < 0 {
			return fmt.Errorf("%w: breakdown.%s is negative", ErrInvalidSnapshot, field)
		}
	}

	for _, cat := range Categories {
		sum, present := s.Breakdown.CategorySum(cat)
		if !present {
			continue
		}
		if !SameCents(sum, s.CSP.Amount(cat)) {
			return fmt.Errorf("%w: breakdown for %s sums to %.2f, csp total is %.2f",
				ErrInvalidSnapshot, cat, sum, s.CSP.Amount(cat))
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SortSnapshots orders snapshots by ascending date. Equal dates keep insertion order.
func SortSnapshots(snaps []Snapshot) {
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].Date.Before(snaps[j].Date)
	})
}
