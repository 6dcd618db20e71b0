package schema

import (
	"fmt"
	"sort"
	"time"

	"github.com/theirongolddev/richlife/internal/model"
)

// CurrentVersion is the schema version stamped on reconciled documents.
const CurrentVersion = 2

// Migration upgrades a raw document by one schema version. Apply must be idempotent.
type Migration struct {
	Version int
	Name    string
	Apply   func(raw, defaults map[string]any) error
}

// Migrations lists every migration in version order.
var Migrations = []Migration{
	{Version: 1, Name: "legacy-layout", Apply: migrateLegacyLayout},
	{Version: 2, Name: "goal-breakdown-source", Apply: migrateGoalBreakdownSource},
}

const legacyMonthFormat = "Jan 2006"

// migrateLegacyLayout converts the static dashboard layout (netWorth.history,
// csp.<category>.total/breakdown/targetRange, top-level lastUpdated) into
// snapshots and targets. The CSP totals only describe the most recent month,
// so they are attached to the latest snapshot.
func migrateLegacyLayout(raw, defaults map[string]any) error {
	if _, ok := raw["snapshots"]; ok {
		return nil
	}
	netWorth, ok := raw["netWorth"].(map[string]any)
	if !ok {
		return nil
	}

	lastUpdated, _ := raw["lastUpdated"].(string)
	csp, _ := raw["csp"].(map[string]any)

	var snaps []map[string]any
	if history, ok := netWorth["history"].([]any); ok {
		for i, h := range history {
			entry, ok := h.(map[string]any)
			if !ok {
				return fmt.Errorf("netWorth.history[%d] is not an object", i)
			}
			month, _ := entry["month"].(string)
			t, err := time.Parse(legacyMonthFormat, month)
			if err != nil {
				return fmt.Errorf("netWorth.history[%d]: month %q: %w", i, month, err)
			}
			snaps = append(snaps, legacySnapshot(model.DateOf(t), entry))
		}
	}
	if len(snaps) == 0 {
		current, ok := netWorth["current"].(map[string]any)
		if !ok {
			return fmt.Errorf("legacy document has neither netWorth.history nor netWorth.current")
		}
		d, err := model.ParseDate(lastUpdated)
		if err != nil {
			return fmt.Errorf("legacy lastUpdated: %w", err)
		}
		snaps = append(snaps, legacySnapshot(d, current))
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i]["date"].(string) < snaps[j]["date"].(string)
	})
	if csp != nil {
		attachLegacyCSP(snaps[len(snaps)-1], csp)
	}

	out := make([]any, len(snaps))
	for i, s := range snaps {
		out[i] = s
	}
	raw["snapshots"] = out

	if _, ok := raw["targets"]; !ok && csp != nil {
		raw["targets"] = legacyTargets(csp, defaults)
	}
	if income, ok := raw["income"].(map[string]any); ok && lastUpdated != "" {
		if _, ok := income["lastUpdated"]; !ok {
			income["lastUpdated"] = lastUpdated
		}
	}

	delete(raw, "netWorth")
	delete(raw, "csp")
	delete(raw, "lastUpdated")
	delete(raw, "currentMonth")
	return nil
}

func legacySnapshot(d model.Date, entry map[string]any) map[string]any {
	return map[string]any{
		"date": d.String(),
		"netWorth": map[string]any{
			"assets":      number(entry["assets"]),
			"investments": number(entry["investments"]),
			"savings":     number(entry["savings"]),
			"debt":        number(entry["debt"]),
		},
		"csp": map[string]any{
			"fixedCosts":        0.0,
			"investments":       0.0,
			"savingsGoals":      0.0,
			"guiltFreeSpending": 0.0,
		},
	}
}

func attachLegacyCSP(snap, csp map[string]any) {
	totals := snap["csp"].(map[string]any)
	breakdown := make(map[string]any)
	for _, cat := range model.Categories {
		bucket, ok := csp[string(cat)].(map[string]any)
		if !ok {
			continue
		}
		totals[string(cat)] = number(bucket["total"])
		if items, ok := bucket["breakdown"].(map[string]any); ok {
			for field, v := range items {
				breakdown[field] = number(v)
			}
		}
	}
	if len(breakdown) > 0 {
		snap["breakdown"] = breakdown
	}
}

func legacyTargets(csp, defaults map[string]any) map[string]any {
	def, _ := defaults["targets"].(map[string]any)
	targets := make(map[string]any)
	for _, cat := range model.Categories {
		band := map[string]any{}
		if d, ok := def[string(cat)].(map[string]any); ok {
			band = clone(d).(map[string]any)
		}
		if bucket, ok := csp[string(cat)].(map[string]any); ok {
			if r, ok := bucket["targetRange"].(map[string]any); ok {
				band["min"] = number(r["min"])
				band["max"] = number(r["max"])
			}
		}
		targets[string(cat)] = band
	}
	return targets
}

// migrateGoalBreakdownSource gives the wedding goal its breakdown source field.
func migrateGoalBreakdownSource(raw, _ map[string]any) error {
	goals, ok := raw["goals"].(map[string]any)
	if !ok {
		return nil
	}
	wedding, ok := goals["wedding"].(map[string]any)
	if !ok {
		return nil
	}
	if _, ok := wedding["derivedFromBreakdownField"]; !ok {
		wedding["derivedFromBreakdownField"] = "wedding"
	}
	return nil
}

func number(v any) float64 {
	f, _ := v.(float64)
	return f
}
