package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/richlife/internal/model"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDefaults(t *testing.T) {
	doc, err := Defaults()
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, doc.SchemaVersion)
	assert.Equal(t, 7859.0, doc.Income.Net)
	assert.Equal(t, 12639.0, doc.Income.Gross)
	require.Len(t, doc.Snapshots, 12)
	assert.Equal(t, model.MustParseDate("2023-01-01"), doc.Snapshots[0].Date)
	assert.Equal(t, 141000.0, doc.Snapshots[0].NetWorth.Total, "stored total is recomputed")
	assert.Equal(t, 196809.0, doc.Snapshots[11].NetWorth.Total)
	for _, s := range doc.Snapshots {
		assert.NoError(t, s.Validate())
	}

	wedding, ok := doc.Goals["wedding"]
	require.True(t, ok)
	assert.Equal(t, "Wedding Fund", wedding.Name)
	assert.Equal(t, 30000.0, wedding.TargetAmount)
	assert.Equal(t, "wedding", wedding.DerivedFromBreakdownField)
	assert.False(t, wedding.HasTargetDate())
	assert.NotEmpty(t, doc.WeddingTasks)
	assert.Equal(t, "USD", doc.Currency())
}

func TestReconcile_DefaultsIsNoop(t *testing.T) {
	doc, res, err := Reconcile(DefaultsJSON())
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, res.FromVersion)
	assert.Empty(t, res.Applied)

	want, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, want, doc)
}

func TestReconcile_LegacyLayout(t *testing.T) {
	doc, res, err := Reconcile(readTestdata(t, "legacy.json"))
	require.NoError(t, err)

	assert.Equal(t, 0, res.FromVersion)
	assert.Equal(t, []string{"legacy-layout", "goal-breakdown-source"}, res.Applied)
	assert.Equal(t, CurrentVersion, doc.SchemaVersion)

	require.Len(t, doc.Snapshots, 12)
	assert.Equal(t, model.MustParseDate("2023-01-01"), doc.Snapshots[0].Date)
	assert.Equal(t, 141000.0, doc.Snapshots[0].NetWorth.Total)
	assert.Zero(t, doc.Snapshots[0].CSP.Total())

	latest := doc.Snapshots[11]
	assert.Equal(t, model.MustParseDate("2023-12-01"), latest.Date)
	assert.Equal(t, 196809.0, latest.NetWorth.Total)
	assert.Equal(t, model.CSP{FixedCosts: 2935, Investments: 425, SavingsGoals: 1500, GuiltFreeSpending: 2999}, latest.CSP)
	assert.Equal(t, 1000.0, latest.Breakdown["wedding"])
	assert.NoError(t, latest.Validate())

	assert.Equal(t, "2023-12-01", doc.Income.LastUpdated)
	assert.Equal(t, "wedding", doc.Goals["wedding"].DerivedFromBreakdownField)
	assert.NotEmpty(t, doc.WeddingTasks, "missing collections are injected")
	require.NotNil(t, doc.Profile)
}

func TestMigrateLegacyLayout_BuildsTargetsFromRanges(t *testing.T) {
	raw, err := decodeObject(readTestdata(t, "legacy.json"))
	require.NoError(t, err)
	delete(raw, "targets")
	raw["csp"].(map[string]any)["fixedCosts"].(map[string]any)["targetRange"] = map[string]any{"min": 40.0, "max": 55.0}
	defaults, err := decodeObject(defaultsJSON)
	require.NoError(t, err)

	require.NoError(t, migrateLegacyLayout(raw, defaults))

	fixed := raw["targets"].(map[string]any)["fixedCosts"].(map[string]any)
	assert.Equal(t, 40.0, fixed["min"])
	assert.Equal(t, 55.0, fixed["max"])
	assert.Equal(t, "Fixed Costs", fixed["label"])
	assert.NotContains(t, raw, "netWorth")
	assert.NotContains(t, raw, "csp")
}

func TestMigrations_Idempotent(t *testing.T) {
	defaults, err := decodeObject(defaultsJSON)
	require.NoError(t, err)

	for _, m := range Migrations {
		t.Run(m.Name, func(t *testing.T) {
			once, err := decodeObject(readTestdata(t, "legacy.json"))
			require.NoError(t, err)
			for _, prior := range Migrations {
				if prior.Version > m.Version {
					break
				}
				require.NoError(t, prior.Apply(once, defaults))
			}
			first, err := json.Marshal(once)
			require.NoError(t, err)

			require.NoError(t, m.Apply(once, defaults))
			second, err := json.Marshal(once)
			require.NoError(t, err)

			assert.JSONEq(t, string(first), string(second))
		})
	}
}

func TestReconcile_GoalMerge(t *testing.T) {
	stored := []byte(`{
		"schemaVersion": 2,
		"income": {"gross": 9000, "net": 6000},
		"snapshots": [],
		"goals": {
			"wedding": {"targetAmount": 50000, "currentAmount": 12000, "monthlyContribution": 1500, "targetDate": "2027-01-01"},
			"vacation": {"name": "Japan", "targetAmount": 6000, "currentAmount": 1000, "monthlyContribution": 250, "priority": "low"}
		}
	}`)

	doc, _, err := Reconcile(stored)
	require.NoError(t, err)

	wedding := doc.Goals["wedding"]
	assert.Equal(t, 30000.0, wedding.TargetAmount, "targetAmount follows the default")
	assert.False(t, wedding.HasTargetDate(), "targetDate follows the default")
	assert.Equal(t, 12000.0, wedding.CurrentAmount)
	assert.Equal(t, 1500.0, wedding.MonthlyContribution)
	assert.Equal(t, "Wedding Fund", wedding.Name, "missing fields come from the default")
	assert.Equal(t, "ring", wedding.Icon)

	vacation, ok := doc.Goals["vacation"]
	require.True(t, ok, "stored-only goals are kept")
	assert.Equal(t, 6000.0, vacation.TargetAmount)

	assert.Empty(t, doc.Snapshots, "stored collections are never replaced")
	assert.Equal(t, 6000.0, doc.Income.Net)
}

func TestReconcile_DefaultOnlyGoalsNotAdded(t *testing.T) {
	doc, _, err := Reconcile([]byte(`{"schemaVersion": 2, "income": {"net": 1}, "snapshots": [], "goals": {}}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Goals)
}

func TestReconcile_InjectsMissingTargetBand(t *testing.T) {
	doc, _, err := Reconcile([]byte(`{"schemaVersion": 2, "targets": {"fixedCosts": {"min": 40, "max": 50, "label": "Fixed"}}}`))
	require.NoError(t, err)
	assert.Equal(t, 50.0, doc.Targets.FixedCosts.Max)
	assert.Equal(t, 35.0, doc.Targets.GuiltFreeSpending.Max)
}

func TestReconcile_Rejects(t *testing.T) {
	for _, in := range []string{``, `not json`, `[1,2]`, `null`, `{"snapshots": [{"date": "yesterday"}]}`} {
		_, _, err := Reconcile([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestReconcile_IdempotentProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("reconciling twice equals reconciling once", prop.ForAll(
		func(current, target, monthly float64, withTasks bool) bool {
			stored := map[string]any{
				"income":    map[string]any{"net": 5000.0},
				"snapshots": []any{},
				"goals": map[string]any{
					"wedding": map[string]any{"currentAmount": current, "targetAmount": target, "monthlyContribution": monthly},
				},
			}
			if withTasks {
				stored["weddingTasks"] = []any{}
			}
			data, err := json.Marshal(stored)
			if err != nil {
				return false
			}
			once, _, err := Reconcile(data)
			if err != nil {
				return false
			}
			exported, err := json.Marshal(once)
			if err != nil {
				return false
			}
			twice, res, err := Reconcile(exported)
			if err != nil {
				return false
			}
			return len(res.Applied) == 0 && assert.ObjectsAreEqual(once, twice)
		},
		gen.Float64Range(0, 100000),
		gen.Float64Range(0, 100000),
		gen.Float64Range(0, 5000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestReconcile_IdempotentLegacy(t *testing.T) {
	once, _, err := Reconcile(readTestdata(t, "legacy.json"))
	require.NoError(t, err)
	exported, err := json.Marshal(once)
	require.NoError(t, err)

	twice, _, err := Reconcile(exported)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestValidateImport(t *testing.T) {
	assert.NoError(t, ValidateImport([]byte(`{"snapshots": [], "income": {"net": 1}}`)))

	for _, in := range []string{
		`{"income": {"net": 1}}`,
		`{"snapshots": {}, "income": {"net": 1}}`,
		`{"snapshots": []}`,
		`{"snapshots": [], "income": 5}`,
		`[]`,
		`garbage`,
	} {
		assert.ErrorIs(t, ValidateImport([]byte(in)), ErrInvalidImport, "input %q", in)
	}
}
