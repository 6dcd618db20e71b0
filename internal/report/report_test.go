package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/pipeline"
	"github.com/theirongolddev/richlife/internal/schema"
)

func defaultDashboard(t *testing.T) model.Dashboard {
	t.Helper()
	doc, err := schema.Defaults()
	require.NoError(t, err)
	return pipeline.Build(doc, model.NewDate(2026, time.March, 15), pipeline.Options{RangeMonths: 12})
}

func TestMarkdown_Defaults(t *testing.T) {
	md, err := Markdown(defaultDashboard(t))
	require.NoError(t, err)

	for _, want := range []string{
		"# Rich Life Dashboard",
		"_As of Dec 2023 · 12 snapshots_",
		"| Total | $196,809 | +$3,079 (+1.6%) |",
		"Net income $7,859 per month.",
		"| Fixed Costs | $2,935 | 37% | 50-60% | ✓ |",
		"| Investments | $425 | 5% | 10%+ | ✗ |",
		"**Health: 50/100 (Needs Attention)**",
		"- Investments at 5% (target: 10%+)",
		"- Guilt-Free at 38% (target: 20-35%)",
		"### ring Wedding Fund",
		"- Saved $12,000 of $30,000 (40%)",
		"## Tasks (1/5 done)",
		"- [ ] Book the venue (due 2024-03-01)",
		"- [ ] Plan the honeymoon\n",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "Set the overall wedding budget", "completed tasks are left out")
}

func TestMarkdown_FixedDateGoal(t *testing.T) {
	d := defaultDashboard(t)
	target := time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)
	d.Goals = []model.GoalProjection{{
		Name:            "House",
		Icon:            "home",
		Mode:            model.FixedDateMode,
		TargetAmount:    50000,
		CurrentAmount:   10000,
		TargetDate:      &target,
		RequiredMonthly: 2000,
		Shortfall:       500,
	}}

	md, err := Markdown(d)
	require.NoError(t, err)
	assert.Contains(t, md, "- Needs $2,000/month to reach it by June 2027, short $500/month")
}

func TestMarkdown_ProfileTitleAndNoSnapshots(t *testing.T) {
	doc := &model.Document{
		Profile: &model.Profile{Name: "Sam", Currency: "EUR"},
		Income:  model.Income{Net: 4000},
		Goals:   map[string]model.Goal{},
	}
	md, err := Markdown(pipeline.Build(doc, model.NewDate(2026, time.March, 15), pipeline.Options{}))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# Sam's Rich Life\n"))
	assert.Contains(t, md, "_As of — · 0 snapshots_")
	assert.Contains(t, md, "Net income €4,000 per month.")
	assert.NotContains(t, md, "## Goals")
	assert.NotContains(t, md, "## Tasks")
}

func TestRender(t *testing.T) {
	out, err := Render("# Title\n\nSome *text*.\n", 40)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}
