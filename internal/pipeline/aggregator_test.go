package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/schema"
)

var today = model.NewDate(2026, time.March, 15)

func defaultDoc(t *testing.T) *model.Document {
	t.Helper()
	doc, err := schema.Defaults()
	require.NoError(t, err)
	return doc
}

func TestBuild_Defaults(t *testing.T) {
	d := Build(defaultDoc(t), today, Options{RangeMonths: 12})

	assert.Equal(t, model.MustParseDate("2023-12-01"), d.AsOf)
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, 12, d.SnapshotCount)
	assert.True(t, d.HasTrend)

	total := d.NetWorthTotal()
	assert.Equal(t, 196809.0, total.Value)
	assert.Equal(t, 3079.0, total.Trend.Change)
	assert.Equal(t, model.Up, total.Trend.Direction)

	assert.Equal(t, 50, d.Health.Score)
	assert.Len(t, d.Health.Issues, 2)

	require.Len(t, d.Categories, 4)
	assert.Equal(t, "Fixed Costs", d.Categories[0].Label)
	assert.InDelta(t, 37.35, d.Categories[0].Percent, 0.01)
	assert.True(t, d.Categories[0].Passed)
	assert.False(t, d.Categories[1].Passed)
	assert.Equal(t, model.Neutral, d.Categories[0].Trend.Direction)

	assert.Equal(t, 7859.0, d.CSPTotal)
	assert.Equal(t, 0.0, d.Unallocated)

	require.Len(t, d.Goals, 1)
	assert.Equal(t, 12000.0, d.Goals[0].CurrentAmount, "wedding floor comes from breakdown history")
	assert.Equal(t, 18.0, d.Goals[0].MonthsRemaining)

	assert.Len(t, d.History, 12)
	assert.Equal(t, 1, d.TasksDone)
	assert.False(t, d.Tasks[0].Completed)
}

func TestBuild_Empty(t *testing.T) {
	doc := &model.Document{Income: model.Income{Net: 5000}, Goals: map[string]model.Goal{}}

	d := Build(doc, today, Options{})

	assert.True(t, d.AsOf.IsZero())
	assert.False(t, d.HasTrend)
	assert.Empty(t, d.History)
	assert.Empty(t, d.Categories)
	assert.Equal(t, model.Neutral, d.NetWorthTotal().Trend.Direction)
}

func TestBuild_SingleSnapshotHasNoTrend(t *testing.T) {
	doc := defaultDoc(t)
	doc.Snapshots = doc.Snapshots[:1]

	d := Build(doc, today, Options{})

	assert.False(t, d.HasTrend)
	for _, c := range d.NetWorth {
		assert.Equal(t, model.Trend{Direction: model.Neutral}, c.Trend, c.Name)
	}
	assert.Equal(t, 0, d.AllTime.Periods)
	assert.Nil(t, d.AllTime.Best)
}

func TestAllTime(t *testing.T) {
	stats := AllTime(defaultDoc(t).Snapshots)

	assert.Equal(t, 11, stats.Periods)
	assert.Equal(t, 55809.0, stats.Trend.Change)
	assert.InDelta(t, 39.58, stats.Trend.Percent, 0.01)
	assert.InDelta(t, 5073.55, stats.AverageChange, 0.01)

	require.NotNil(t, stats.Best)
	assert.Equal(t, 6600.0, stats.Best.Change)
	assert.Equal(t, model.MustParseDate("2023-04-01"), stats.Best.To)

	require.NotNil(t, stats.Worst)
	assert.Equal(t, 3079.0, stats.Worst.Change)
	assert.Equal(t, model.MustParseDate("2023-12-01"), stats.Worst.To)
}

func TestHistory_Range(t *testing.T) {
	snaps := defaultDoc(t).Snapshots

	three := History(snaps, 3)
	require.Len(t, three, 3)
	assert.Equal(t, model.MustParseDate("2023-10-01"), three[0].Date)
	assert.Equal(t, model.MustParseDate("2023-12-01"), three[2].Date)

	assert.Len(t, History(snaps, 6), 6)
	assert.Len(t, History(snaps, 0), 12)
	assert.Len(t, History(snaps, 24), 12)
}

func TestNextRange(t *testing.T) {
	assert.Equal(t, 6, NextRange(3))
	assert.Equal(t, 0, NextRange(12))
	assert.Equal(t, 3, NextRange(0))
	assert.Equal(t, 3, NextRange(7))
}
