package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-1-5")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2023, time.January, 5), d)

	d, err = ParseDate("2023-06")
	require.NoError(t, err)
	assert.Equal(t, "2023-06-01", d.String())

	_, err = ParseDate("June 2023")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var got struct {
		Date Date  `json:"date"`
		Due  *Date `json:"due,omitempty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-02-29"}`), &got))
	assert.Equal(t, NewDate(2024, time.February, 29), got.Date)
	assert.Nil(t, got.Due)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-02-29"}`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(out))
}

func TestTaskIDKeepsNumbers(t *testing.T) {
	var tasks []WeddingTask
	require.NoError(t, json.Unmarshal([]byte(`[{"id":3,"task":"Venue"},{"id":"a1b2","task":"Dress"}]`), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, TaskID("3"), tasks[0].ID)
	assert.Equal(t, TaskID("a1b2"), tasks[1].ID)

	out, err := json.Marshal(tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, `3`, string(out))
	out, err = json.Marshal(tasks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, `"a1b2"`, string(out))
}

func TestSortTasks(t *testing.T) {
	early := NewDate(2024, time.May, 1)
	late := NewDate(2024, time.September, 1)
	tasks := []WeddingTask{
		{ID: "1", Task: "done", Completed: true, Priority: PriorityHigh},
		{ID: "2", Task: "low", Priority: PriorityLow},
		{ID: "3", Task: "high late", Priority: PriorityHigh, DueDate: &late},
		{ID: "4", Task: "high early", Priority: PriorityHigh, DueDate: &early},
		{ID: "5", Task: "high undated", Priority: PriorityHigh},
	}
	got := SortTasks(tasks)

	ids := make([]TaskID, len(got))
	for i, task := range got {
		ids[i] = task.ID
	}
	assert.Equal(t, []TaskID{"4", "3", "5", "2", "1"}, ids)
	assert.Equal(t, TaskID("1"), tasks[0].ID, "input must not be reordered")
}

func TestSnapshotValidate(t *testing.T) {
	snap := Snapshot{
		Date:      NewDate(2023, time.March, 1),
		NetWorth:  NetWorth{Assets: 10000, Debt: 500},
		CSP:       CSP{FixedCosts: 2000.10, SavingsGoals: 300},
		Breakdown: Breakdown{"rent": 1800.05, "utilities": 200.05, "wedding": 300},
	}
	require.NoError(t, snap.Validate())

	bad := snap
	bad.Breakdown = Breakdown{"rent": 1500}
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidSnapshot))

	bad = snap
	bad.NetWorth.Debt = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSnapshot)

	assert.ErrorIs(t, Snapshot{}.Validate(), ErrInvalidSnapshot)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		bad = snap
		bad.NetWorth.Assets = v
		assert.ErrorIs(t, bad.Validate(), ErrInvalidSnapshot, "assets %v", v)

		bad = snap
		bad.CSP.Investments = v
		assert.ErrorIs(t, bad.Validate(), ErrInvalidSnapshot, "csp investments %v", v)

		bad = snap
		bad.Breakdown = Breakdown{"rent": 2000.10, "utilities": v}
		assert.ErrorIs(t, bad.Validate(), ErrInvalidSnapshot, "breakdown %v", v)
	}
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.True(t, SameCents(0.1+0.2, 0.3))
	assert.False(t, SameCents(10.01, 10.02))
}

func TestSortSnapshotsStable(t *testing.T) {
	d := NewDate(2023, time.February, 1)
	snaps := []Snapshot{
		{Date: NewDate(2023, time.March, 1)},
		{Date: d, NetWorth: NetWorth{Assets: 1}},
		{Date: d, NetWorth: NetWorth{Assets: 2}},
	}
	SortSnapshots(snaps)
	assert.Equal(t, d, snaps[0].Date)
	assert.Equal(t, 1.0, snaps[0].NetWorth.Assets)
	assert.Equal(t, 2.0, snaps[1].NetWorth.Assets)
}
