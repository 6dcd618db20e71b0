package model

// ComponentTrend is one net worth component with its change since the previous snapshot.
type ComponentTrend struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Trend Trend   `json:"trend"`
}

// PeriodChange is the net worth change between two consecutive snapshots.
type PeriodChange struct {
	From   Date    `json:"from"`
	To     Date    `json:"to"`
	Change float64 `json:"change"`
}

// AllTimeStats summarizes net worth from the first snapshot to the latest.
type AllTimeStats struct {
	From          Date          `json:"from"`
	To            Date          `json:"to"`
	Periods       int           `json:"periods"`
	Trend         Trend         `json:"trend"`
	AverageChange float64       `json:"averageChange"`
	Best          *PeriodChange `json:"best,omitempty"`
	Worst         *PeriodChange `json:"worst,omitempty"`
}

// CategoryRow is one CSP bucket of the latest snapshot.
type CategoryRow struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Color    string   `json:"color,omitempty"`
	Amount   float64  `json:"amount"`
	Percent  float64  `json:"percent"`
	Target   Target   `json:"target"`
	Trend    Trend    `json:"trend"`
	Passed   bool     `json:"passed"`
}

// HistoryPoint is one snapshot's net worth in the chart series.
type HistoryPoint struct {
	Date        Date    `json:"date"`
	Total       float64 `json:"total"`
	Assets      float64 `json:"assets"`
	Investments float64 `json:"investments"`
	Savings     float64 `json:"savings"`
	Debt        float64 `json:"debt"`
}

// Dashboard is everything the presentation surfaces display.
type Dashboard struct {
	AsOf          Date             `json:"asOf"`
	Today         Date             `json:"today"`
	Currency      string           `json:"currency"`
	ProfileName   string           `json:"profileName,omitempty"`
	Income        Income           `json:"income"`
	SnapshotCount int              `json:"snapshotCount"`
	HasTrend      bool             `json:"hasTrend"`
	NetWorth      []ComponentTrend `json:"netWorth"`
	AllTime       AllTimeStats     `json:"allTime"`
	Categories    []CategoryRow    `json:"categories"`
	CSPTotal      float64          `json:"cspTotal"`
	Unallocated   float64          `json:"unallocated"`
	Health        HealthReport     `json:"health"`
	Goals         []GoalProjection `json:"goals"`
	RangeMonths   int              `json:"rangeMonths"`
	History       []HistoryPoint   `json:"history"`
	Tasks         []WeddingTask    `json:"tasks"`
	TasksDone     int              `json:"tasksDone"`
}

// NetWorthTotal returns the latest total net worth.
func (d Dashboard) NetWorthTotal() ComponentTrend {
	for _, c := range d.NetWorth {
		if c.Name == "Total" {
			return c
		}
	}
	return ComponentTrend{Name: "Total", Trend: Trend{Direction: Neutral}}
}
