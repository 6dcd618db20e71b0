package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/richlife/internal/config"
	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/store"
	"github.com/theirongolddev/richlife/internal/tui/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var testToday = model.NewDate(2024, time.March, 1)

// loadedApp returns an App over the bundled defaults, already loaded.
func loadedApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	theme.SetActive("flexoki-dark")

	st := store.New(store.NewMemory(), nil)
	a := App{
		store:       st,
		cfg:         config.DefaultConfig(),
		today:       func() model.Date { return testToday },
		rangeMonths: 12,
		setupVals:   &SetupValues{},
		width:       140,
		height:      45,
		loading:     true,
	}
	msg := a.loadCmd()()
	m, _ := a.Update(msg)
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	var m tea.Model = a
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.(App).Update(msg)
	}
	return m.(App)
}

func TestLoadBuildsDashboard(t *testing.T) {
	a := loadedApp(t)
	if !a.loaded || a.loading {
		t.Fatalf("loaded=%v loading=%v, want true/false", a.loaded, a.loading)
	}
	if a.dash.SnapshotCount != 12 {
		t.Fatalf("SnapshotCount = %d, want 12", a.dash.SnapshotCount)
	}
	if len(a.snapshots) != 12 {
		t.Fatalf("len(snapshots) = %d, want 12", len(a.snapshots))
	}
	if a.notice != "" {
		t.Fatalf("notice = %q, want empty for bundled defaults", a.notice)
	}
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t)

	tests := []struct {
		keys []string
		want int
	}{
		{[]string{"s"}, tabSpending},
		{[]string{"g"}, tabGoals},
		{[]string{"t"}, tabTasks},
		{[]string{"o"}, tabOverview},
		{[]string{"right", "right"}, tabGoals},
		{[]string{"left"}, tabTasks},
	}
	for _, tt := range tests {
		got := press(t, a, tt.keys...).activeTab
		if got != tt.want {
			t.Fatalf("keys %v -> tab %d, want %d", tt.keys, got, tt.want)
		}
	}
}

func TestRangeKeysRebuildHistory(t *testing.T) {
	a := loadedApp(t)
	if len(a.dash.History) != 12 {
		t.Fatalf("len(History) = %d, want 12", len(a.dash.History))
	}

	a = press(t, a, "1")
	if a.rangeMonths != 3 || len(a.dash.History) != 3 {
		t.Fatalf("range 1: rangeMonths=%d len(History)=%d, want 3/3", a.rangeMonths, len(a.dash.History))
	}
	if last := a.dash.History[len(a.dash.History)-1].Date; last != a.dash.AsOf {
		t.Fatalf("last history point = %s, want %s", last, a.dash.AsOf)
	}

	a = press(t, a, "0")
	if a.rangeMonths != 0 || len(a.dash.History) != 12 {
		t.Fatalf("range 0: rangeMonths=%d len(History)=%d, want 0/12", a.rangeMonths, len(a.dash.History))
	}
}

func TestHelpToggle(t *testing.T) {
	a := press(t, loadedApp(t), "?")
	if !a.showHelp {
		t.Fatal("? did not open help")
	}
	a = press(t, a, "s")
	if a.showHelp || a.activeTab != tabOverview {
		t.Fatalf("any key should only close help: showHelp=%v tab=%d", a.showHelp, a.activeTab)
	}
}

func TestTaskToggle(t *testing.T) {
	a := press(t, loadedApp(t), "t", "j", "j", "k")
	if a.taskCursor != 1 {
		t.Fatalf("taskCursor = %d, want 1", a.taskCursor)
	}
	target := a.dash.Tasks[1]

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	a = m.(App)
	if cmd == nil || !a.loading {
		t.Fatal("toggle should start a save")
	}
	m, _ = a.Update(cmd())
	a = m.(App)

	for _, task := range a.dash.Tasks {
		if task.ID == target.ID && task.Completed == target.Completed {
			t.Fatalf("task %s completed = %v, want %v", task.ID, task.Completed, !target.Completed)
		}
	}

	// Cursor cannot move past the end.
	a = press(t, a, strings.Split(strings.Repeat("j", 50), "")...)
	if a.taskCursor != len(a.dash.Tasks)-1 {
		t.Fatalf("taskCursor = %d, want %d", a.taskCursor, len(a.dash.Tasks)-1)
	}
}

func TestThemeCycleKey(t *testing.T) {
	a := loadedApp(t)
	before := theme.Active.Name
	a = press(t, a, "T")
	if theme.Active.Name == before {
		t.Fatalf("theme still %q after T", before)
	}
	if a.cfg.Appearance.Theme != theme.Active.Name {
		t.Fatalf("cfg theme = %q, want %q", a.cfg.Appearance.Theme, theme.Active.Name)
	}
	saved, err := config.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if saved.Appearance.Theme != theme.Active.Name {
		t.Fatalf("saved theme = %q, want %q", saved.Appearance.Theme, theme.Active.Name)
	}
	theme.SetActive(before)
}

func TestLoadErrorShowsNotice(t *testing.T) {
	a := App{width: 100, height: 30, loading: true, setupVals: &SetupValues{}}
	m, _ := a.Update(DataLoadedMsg{Err: errTest})
	a = m.(App)
	if a.loaded {
		t.Fatal("failed load marked app loaded")
	}
	if !strings.Contains(a.View(), "boom") {
		t.Fatal("loading view does not show the error")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")

func TestViewRendersEveryTab(t *testing.T) {
	for _, width := range []int{100, 140} {
		a := loadedApp(t)
		a.width = width
		for _, key := range []string{"o", "s", "g", "t"} {
			a = press(t, a, key)
			view := a.View()
			if got := lipgloss.Height(view); got != a.height {
				t.Fatalf("width %d tab %s: height = %d, want %d", width, key, got, a.height)
			}
			if got := lipgloss.Width(view); got != width {
				t.Fatalf("width %d tab %s: width = %d", width, key, got)
			}
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := loadedApp(t)
	a.width = 60
	if !strings.Contains(a.View(), "too narrow") {
		t.Fatal("narrow terminal should show a warning")
	}
}

func TestSpendingTabShowsCategories(t *testing.T) {
	a := press(t, loadedApp(t), "s")
	view := a.View()
	for _, want := range []string{"Conscious Spending Plan", "Health", a.dash.Categories[0].Label} {
		if !strings.Contains(view, want) {
			t.Fatalf("spending view missing %q", want)
		}
	}
}
