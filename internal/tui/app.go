// Package tui provides the interactive Bubble Tea dashboard for richlife.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/config"
	"github.com/theirongolddev/richlife/internal/health"
	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/pipeline"
	"github.com/theirongolddev/richlife/internal/store"
	"github.com/theirongolddev/richlife/internal/tui/components"
	"github.com/theirongolddev/richlife/internal/tui/theme"
)

// DataLoadedMsg is sent when the store finishes loading or a change is saved.
type DataLoadedMsg struct {
	Dashboard model.Dashboard
	Snapshots []model.Snapshot
	Report    store.LoadReport
	Setup     SetupValues
	LoadTime  time.Duration
	Err       error
}

const (
	tabOverview = iota
	tabSpending
	tabGoals
	tabTasks
)

// App is the root Bubble Tea model.
type App struct {
	store *store.Store
	cfg   config.Config
	today func() model.Date

	// Data
	dash      model.Dashboard
	snapshots []model.Snapshot
	loaded    bool
	loading   bool
	loadTime  time.Duration
	notice    string

	// UI state
	width       int
	height      int
	activeTab   int
	showHelp    bool
	rangeMonths int
	taskCursor  int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model over st.
func NewApp(st *store.Store, cfg config.Config) App {
	theme.SetActive(cfg.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		store:       st,
		cfg:         cfg,
		today:       model.Today,
		rangeMonths: cfg.General.ChartRangeMonths,
		needSetup:   !config.Exists(),
		setupVals:   &SetupValues{},
		spinner:     sp,
		loading:     true,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.loadCmd(),
		a.spinner.Tick,
	)
}

func (a App) buildOptions() pipeline.Options {
	return pipeline.Options{
		RangeMonths: a.rangeMonths,
		Health:      health.Options{FlagLowGuiltFree: a.cfg.Health.FlagLowGuiltFree},
	}
}

// loadCmd reloads the store off the event loop and rebuilds the dashboard.
func (a App) loadCmd() tea.Cmd {
	st, cfg, opts, today := a.store, a.cfg, a.buildOptions(), a.today
	return func() tea.Msg {
		start := time.Now()
		report, err := st.Load()
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		return loadedMsg(st, cfg, opts, today(), report, start)
	}
}

// toggleTaskCmd flips a task's completion, persists it and rebuilds.
func (a App) toggleTaskCmd(task model.WeddingTask) tea.Cmd {
	st, cfg, opts, today := a.store, a.cfg, a.buildOptions(), a.today
	return func() tea.Msg {
		start := time.Now()
		if _, err := st.SetTaskCompleted(task.ID, !task.Completed); err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		return loadedMsg(st, cfg, opts, today(), store.LoadReport{Source: store.SourceStored}, start)
	}
}

func loadedMsg(st *store.Store, cfg config.Config, opts pipeline.Options, today model.Date, report store.LoadReport, start time.Time) DataLoadedMsg {
	doc := st.Document()
	snaps := make([]model.Snapshot, len(doc.Snapshots))
	copy(snaps, doc.Snapshots)
	return DataLoadedMsg{
		Dashboard: pipeline.Build(doc, today, opts),
		Snapshots: snaps,
		Report:    report,
		Setup:     DefaultSetupValues(doc, cfg),
		LoadTime:  time.Since(start),
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabTasks {
				a.moveTaskCursor(-1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabTasks {
				a.moveTaskCursor(1)
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loading = false
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.notice = "Error: " + msg.Err.Error()
			return a, nil
		}
		a.loaded = true
		a.dash = msg.Dashboard
		a.snapshots = msg.Snapshots
		a.notice = loadNotice(msg.Report)
		a.clampTaskCursor()

		if a.needSetup && a.setupForm == nil {
			*a.setupVals = msg.Setup
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabTasks {
		switch key {
		case "j", "down":
			a.moveTaskCursor(1)
			return a, nil
		case "k", "up":
			a.moveTaskCursor(-1)
			return a, nil
		case " ", "enter", "x":
			if a.loading || len(a.dash.Tasks) == 0 {
				return a, nil
			}
			a.loading = true
			return a, a.toggleTaskCmd(a.dash.Tasks[a.taskCursor])
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.loading {
			a.loading = true
			return a, a.loadCmd()
		}
		return a, nil
	case "T":
		next := theme.Next(theme.Active.Name)
		theme.SetActive(next.Name)
		a.cfg.Appearance.Theme = next.Name
		// Persist to the file only, so env overrides are not written back.
		if cfg, err := config.LoadFile(); err == nil {
			cfg.Appearance.Theme = next.Name
			_ = config.Save(cfg)
		}
		a.notice = "Theme: " + next.Name
		return a, nil
	case "1", "2", "3", "0":
		a.setRange(map[string]int{"1": 3, "2": 6, "3": 12, "0": 0}[key])
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupForm = nil
		a.needSetup = false
		// Save back the file settings only, so env overrides are not persisted.
		fileCfg, err := config.LoadFile()
		if err != nil {
			fileCfg = a.cfg
		}
		cfg, err := ApplySetup(a.store, fileCfg, *a.setupVals)
		if err != nil {
			a.notice = "Setup not saved: " + err.Error()
			return a, nil
		}
		a.cfg.Appearance.Theme = cfg.Appearance.Theme
		a.cfg.General.ChartRangeMonths = cfg.General.ChartRangeMonths
		a.rangeMonths = cfg.General.ChartRangeMonths
		a.loading = true
		return a, a.loadCmd()
	case huh.StateAborted:
		a.setupForm = nil
		a.needSetup = false
		a.notice = "Setup skipped. Run `richlife setup` anytime."
		return a, nil
	}
	return a, cmd
}

func (a *App) setRange(months int) {
	a.rangeMonths = months
	a.dash.RangeMonths = months
	a.dash.History = pipeline.History(a.snapshots, months)
}

func (a *App) moveTaskCursor(delta int) {
	a.taskCursor += delta
	a.clampTaskCursor()
}

func (a *App) clampTaskCursor() {
	if a.taskCursor >= len(a.dash.Tasks) {
		a.taskCursor = len(a.dash.Tasks) - 1
	}
	if a.taskCursor < 0 {
		a.taskCursor = 0
	}
}

func loadNotice(r store.LoadReport) string {
	switch {
	case r.Source == store.SourceRecovered:
		return "Stored data was unreadable; showing defaults"
	case len(r.Migrations) > 0:
		return "Upgraded data: " + strings.Join(r.Migrations, ", ")
	default:
		return ""
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  richlife needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ richlife"))
	b.WriteString(subtitleStyle.Render(" · Rich Life Dashboard"))
	b.WriteString("\n\n")
	if a.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.notice))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Loading your finances..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o s g t", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in task list"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"1 2 3 0", "Chart range: 3, 6, 12 months, all"},
			{"space", "Toggle task done"},
			{"T", "Cycle theme"},
			{"r", "Reload data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	info := fmt.Sprintf("as of %s · %s · %s", cli.FormatShortMonth(a.dash.AsOf), rangeLabel(a.rangeMonths), t.Name)
	statusBar := components.RenderStatusBar(w, a.notice, info, a.loading)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabSpending:
		content = a.renderSpendingTab(cw)
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabTasks:
		content = a.renderTasksTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func rangeLabel(months int) string {
	if months <= 0 {
		return "all time"
	}
	return fmt.Sprintf("%dm", months)
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
