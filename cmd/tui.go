package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/config"
	"github.com/theirongolddev/richlife/internal/logging"
	"github.com/theirongolddev/richlife/internal/store"
	"github.com/theirongolddev/richlife/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}
	if flagRange >= 0 {
		cfg.General.ChartRangeMonths = flagRange
	}

	// Diagnostics would draw over the alt screen.
	log := logging.Quiet(logging.New(cfg.Log.Level, cfg.Log.Format, nil))

	db, err := store.OpenSQLite(cfg.DBPath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(store.New(db, log), cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
