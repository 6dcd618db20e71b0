// Package cmd implements the richlife CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/config"
	"github.com/theirongolddev/richlife/internal/health"
	"github.com/theirongolddev/richlife/internal/logging"
	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/pipeline"
	"github.com/theirongolddev/richlife/internal/store"
)

var (
	flagDB    string
	flagQuiet bool
	flagRange int
)

var rootCmd = &cobra.Command{
	Use:          "richlife",
	Short:        "Rich Life personal finance dashboard",
	Long:         "Track net worth snapshots, your Conscious Spending Plan, savings goals and tasks.",
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress notices and diagnostics")
	rootCmd.PersistentFlags().IntVarP(&flagRange, "range", "r", -1, "Chart range in months: 3, 6, 12 or 0 for all (default from config)")
}

// session is the loaded state shared by commands that read the store.
type session struct {
	cfg    config.Config
	log    *logrus.Logger
	db     *store.SQLite
	store  *store.Store
	report store.LoadReport
}

// openSession loads the config, opens the database and loads the document.
// Callers must Close the session.
func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}
	if flagRange >= 0 {
		cfg.General.ChartRangeMonths = flagRange
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if flagQuiet {
		logging.Quiet(log)
	}

	db, err := store.OpenSQLite(cfg.DBPath())
	if err != nil {
		return nil, err
	}

	st := store.New(db, log.WithField("db", cfg.DBPath()))
	report, err := st.Load()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if !flagQuiet {
		switch {
		case report.Source == store.SourceRecovered:
			fmt.Fprintln(os.Stderr, "  Stored data was unreadable; showing the bundled defaults.")
		case len(report.Migrations) > 0:
			fmt.Fprintf(os.Stderr, "  Upgraded stored data (%s)\n", strings.Join(report.Migrations, ", "))
		}
	}

	return &session{cfg: cfg, log: log, db: db, store: st, report: report}, nil
}

// Close releases the database.
func (s *session) Close() error {
	return s.db.Close()
}

func (s *session) options() pipeline.Options {
	return pipeline.Options{
		RangeMonths: s.cfg.General.ChartRangeMonths,
		Health:      health.Options{FlagLowGuiltFree: s.cfg.Health.FlagLowGuiltFree},
	}
}

// dashboard builds the dashboard of the loaded document as of today.
func (s *session) dashboard() model.Dashboard {
	return pipeline.Build(s.store.Document(), model.Today(), s.options())
}

// withSession opens a session, runs fn and closes the session.
func withSession(fn func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return fn(s)
}
