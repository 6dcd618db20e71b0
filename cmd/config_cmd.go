package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/config"
	"github.com/theirongolddev/richlife/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:     %s\n", cfg.DBPath())
	fmt.Printf("    Last saved:   %s\n", lastSaved(cfg.DBPath()))
	fmt.Printf("    Chart range:  %s\n", rangeName(cfg.General.ChartRangeMonths))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Health]")
	fmt.Printf("    Flag low guilt-free spending: %v\n", cfg.Health.FlagLowGuiltFree)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Schedule: %s\n", cfg.Daemon.Schedule)
	fmt.Printf("    Events:   %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `richlife setup` to reconfigure.")
	return nil
}

func lastSaved(dbPath string) string {
	db, err := store.OpenSQLite(dbPath)
	if err != nil {
		return "unavailable (" + err.Error() + ")"
	}
	defer func() { _ = db.Close() }()

	at, err := db.UpdatedAt(store.DocumentKey)
	if errors.Is(err, store.ErrNotFound) {
		return "never (bundled defaults)"
	}
	if err != nil {
		return "unavailable (" + err.Error() + ")"
	}
	return at.Local().Format(time.RFC1123)
}

func rangeName(months int) string {
	if months <= 0 {
		return "all time"
	}
	return fmt.Sprintf("%d months", months)
}
