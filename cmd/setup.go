package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/config"
	"github.com/theirongolddev/richlife/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		// Save back the file settings only, so env overrides are not persisted.
		fileCfg, err := config.LoadFile()
		if err != nil {
			return err
		}

		vals := tui.DefaultSetupValues(s.store.Document(), fileCfg)
		if err := tui.NewSetupForm(&vals).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("  Setup cancelled.")
				return nil
			}
			return err
		}

		if _, err := tui.ApplySetup(s.store, fileCfg, vals); err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("  Saved to %s\n", config.ConfigPath())
		fmt.Println("  Run `richlife setup` anytime to reconfigure.")
		fmt.Println()
		return nil
	})
}
