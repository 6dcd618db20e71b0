package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/backup"
	"github.com/theirongolddev/richlife/internal/model"
)

var flagExportStdout bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace your data with a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write your data to a JSON backup",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&flagExportStdout, "stdout", false, "Write to stdout instead of a file")
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	data, err := backup.ReadFile(args[0])
	if err != nil {
		return err
	}
	return withSession(func(s *session) error {
		res, err := s.store.Import(data)
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}
		fmt.Printf("  Imported %d snapshots from %s\n", len(s.store.Document().Snapshots), args[0])
		if len(res.Applied) > 0 && !flagQuiet {
			fmt.Printf("  Upgraded from an older format (%s)\n", strings.Join(res.Applied, ", "))
		}
		return nil
	})
}

func runExport(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		data, err := s.store.Export()
		if err != nil {
			return err
		}
		if flagExportStdout {
			_, err := os.Stdout.Write(data)
			return err
		}

		path := backup.DefaultFileName(model.Today())
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := backup.WriteFile(path, data); err != nil {
			return err
		}
		fmt.Printf("  Exported to %s\n", path)
		return nil
	})
}
