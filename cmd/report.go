package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/report"
)

var (
	flagReportRaw   bool
	flagReportWidth int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a Markdown report of the dashboard",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&flagReportRaw, "raw", false, "Print Markdown without terminal styling")
	reportCmd.Flags().IntVar(&flagReportWidth, "width", report.DefaultWidth, "Word wrap width")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		md, err := report.Markdown(s.dashboard())
		if err != nil {
			return err
		}
		if flagReportRaw {
			fmt.Print(md)
			return nil
		}
		out, err := report.Render(md, flagReportWidth)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	})
}
