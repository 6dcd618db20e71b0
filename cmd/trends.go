package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/metrics"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Net worth history and all-time statistics",
	RunE:  runTrends,
}

func init() {
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		d := s.dashboard()
		cur := d.Currency

		label := "ALL TIME"
		if d.RangeMonths > 0 {
			label = fmt.Sprintf("LAST %d SNAPSHOTS", d.RangeMonths)
		}
		fmt.Println()
		fmt.Println(cli.RenderTitle("NET WORTH  " + label))
		fmt.Println()

		if len(d.History) == 0 {
			fmt.Println("  No snapshots yet.")
			return nil
		}

		totals := make([]float64, len(d.History))
		rows := make([][]string, 0, len(d.History))
		for i, p := range d.History {
			totals[i] = p.Total
			change := "—"
			if i > 0 {
				prev := d.History[i-1].Total
				change = cli.RenderTrend(metrics.TrendOf(p.Total, &prev), cur, false)
			}
			rows = append(rows, []string{
				p.Date.String(),
				cli.FormatCurrency(p.Assets, cur),
				cli.FormatCurrency(p.Investments, cur),
				cli.FormatCurrency(p.Savings, cur),
				cli.FormatCurrency(p.Debt, cur),
				cli.FormatCurrency(p.Total, cur),
				change,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Assets", "Investments", "Savings", "Debt", "Total", "Change"},
			Rows:    rows,
		}))
		fmt.Printf("  %s  %s\n\n", cli.Muted("Total"), cli.RenderSparkline(totals))

		at := d.AllTime
		if at.Periods == 0 {
			fmt.Println("  Add a second snapshot to see all-time trends.")
			return nil
		}
		stats := [][]string{
			{"Since", cli.FormatShortMonth(at.From)},
			{"Change", cli.RenderTrend(at.Trend, cur, false)},
			{"Average per period", cli.FormatSignedCurrency(at.AverageChange, cur)},
		}
		if at.Best != nil {
			stats = append(stats, []string{"Best period",
				fmt.Sprintf("%s (%s)", cli.FormatSignedCurrency(at.Best.Change, cur), cli.FormatShortMonth(at.Best.To))})
		}
		if at.Worst != nil {
			stats = append(stats, []string{"Worst period",
				fmt.Sprintf("%s (%s)", cli.FormatSignedCurrency(at.Worst.Change, cur), cli.FormatShortMonth(at.Worst.To))})
		}
		fmt.Print(cli.RenderTable(cli.Table{Title: "All Time", Rows: stats}))
		fmt.Println()
		return nil
	})
}
