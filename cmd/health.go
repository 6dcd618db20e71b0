package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/health"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Score the latest spending plan against its targets",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		d := s.dashboard()

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("SPENDING HEALTH  %s", cli.FormatShortMonth(d.AsOf))))
		fmt.Println()

		rows := make([][]string, 0, len(d.Health.Checks))
		for _, c := range d.Health.Checks {
			rows = append(rows, []string{
				c.Label,
				cli.FormatCurrency(c.Amount, d.Currency),
				cli.FormatPercent(c.Percent),
				health.RangeString(c.Target),
				cli.RenderProgressBar(c.Percent, 20),
				cli.RenderPassFail(c.Passed),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Category", "Amount", "Share", "Target", "", ""},
			Rows:    rows,
		}))
		fmt.Println()

		fmt.Printf("  %s\n", cli.RenderHealthBadge(d.Health))
		if len(d.Health.Issues) == 0 {
			fmt.Printf("  %s\n", cli.Muted("Every category is within its target."))
		}
		for _, issue := range d.Health.Issues {
			fmt.Printf("  %s\n", cli.Warn("• "+issue))
		}
		fmt.Println()
		return nil
	})
}
