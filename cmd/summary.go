package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/goals"
	"github.com/theirongolddev/richlife/internal/health"
	"github.com/theirongolddev/richlife/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Net worth, spending plan, health and goals at a glance",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		d := s.dashboard()
		cur := d.Currency

		fmt.Println()
		fmt.Println(cli.RenderTitle(dashboardTitle(d)))
		fmt.Println()

		if d.SnapshotCount == 0 {
			fmt.Println("  No snapshots yet. Add one with `richlife snapshot add`.")
			return nil
		}

		fmt.Print(cli.RenderTable(netWorthTable(d)))
		fmt.Println()

		fmt.Print(cli.RenderTable(spendingTable(d)))
		fmt.Printf("  %s\n", cli.RenderHealthBadge(d.Health))
		for _, issue := range d.Health.Issues {
			fmt.Printf("  %s\n", cli.Warn("• "+issue))
		}
		if d.Unallocated > 0.5 {
			fmt.Printf("  %s\n", cli.Muted(cli.FormatCurrency(d.Unallocated, cur)+" of net income unallocated"))
		}
		fmt.Println()

		if len(d.Goals) > 0 {
			rows := make([][]string, 0, len(d.Goals))
			for _, g := range d.Goals {
				rows = append(rows, []string{
					goalName(g),
					cli.FormatCurrency(g.CurrentAmount, cur),
					cli.FormatPercent(g.DisplayProgress()),
					goalOutlook(g, cur),
				})
			}
			fmt.Print(cli.RenderTable(cli.Table{
				Title:   "Goals",
				Headers: []string{"Goal", "Saved", "Progress", "Outlook"},
				Rows:    rows,
			}))
			fmt.Println()
		}

		if n := len(d.Tasks); n > 0 {
			fmt.Printf("  Tasks: %d of %d done\n\n", d.TasksDone, n)
		}
		return nil
	})
}

func dashboardTitle(d model.Dashboard) string {
	title := "RICH LIFE"
	if d.ProfileName != "" {
		title = d.ProfileName + "'s RICH LIFE"
	}
	if d.AsOf.IsZero() {
		return title
	}
	return fmt.Sprintf("%s  as of %s", title, cli.FormatShortMonth(d.AsOf))
}

func netWorthTable(d model.Dashboard) cli.Table {
	rows := make([][]string, 0, len(d.NetWorth)+1)
	var total []string
	for _, c := range d.NetWorth {
		change := cli.Muted("—")
		if d.HasTrend {
			change = cli.RenderTrend(c.Trend, d.Currency, c.Name == "Debt")
		}
		row := []string{c.Name, cli.FormatCurrency(c.Value, d.Currency), change}
		if c.Name == "Total" {
			total = row
			continue
		}
		rows = append(rows, row)
	}
	if total != nil {
		rows = append(rows, cli.SeparatorRow, total)
	}
	return cli.Table{
		Title:   "Net Worth",
		Headers: []string{"Component", "Value", "Since last snapshot"},
		Rows:    rows,
	}
}

func spendingTable(d model.Dashboard) cli.Table {
	rows := make([][]string, 0, len(d.Categories)+2)
	for _, c := range d.Categories {
		rows = append(rows, []string{
			c.Label,
			cli.FormatCurrency(c.Amount, d.Currency),
			cli.FormatPercent(c.Percent),
			health.RangeString(c.Target),
			cli.RenderPassFail(c.Passed),
		})
	}
	rows = append(rows, cli.SeparatorRow, []string{
		"Net income",
		cli.FormatCurrency(d.Income.Net, d.Currency),
		cli.FormatPercent(100),
		"",
		"",
	})
	return cli.Table{
		Title:   "Conscious Spending Plan",
		Headers: []string{"Category", "Amount", "Share", "Target", ""},
		Rows:    rows,
	}
}

func goalName(g model.GoalProjection) string {
	if g.Icon != "" {
		return g.Icon + " " + g.Name
	}
	return g.Name
}

// goalOutlook is the one-line projection of a goal.
func goalOutlook(g model.GoalProjection, cur string) string {
	if g.Remaining <= 0 {
		return "Reached"
	}
	if g.Mode == model.FixedDateMode {
		if g.OnTrack {
			return "On track for " + cli.FormatMonth(*g.TargetDate)
		}
		return cli.Warn(fmt.Sprintf("Short %s/month for %s",
			cli.FormatCurrency(g.Shortfall, cur), cli.FormatMonth(*g.TargetDate)))
	}
	if !g.Reachable() {
		return cli.Warn("N/A, no monthly contribution")
	}
	if g.EstimatedDate == nil {
		return cli.Warn("N/A, pace too slow")
	}
	return fmt.Sprintf("%s (%s)", goals.EstimatedLabel(g), cli.FormatMonths(g.MonthsRemaining))
}
