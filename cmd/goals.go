package cmd

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/model"
)

var (
	flagGoalMonthly float64
	flagGoalCurrent float64
	flagGoalTarget  float64
	flagGoalDate    string
	flagGoalClear   bool
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Savings goals with projected completion",
	RunE:  runGoals,
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Edit a savings goal",
}

var goalSetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Set a goal's monthly contribution, saved amount, target or date",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalSet,
}

func init() {
	goalSetCmd.Flags().Float64Var(&flagGoalMonthly, "monthly", -1, "Monthly contribution")
	goalSetCmd.Flags().Float64Var(&flagGoalCurrent, "current", -1, "Amount saved so far")
	goalSetCmd.Flags().Float64Var(&flagGoalTarget, "target", -1, "Target amount")
	goalSetCmd.Flags().StringVar(&flagGoalDate, "date", "", "Target date (YYYY-MM-DD)")
	goalSetCmd.Flags().BoolVar(&flagGoalClear, "clear-date", false, "Remove the target date")

	goalCmd.AddCommand(goalSetCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(goalCmd)
}

func runGoals(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		d := s.dashboard()
		cur := d.Currency

		fmt.Println()
		fmt.Println(cli.RenderTitle("GOALS"))
		fmt.Println()

		if len(d.Goals) == 0 {
			fmt.Println("  No goals defined.")
			return nil
		}

		for _, g := range d.Goals {
			fmt.Printf("  %s  %s\n", cli.Header(goalName(g)), cli.Muted(fmt.Sprintf("[%s] %s", g.Key, g.Priority)))
			fmt.Printf("  %s\n", cli.RenderProgressBar(g.DisplayProgress(), 30))
			fmt.Printf("  Saved %s of %s", cli.FormatCurrency(g.CurrentAmount, cur), cli.FormatCurrency(g.TargetAmount, cur))
			if g.CurrentAmount > g.StoredAmount {
				fmt.Printf(" %s", cli.Muted("(from snapshot breakdowns)"))
			}
			fmt.Println()
			fmt.Printf("  Contributing %s/month\n", cli.FormatCurrency(g.MonthlyContribution, cur))
			if g.Mode == model.FixedDateMode && g.Remaining > 0 {
				fmt.Printf("  Needs %s/month to reach it by %s\n",
					cli.FormatCurrency(g.RequiredMonthly, cur), cli.FormatMonth(*g.TargetDate))
			}
			fmt.Printf("  %s\n", goalOutlook(g, cur))
			if g.Notes != "" {
				fmt.Printf("  %s\n", cli.Muted(g.Notes))
			}
			fmt.Println()
		}
		return nil
	})
}

func runGoalSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	flags := cmd.Flags()
	if !flags.Changed("monthly") && !flags.Changed("current") && !flags.Changed("target") &&
		!flags.Changed("date") && !flagGoalClear {
		return errors.New("nothing to change: pass --monthly, --current, --target, --date or --clear-date")
	}

	var date *model.Date
	if flagGoalDate != "" {
		d, err := model.ParseDate(flagGoalDate)
		if err != nil {
			return err
		}
		date = &d
	}

	return withSession(func(s *session) error {
		err := s.store.Mutate(func(doc *model.Document) error {
			g, ok := doc.Goals[key]
			if !ok {
				return fmt.Errorf("unknown goal %q (have: %s)", key, strings.Join(goalKeys(doc.Goals), ", "))
			}
			if flags.Changed("monthly") {
				if !validGoalAmount(flagGoalMonthly) {
					return errors.New("monthly contribution must be a finite amount, zero or more")
				}
				g.MonthlyContribution = flagGoalMonthly
			}
			if flags.Changed("current") {
				if !validGoalAmount(flagGoalCurrent) {
					return errors.New("current amount must be a finite amount, zero or more")
				}
				g.CurrentAmount = flagGoalCurrent
			}
			if flags.Changed("target") {
				if !validGoalAmount(flagGoalTarget) || flagGoalTarget == 0 {
					return errors.New("target amount must be greater than zero")
				}
				g.TargetAmount = flagGoalTarget
			}
			if date != nil {
				g.TargetDate = date
			}
			if flagGoalClear {
				g.TargetDate = nil
			}
			doc.Goals[key] = g
			return nil
		})
		if err != nil {
			return err
		}
		s.log.WithField("goal", key).Debug("updated goal")
		fmt.Printf("  Updated goal %s\n", key)
		return nil
	})
}

func validGoalAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func goalKeys(goals map[string]model.Goal) []string {
	keys := make([]string, 0, len(goals))
	for k := range goals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
