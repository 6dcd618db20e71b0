package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/health"
	"github.com/theirongolddev/richlife/internal/model"
)

var (
	flagSnapDate        string
	flagSnapAssets      float64
	flagSnapInvestments float64
	flagSnapSavings     float64
	flagSnapDebt        float64
	flagSnapFixed       float64
	flagSnapInvesting   float64
	flagSnapGoals       float64
	flagSnapGuiltFree   float64
	flagSnapItems       map[string]string
)

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snap"},
	Short:   "Record and list monthly snapshots",
}

var snapshotAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a snapshot (interactive form when no amounts are given)",
	RunE:  runSnapshotAdd,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded snapshots",
	RunE:  runSnapshotList,
}

var snapshotAmountFlags = []string{
	"assets", "investments", "savings", "debt",
	"fixed-costs", "investing", "savings-goals", "guilt-free", "item",
}

func init() {
	f := snapshotAddCmd.Flags()
	f.StringVar(&flagSnapDate, "date", "", "Snapshot date YYYY-MM-DD (default today)")
	f.Float64Var(&flagSnapAssets, "assets", 0, "Assets balance")
	f.Float64Var(&flagSnapInvestments, "investments", 0, "Investment balance")
	f.Float64Var(&flagSnapSavings, "savings", 0, "Savings balance")
	f.Float64Var(&flagSnapDebt, "debt", 0, "Debt owed (positive)")
	f.Float64Var(&flagSnapFixed, "fixed-costs", 0, "Monthly fixed costs")
	f.Float64Var(&flagSnapInvesting, "investing", 0, "Monthly investing")
	f.Float64Var(&flagSnapGoals, "savings-goals", 0, "Monthly savings for goals")
	f.Float64Var(&flagSnapGuiltFree, "guilt-free", 0, "Monthly guilt-free spending")
	f.StringToStringVar(&flagSnapItems, "item", nil, "Itemized breakdown, e.g. --item rent=1800,wedding=500")

	snapshotCmd.AddCommand(snapshotAddCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotAdd(cmd *cobra.Command, _ []string) error {
	interactive := true
	for _, name := range snapshotAmountFlags {
		if cmd.Flags().Changed(name) {
			interactive = false
		}
	}

	return withSession(func(s *session) error {
		var (
			snap model.Snapshot
			err  error
		)
		if interactive {
			latest, _ := s.store.Latest()
			snap, err = snapshotFromForm(latest)
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("  Cancelled.")
				return nil
			}
		} else {
			snap, err = snapshotFromFlags()
		}
		if err != nil {
			return err
		}

		if err := s.store.Append(snap); err != nil {
			return err
		}
		s.log.WithField("date", snap.Date.String()).Debug("appended snapshot")

		snap.Normalize()
		fmt.Printf("  Recorded %s: net worth %s, spending plan %s\n",
			snap.Date, cli.FormatCurrency(snap.NetWorth.Total, s.store.Document().Currency()),
			cli.FormatCurrency(snap.CSP.Total(), s.store.Document().Currency()))
		return nil
	})
}

func snapshotFromFlags() (model.Snapshot, error) {
	date := model.Today()
	if flagSnapDate != "" {
		d, err := model.ParseDate(flagSnapDate)
		if err != nil {
			return model.Snapshot{}, err
		}
		date = d
	}

	snap := model.Snapshot{
		Date: date,
		NetWorth: model.NetWorth{
			Assets:      flagSnapAssets,
			Investments: flagSnapInvestments,
			Savings:     flagSnapSavings,
			Debt:        flagSnapDebt,
		},
		CSP: model.CSP{
			FixedCosts:        flagSnapFixed,
			Investments:       flagSnapInvesting,
			SavingsGoals:      flagSnapGoals,
			GuiltFreeSpending: flagSnapGuiltFree,
		},
	}
	if len(flagSnapItems) > 0 {
		snap.Breakdown = make(model.Breakdown, len(flagSnapItems))
		for k, v := range flagSnapItems {
			amount, err := cli.ParseAmount(v)
			if err != nil {
				return model.Snapshot{}, fmt.Errorf("item %s: %w", k, err)
			}
			snap.Breakdown[k] = amount
		}
	}
	return snap, nil
}

// snapshotFromForm asks for every amount, pre-filled from the latest snapshot.
func snapshotFromForm(latest model.Snapshot) (model.Snapshot, error) {
	amount := func(v float64) string {
		if v == 0 {
			return ""
		}
		return fmt.Sprintf("%.0f", v)
	}

	date := model.Today().String()
	values := []struct {
		title string
		value string
	}{
		{"Assets", amount(latest.NetWorth.Assets)},
		{"Investments", amount(latest.NetWorth.Investments)},
		{"Savings", amount(latest.NetWorth.Savings)},
		{"Debt", amount(latest.NetWorth.Debt)},
		{"Fixed costs per month", amount(latest.CSP.FixedCosts)},
		{"Investing per month", amount(latest.CSP.Investments)},
		{"Savings goals per month", amount(latest.CSP.SavingsGoals)},
		{"Guilt-free spending per month", amount(latest.CSP.GuiltFreeSpending)},
	}

	inputs := make([]huh.Field, len(values))
	for i := range values {
		inputs[i] = huh.NewInput().
			Title(values[i].title).
			Value(&values[i].value).
			Validate(validateAmount)
	}

	confirm := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Snapshot date").
				Description("YYYY-MM-DD").
				Value(&date).
				Validate(func(s string) error {
					_, err := model.ParseDate(strings.TrimSpace(s))
					return err
				}),
		),
		huh.NewGroup(inputs[:4]...).Title("Net worth"),
		huh.NewGroup(inputs[4:]...).Title("Conscious Spending Plan"),
		huh.NewGroup(huh.NewConfirm().Title("Save this snapshot?").Value(&confirm)),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return model.Snapshot{}, err
	}
	if !confirm {
		return model.Snapshot{}, huh.ErrUserAborted
	}

	nums := make([]float64, len(values))
	for i, v := range values {
		if strings.TrimSpace(v.value) == "" {
			continue
		}
		n, err := cli.ParseAmount(v.value)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("%s: %w", v.title, err)
		}
		nums[i] = n
	}

	d, err := model.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return model.Snapshot{}, err
	}
	return model.Snapshot{
		Date:     d,
		NetWorth: model.NetWorth{Assets: nums[0], Investments: nums[1], Savings: nums[2], Debt: nums[3]},
		CSP:      model.CSP{FixedCosts: nums[4], Investments: nums[5], SavingsGoals: nums[6], GuiltFreeSpending: nums[7]},
	}, nil
}

func validateAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := cli.ParseAmount(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return errors.New("cannot be negative")
	}
	return nil
}

func runSnapshotList(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		doc := s.store.Document()
		cur := doc.Currency()
		opts := s.options().Health

		if len(doc.Snapshots) == 0 {
			fmt.Println("  No snapshots yet.")
			return nil
		}

		rows := make([][]string, 0, len(doc.Snapshots))
		for i := len(doc.Snapshots) - 1; i >= 0; i-- {
			snap := doc.Snapshots[i]
			report := health.Snapshot(snap, doc.Income, doc.Targets, opts)
			rows = append(rows, []string{
				snap.Date.String(),
				cli.FormatCurrency(snap.NetWorth.Total, cur),
				cli.FormatCurrency(snap.CSP.Total(), cur),
				fmt.Sprintf("%d", report.Score),
				fmt.Sprintf("%d", len(snap.Breakdown)),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Snapshots (%d)", len(doc.Snapshots)),
			Headers: []string{"Date", "Net worth", "Spending plan", "Health", "Items"},
			Rows:    rows,
		}))
		fmt.Println()
		return nil
	})
}
