package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/richlife/internal/cli"
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Show or update monthly income",
	RunE:  runIncomeShow,
}

var incomeSetCmd = &cobra.Command{
	Use:   "set <net> [gross]",
	Short: "Set monthly net (take-home) and optionally gross income",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runIncomeSet,
}

func init() {
	incomeCmd.AddCommand(incomeSetCmd)
	rootCmd.AddCommand(incomeCmd)
}

func runIncomeShow(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		doc := s.store.Document()
		cur := doc.Currency()
		fmt.Printf("  Net income:   %s/month\n", cli.FormatCurrency(doc.Income.Net, cur))
		fmt.Printf("  Gross income: %s/month\n", cli.FormatCurrency(doc.Income.Gross, cur))
		if doc.Income.LastUpdated != "" {
			fmt.Printf("  %s\n", cli.Muted("Updated "+doc.Income.LastUpdated))
		}
		return nil
	})
}

func runIncomeSet(_ *cobra.Command, args []string) error {
	net, err := cli.ParseAmount(args[0])
	if err != nil {
		return fmt.Errorf("net income: %w", err)
	}
	var gross float64
	if len(args) == 2 {
		if gross, err = cli.ParseAmount(args[1]); err != nil {
			return fmt.Errorf("gross income: %w", err)
		}
	}

	return withSession(func(s *session) error {
		updated, err := s.store.UpdateIncome(net, gross)
		if err != nil {
			return err
		}
		if !updated {
			fmt.Printf("  %s\n", cli.Muted("Net income must be greater than zero; nothing changed."))
			return nil
		}
		cur := s.store.Document().Currency()
		fmt.Printf("  Net income set to %s/month\n", cli.FormatCurrency(net, cur))
		if gross > 0 {
			fmt.Printf("  Gross income set to %s/month\n", cli.FormatCurrency(gross, cur))
		}
		return nil
	})
}
