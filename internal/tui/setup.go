package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/richlife/internal/cli"
	"github.com/theirongolddev/richlife/internal/config"
	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/store"
	"github.com/theirongolddev/richlife/internal/tui/theme"
)

// SetupValues holds the answers of the first-run wizard.
type SetupValues struct {
	Name        string
	Currency    string
	NetIncome   string
	GrossIncome string
	Theme       string
	RangeMonths int
}

var currencyOptions = []string{"USD", "EUR", "GBP", "CAD", "AUD", "CHF", "JPY"}

// DefaultSetupValues pre-fills the wizard from the current document and config.
func DefaultSetupValues(doc *model.Document, cfg config.Config) SetupValues {
	v := SetupValues{
		Currency:    doc.Currency(),
		Theme:       cfg.Appearance.Theme,
		RangeMonths: cfg.General.ChartRangeMonths,
	}
	if doc.Profile != nil {
		v.Name = doc.Profile.Name
	}
	if doc.Income.Net > 0 {
		v.NetIncome = fmt.Sprintf("%.0f", doc.Income.Net)
	}
	if doc.Income.Gross > 0 {
		v.GrossIncome = fmt.Sprintf("%.0f", doc.Income.Gross)
	}
	return v
}

// NewSetupForm builds the first-run wizard writing into vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	currencies := make([]huh.Option[string], len(currencyOptions))
	for i, c := range currencyOptions {
		currencies[i] = huh.NewOption(c, c)
	}

	themes := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themes[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to richlife").
				Description("A few questions to set up your dashboard.\nYou can rerun this anytime with `richlife setup`."),
			huh.NewInput().
				Title("Your name").
				Description("Shown in the report title. Optional.").
				Value(&vals.Name),
			huh.NewSelect[string]().
				Title("Currency").
				Options(currencies...).
				Value(&vals.Currency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly net income").
				Description("Take-home pay. Every spending percentage is a share of this.").
				Value(&vals.NetIncome).
				Validate(validatePositiveAmount),
			huh.NewInput().
				Title("Monthly gross income").
				Description("Optional.").
				Value(&vals.GrossIncome).
				Validate(validateOptionalAmount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.Theme),
			huh.NewSelect[int]().
				Title("Default chart range").
				Options(
					huh.NewOption("3 months", 3),
					huh.NewOption("6 months", 6),
					huh.NewOption("12 months", 12),
					huh.NewOption("All time", 0),
				).
				Value(&vals.RangeMonths),
		),
	).WithTheme(huh.ThemeCharm())
}

func validatePositiveAmount(s string) error {
	v, err := cli.ParseAmount(s)
	if err != nil {
		return err
	}
	if v <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func validateOptionalAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validatePositiveAmount(s)
}

// ApplySetup saves the wizard answers to the config file and the document.
func ApplySetup(st *store.Store, cfg config.Config, vals SetupValues) (config.Config, error) {
	net, err := cli.ParseAmount(vals.NetIncome)
	if err != nil {
		return cfg, fmt.Errorf("net income: %w", err)
	}
	var gross float64
	if strings.TrimSpace(vals.GrossIncome) != "" {
		if gross, err = cli.ParseAmount(vals.GrossIncome); err != nil {
			return cfg, fmt.Errorf("gross income: %w", err)
		}
	}

	cfg.Appearance.Theme = vals.Theme
	cfg.General.ChartRangeMonths = vals.RangeMonths
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}
	theme.SetActive(cfg.Appearance.Theme)

	err = st.Mutate(func(doc *model.Document) error {
		p := model.Profile{IncomeFrequency: "monthly"}
		if doc.Profile != nil {
			p = *doc.Profile
		}
		p.Name = strings.TrimSpace(vals.Name)
		p.Currency = vals.Currency
		doc.Profile = &p
		return nil
	})
	if err != nil {
		return cfg, fmt.Errorf("saving profile: %w", err)
	}

	if _, err := st.UpdateIncome(net, gross); err != nil {
		return cfg, fmt.Errorf("saving income: %w", err)
	}
	return cfg, nil
}
