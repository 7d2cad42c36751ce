package tui

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/halos/internal/config"
	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
	"github.com/theirongolddev/halos/internal/source"
	"github.com/theirongolddev/halos/internal/tui/theme"
)

// SetupValues holds the answers of the setup wizard.
type SetupValues struct {
	Name          string
	Currency      string
	SelfIncome    string
	PartnerIncome string
	Strategy      string
	Nominal       string
	Theme         string
	UseDemo       bool

	existing *model.Household
}

// LoadSetupValues pre-fills the wizard from the config and, when present,
// the household file it points at.
func LoadSetupValues(cfg config.Config) SetupValues {
	vals := SetupValues{
		Currency:      cfg.General.Currency,
		SelfIncome:    "0",
		PartnerIncome: "0",
		Strategy:      cfg.Plan.Strategy,
		Nominal:       cfg.Plan.Nominal,
		Theme:         cfg.Appearance.Theme,
	}
	if h, err := source.LoadHousehold(config.HouseholdPath(cfg)); err == nil {
		vals.existing = &h
		vals.Name = h.Name
		if h.Currency != "" {
			vals.Currency = h.Currency
		}
		vals.SelfIncome = h.Income.Self.String()
		vals.PartnerIncome = h.Income.Partner.String()
	}
	return vals
}

// HasHousehold reports whether the wizard edits an existing household.
func (v *SetupValues) HasHousehold() bool {
	return v.existing != nil
}

func validateAmount(s string) error {
	d, err := money.Parse(s)
	if err != nil {
		return errors.New("enter a number")
	}
	if d.IsNegative() {
		return errors.New("cannot be negative")
	}
	return nil
}

// NewSetupForm builds the first-run wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	strategyOpts := []huh.Option[string]{
		huh.NewOption("Equal split across loans", engine.StrategyEqual),
		huh.NewOption("Avalanche: highest rate first", engine.StrategyAvalanche),
		huh.NewOption("Snowball: smallest balance first", engine.StrategySnowball),
	}
	nominalOpts := []huh.Option[string]{
		huh.NewOption("Run the scheduled payment to zero", string(engine.RunToZero)),
		huh.NewOption("Use the contract term", string(engine.RunToTerm)),
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to halos").
				Description("A few questions about your household.\nLoans and expenses live in the household file and can be edited later."),
			huh.NewInput().
				Title("Household name").
				Value(&vals.Name).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("a name helps tell plans apart")
					}
					return nil
				}),
			huh.NewInput().
				Title("Currency code").
				Value(&vals.Currency),
			huh.NewInput().
				Title("Your monthly take-home").
				Value(&vals.SelfIncome).
				Validate(validateAmount),
			huh.NewInput().
				Title("Partner's monthly take-home").
				Value(&vals.PartnerIncome).
				Validate(validateAmount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Accelerator strategy").
				Options(strategyOpts...).
				Value(&vals.Strategy),
			huh.NewSelect[string]().
				Title("Nominal payoff").
				Options(nominalOpts...).
				Value(&vals.Nominal),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	}
	if vals.existing == nil {
		groups = append(groups, huh.NewGroup(
			huh.NewConfirm().
				Title("Start from the demo expenses and loans?").
				Affirmative("Yes").
				Negative("No, start empty").
				Value(&vals.UseDemo),
		))
	}

	return huh.NewForm(groups...).WithShowHelp(false)
}

// ApplySetup writes the household file and the config from the answers.
func ApplySetup(cfg config.Config, vals SetupValues) (config.Config, model.Household, error) {
	var h model.Household
	switch {
	case vals.existing != nil:
		h = *vals.existing
	case vals.UseDemo:
		h = source.Demo()
	}

	self, err := money.Parse(vals.SelfIncome)
	if err != nil {
		return cfg, h, err
	}
	partner, err := money.Parse(vals.PartnerIncome)
	if err != nil {
		return cfg, h, err
	}
	h.Name = vals.Name
	h.Currency = vals.Currency
	h.Income = model.Income{Self: self, Partner: partner}
	if err := h.Validate(); err != nil {
		return cfg, h, err
	}

	path := config.HouseholdPath(cfg)
	if err := source.SaveHousehold(path, h); err != nil {
		return cfg, h, fmt.Errorf("saving household: %w", err)
	}

	cfg.General.Household = path
	if vals.Currency != "" {
		cfg.General.Currency = vals.Currency
	}
	cfg.Plan.Strategy = vals.Strategy
	cfg.Plan.Nominal = vals.Nominal
	cfg.Appearance.Theme = vals.Theme
	theme.SetActive(vals.Theme)

	if err := config.Save(cfg); err != nil {
		return cfg, h, fmt.Errorf("saving config: %w", err)
	}
	return cfg, h, nil
}

// isMissing reports whether err means the household file does not exist.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
