package cmd

import (
	"fmt"

	"github.com/theirongolddev/halos/internal/config"
	"github.com/theirongolddev/halos/internal/tui"
	"github.com/theirongolddev/halos/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagLedger, "ledger", "", "Ledger file or directory, default from config")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(flagTheme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	opts, err := planOptions()
	if err != nil {
		return err
	}
	householdPath := flagHousehold
	if householdPath == "" {
		householdPath = config.HouseholdPath(appCfg)
	}

	app := tui.NewApp(tui.Options{
		Config:        appCfg,
		HouseholdPath: householdPath,
		LedgerPath:    ledgerPath(),
		Demo:          flagDemo,
		Strategy:      opts.StrategyName,
		Nominal:       string(opts.Nominal),
		Start:         opts.Start,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
