package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/halos/internal/config"
	"github.com/theirongolddev/halos/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	vals := tui.LoadSetupValues(appCfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return err
	}

	cfg, h, err := tui.ApplySetup(appCfg, vals)
	if err != nil {
		return err
	}
	appCfg = cfg

	fmt.Println()
	fmt.Printf("  Saved household %q to %s\n", h.Name, config.HouseholdPath(cfg))
	fmt.Printf("  Saved settings to %s\n", config.ConfigPath())
	if len(h.Loans) == 0 {
		fmt.Println("  Add your loans and expenses to the household file, then run `halos plan`.")
	} else {
		fmt.Println("  Run `halos plan` to see your freedom plan.")
	}
	fmt.Println()
	return nil
}
