package cmd

import (
	"fmt"

	"github.com/theirongolddev/halos/internal/config"
	"github.com/theirongolddev/halos/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	if flagJSON {
		return printJSON(cfg)
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Household: %s\n", config.HouseholdPath(cfg))
	fmt.Printf("    Ledger:    %s\n", config.LedgerPath(cfg))
	fmt.Printf("    Currency:  %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Plan]")
	fmt.Printf("    Strategy: %s\n", cfg.Plan.Strategy)
	fmt.Printf("    Nominal:  %s\n", cfg.Plan.Nominal)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:    %s\n", cfg.Daemon.Addr)
	if cfg.Daemon.RedisAddr != "" {
		fmt.Printf("    Redis:      %s (db %d)\n", cfg.Daemon.RedisAddr, cfg.Daemon.RedisDB)
		if cfg.Daemon.RedisPassword != "" {
			fmt.Printf("    Password:   %s\n", maskSecret(cfg.Daemon.RedisPassword))
		}
	} else {
		fmt.Println("    Redis:      not configured (in-memory cache)")
	}
	fmt.Printf("    Cache TTL:  %ds\n", cfg.Daemon.CacheTTLSeconds)
	fmt.Printf("    Rate limit: %d requests / %ds\n", cfg.Daemon.RateCapacity, cfg.Daemon.RateWindowSeconds)
	fmt.Println()

	fmt.Println("  [History]")
	fmt.Printf("    Enabled:   %v\n", cfg.History.Enabled)
	fmt.Printf("    Database:  %s\n", store.DefaultPath())
	fmt.Printf("    Retention: %d days, pruned %s\n", cfg.History.RetentionDays, cfg.History.PruneSchedule)
	fmt.Println()

	fmt.Println("  Run `halos setup` to reconfigure.")
	return nil
}

func maskSecret(s string) string {
	if len(s) > 8 {
		return s[:2] + "..." + s[len(s)-2:]
	}
	return "****"
}
