// Package cmd implements the halos CLI commands.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/config"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/pipeline"
	"github.com/theirongolddev/halos/internal/source"
	"github.com/theirongolddev/halos/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagHousehold string
	flagDemo      bool
	flagStrategy  string
	flagNominal   string
	flagStart     string
	flagNoCache   bool
	flagTheme     string
	flagQuiet     bool
	flagJSON      bool

	appCfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "halos",
	Short: "Household budget allocation and loan payoff planner",
	Long: "Split monthly income 70/20/10, throw the 20% at your loans and see\n" +
		"how much sooner you are debt-free and how much interest you keep.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runPlan,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagHousehold, "household", "f", "", "Household file (.toml or .json), default from config")
	pf.BoolVar(&flagDemo, "demo", false, "Use the built-in demo household")
	pf.StringVar(&flagStrategy, "strategy", "", "Accelerator strategy: equal, avalanche, snowball")
	pf.StringVar(&flagNominal, "nominal", "", "Nominal payoff convention: zero or term")
	pf.StringVar(&flagStart, "start", "", "First plan month (YYYY-MM)")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip the run history, recompute everything")
	pf.StringVar(&flagTheme, "theme", "", "TUI color theme")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.BoolVar(&flagJSON, "json", false, "Print results as JSON")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appCfg = cfg

	if flagStrategy == "" {
		flagStrategy = cfg.Plan.Strategy
	}
	if flagNominal == "" {
		flagNominal = cfg.Plan.Nominal
	}
	if flagTheme == "" {
		flagTheme = cfg.Appearance.Theme
	}
	return nil
}

// loadHousehold is the shared input path used by all planning commands.
func loadHousehold() (model.Household, error) {
	if flagDemo {
		return source.Demo(), nil
	}

	path := flagHousehold
	if path == "" {
		path = config.HouseholdPath(appCfg)
	}
	h, err := source.LoadHousehold(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Household{}, fmt.Errorf("no household at %s (run `halos setup` or pass --demo): %w", path, err)
		}
		return model.Household{}, err
	}
	progress("  Loaded %s from %s\n", h.Name, path)
	return h, nil
}

func planOptions() (pipeline.Options, error) {
	var start time.Time
	if flagStart != "" {
		t, err := pipeline.ParseMonth(flagStart)
		if err != nil {
			return pipeline.Options{}, err
		}
		start = t
	}
	return pipeline.NewOptions(flagStrategy, flagNominal, start)
}

// buildPlan reuses a stored plan for identical inputs unless --no-cache.
func buildPlan(h model.Household, opts pipeline.Options) model.FreedomPlan {
	if flagNoCache || !appCfg.History.Enabled {
		return pipeline.BuildFreedomPlan(h, opts)
	}

	hist, err := store.Open(store.DefaultPath())
	if err != nil {
		progress("  History unavailable, computing fresh plan\n")
		return pipeline.BuildFreedomPlan(h, opts)
	}
	defer func() { _ = hist.Close() }()

	cp, err := pipeline.PlanWithCache(h, opts, hist)
	if err != nil {
		progress("  History error, computing fresh plan\n")
		return pipeline.BuildFreedomPlan(h, opts)
	}
	if cp.CacheHit {
		progress("  Reused stored plan %s\n", shortID(cp.RunID))
	} else {
		progress("  Recorded plan %s\n", shortID(cp.RunID))
	}
	return cp.Plan
}

func currency(h model.Household) string {
	if h.Currency != "" {
		return h.Currency
	}
	return appCfg.General.Currency
}

func progress(format string, args ...any) {
	if flagQuiet || flagJSON {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printTitle(title string) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(title)))
	fmt.Println()
}
