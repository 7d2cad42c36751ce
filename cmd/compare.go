package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagWorkers int

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare every accelerator strategy side by side",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel evaluations (0 = GOMAXPROCS)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(_ *cobra.Command, _ []string) error {
	h, err := loadHousehold()
	if err != nil {
		return err
	}
	opts, err := planOptions()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	progressFn := func(current, total int) {
		progress("\r  Evaluating [%d/%d]", current, total)
	}
	results, err := pipeline.EvaluateScenarios(ctx, pipeline.StrategyScenarios(h, opts), flagWorkers, progressFn)
	progress("\n")
	if err != nil {
		return err
	}

	if flagJSON {
		out := make(map[string]any, len(results))
		for _, r := range results {
			out[r.Scenario.Name] = r.Plan
		}
		return printJSON(out)
	}

	cur := currency(h)
	printTitle(h.Name + "  strategies")
	table := cli.Table{
		Headers: []string{"Strategy", "Debt-free", "Months saved", "Interest saved", "Exit date"},
	}
	best := 0
	for i, r := range results {
		p := r.Plan
		if p.Totals.InterestSaved.GreaterThan(results[best].Plan.Totals.InterestSaved) {
			best = i
		}
		table.Rows = append(table.Rows, []string{
			r.Scenario.Name,
			cli.FormatMonths(p.ExitMonths),
			fmt.Sprintf("%d", p.Totals.MonthsSaved),
			cli.FormatMoney(p.Totals.InterestSaved, cur),
			exitDate(p),
		})
	}
	fmt.Print(cli.RenderTable(table))
	if len(results) > 0 && results[best].Plan.Totals.InterestSaved.IsPositive() {
		fmt.Println()
		fmt.Printf("  Most interest saved: %s\n", results[best].Scenario.Name)
	}
	return nil
}
