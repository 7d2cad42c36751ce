package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit int
	flagPruneDays    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Recently computed plans",
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a stored plan (id prefixes work)",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention window",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Runs to list")
	historyPruneCmd.Flags().IntVar(&flagPruneDays, "days", 0, "Retention in days, default from config")
	historyCmd.AddCommand(historyShowCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*store.History, error) {
	return store.Open(store.DefaultPath())
}

func runHistory(_ *cobra.Command, _ []string) error {
	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = hist.Close() }()

	runs, err := hist.Recent(flagHistoryLimit)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(runs)
	}

	if len(runs) == 0 {
		fmt.Println("\n  No plans recorded yet. Run `halos plan` first.")
		return nil
	}

	total, _ := hist.Count()
	printTitle(fmt.Sprintf("History  %d of %d runs", len(runs), total))
	table := cli.Table{
		Headers: []string{"Run", "When", "Household", "Strategy", "Mode", "Interest saved", "Exit"},
	}
	for _, r := range runs {
		exit := r.ExitDate
		if exit == "" {
			exit = "-"
		}
		table.Rows = append(table.Rows, []string{
			shortID(r.ID),
			humanize.Time(r.CreatedAt),
			r.Household,
			r.Strategy + "/" + r.Nominal,
			r.Mode,
			cli.FormatSaved(r.InterestSaved),
			exit,
		})
	}
	fmt.Print(cli.RenderTable(table))

	if info, err := os.Stat(store.DefaultPath()); err == nil {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  %s  (%s)", store.DefaultPath(), humanize.Bytes(uint64(info.Size())))))
	}
	return nil
}

func runHistoryShow(_ *cobra.Command, args []string) error {
	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = hist.Close() }()

	run, err := hist.Get(args[0])
	if err != nil {
		return err
	}
	if flagJSON {
		_, err := os.Stdout.Write(append(run.Report, '\n'))
		return err
	}

	var plan model.FreedomPlan
	if err := json.Unmarshal(run.Report, &plan); err != nil {
		return fmt.Errorf("decoding stored plan %s: %w", shortID(run.ID), err)
	}
	cur := plan.Currency
	if cur == "" {
		cur = appCfg.General.Currency
	}
	fmt.Println(cli.RenderMuted(fmt.Sprintf("  Run %s, computed %s", run.ID, humanize.Time(run.CreatedAt))))
	renderPlan(plan, cur)
	return nil
}

func runHistoryPrune(_ *cobra.Command, _ []string) error {
	days := flagPruneDays
	if days <= 0 {
		days = appCfg.History.RetentionDays
	}
	if days <= 0 {
		return fmt.Errorf("retention must be at least one day")
	}

	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = hist.Close() }()

	cutoff := time.Now().AddDate(0, 0, -days)
	n, err := hist.PruneBefore(cutoff)
	if err != nil {
		return err
	}
	fmt.Printf("  Pruned %d runs older than %s\n", n, humanize.Time(cutoff))
	return nil
}
