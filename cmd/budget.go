package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/config"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
	"github.com/theirongolddev/halos/internal/pipeline"
	"github.com/theirongolddev/halos/internal/source"

	"github.com/spf13/cobra"
)

var (
	flagLedger   string
	flagTxDate   string
	flagTxIncome bool
	flagTxNote   string
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "This month's spending against the living budget",
	RunE:  runBudget,
}

var budgetAddCmd = &cobra.Command{
	Use:   "add <amount> [category]",
	Short: "Record a transaction in the ledger",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBudgetAdd,
}

func init() {
	budgetCmd.PersistentFlags().StringVar(&flagLedger, "ledger", "", "Ledger file or directory, default from config")
	budgetAddCmd.Flags().StringVar(&flagTxDate, "date", "", "Transaction date (YYYY-MM-DD), default today")
	budgetAddCmd.Flags().BoolVar(&flagTxIncome, "income", false, "Record income instead of an expense")
	budgetAddCmd.Flags().StringVar(&flagTxNote, "note", "", "Free-form note")
	budgetCmd.AddCommand(budgetAddCmd)
	rootCmd.AddCommand(budgetCmd)
}

func ledgerPath() string {
	if flagLedger != "" {
		return flagLedger
	}
	return config.LedgerPath(appCfg)
}

func runBudget(_ *cobra.Command, _ []string) error {
	h, err := loadHousehold()
	if err != nil {
		return err
	}

	txns, results, err := source.LoadLedgers(ledgerPath())
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			progress("  %s: %v\n", r.Path, r.Err)
		} else if r.ParseErrors > 0 {
			progress("  %s: %d lines could not be parsed\n", r.Path, r.ParseErrors)
		}
	}

	status := pipeline.TrackBudget(pipeline.LivingBudget(h), txns, time.Now())
	if flagJSON {
		return printJSON(status)
	}

	cur := currency(h)
	printTitle("Living budget  " + status.Month)
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Budget", cli.FormatMoney(status.Budget, cur)},
			{"Spent", cli.FormatMoney(status.Spent, cur)},
			{"Remaining", cli.FormatMoney(status.Remaining, cur)},
			{"---"},
			{"Days left", fmt.Sprintf("%d", status.DaysLeft)},
			{"Daily allowance", cli.FormatMoney(status.DailyAllowance, cur)},
		},
	}))
	fmt.Println()
	fmt.Printf("  %s %s\n", cli.RenderProgressBar(int(status.Percent), 100, 30), cli.FormatPercent(status.Percent))

	switch {
	case status.Over:
		fmt.Println(cli.RenderNotice("Over budget by " + cli.FormatMoney(status.Remaining.Neg(), cur) + "."))
	case status.Warning:
		fmt.Println(cli.RenderNotice(fmt.Sprintf("More than %d%% of the budget is spent.", pipeline.WarningPercent)))
	}

	if len(status.ByCategory) > 0 {
		fmt.Println()
		top := status.ByCategory[0].Amount.InexactFloat64()
		for _, c := range status.ByCategory {
			label := fmt.Sprintf("%-14s %12s", c.Category, cli.FormatAmount(c.Amount))
			fmt.Println(cli.RenderHorizontalBar(label, c.Amount.InexactFloat64(), top, 30))
		}
	}
	return nil
}

func runBudgetAdd(_ *cobra.Command, args []string) error {
	amount, err := money.Parse(args[0])
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive: %s", amount)
	}

	date := time.Now()
	if flagTxDate != "" {
		if date, err = time.ParseInLocation(time.DateOnly, flagTxDate, time.Local); err != nil {
			return fmt.Errorf("parsing --date: %w", err)
		}
	}

	tx := model.Transaction{Date: date, Kind: model.TxExpense, Amount: amount, Note: flagTxNote}
	if len(args) > 1 {
		tx.Category = args[1]
	}
	if flagTxIncome {
		tx.Kind = model.TxIncome
	}

	path := source.LedgerFile(ledgerPath(), date)
	if err := source.AppendTransaction(path, tx); err != nil {
		return err
	}
	fmt.Printf("  Recorded %s %s in %s\n", tx.Kind, cli.FormatAmount(amount), path)
	return nil
}
