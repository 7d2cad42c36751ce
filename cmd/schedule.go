package cmd

import (
	"fmt"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/engine"

	"github.com/spf13/cobra"
)

var (
	scheduleFlags loanFlags
	flagRows      int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Month-by-month amortization table for one loan",
	RunE:  runSchedule,
}

func init() {
	scheduleFlags.register(scheduleCmd)
	scheduleCmd.Flags().IntVar(&flagRows, "rows", 24, "Rows to print (0 for all)")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(_ *cobra.Command, _ []string) error {
	loan, cur, err := scheduleFlags.resolve()
	if err != nil {
		return err
	}
	extra, err := scheduleFlags.extraPayment()
	if err != nil {
		return err
	}

	rows := engine.Schedule(loan, extra)
	if flagJSON {
		return printJSON(rows)
	}

	printTitle("Schedule  " + loan.Name)
	if rows == nil {
		fmt.Println(cli.RenderNotice("The payment never covers the monthly interest; no schedule to show."))
		return nil
	}

	balances := make([]float64, len(rows))
	for i, r := range rows {
		balances[i] = r.Balance.InexactFloat64()
	}
	fmt.Printf("  Balance  %s\n\n", cli.RenderSparkline(balances))

	shown := rows
	if flagRows > 0 && len(shown) > flagRows {
		shown = shown[:flagRows]
	}
	table := cli.Table{
		Title:   fmt.Sprintf("%d months (%s)", len(rows), cur),
		Headers: []string{"Month", "Payment", "Interest", "Principal", "Balance"},
	}
	for _, r := range shown {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", r.Month),
			cli.FormatAmount(r.Payment),
			cli.FormatAmount(r.Interest),
			cli.FormatAmount(r.Principal),
			cli.FormatAmount(r.Balance),
		})
	}
	fmt.Print(cli.RenderTable(table))
	if len(shown) < len(rows) {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  ... %d more months, use --rows 0 to show all", len(rows)-len(shown))))
	}
	return nil
}
