package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/daemon"
	"github.com/theirongolddev/halos/internal/model"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Full freedom plan: budget split, loan acceleration, exit date",
	RunE:  runPlan,
}

var flagRemote string

func init() {
	planCmd.Flags().StringVar(&flagRemote, "remote", "", "Ask a running daemon (host:port or URL) instead of computing locally")
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	h, err := loadHousehold()
	if err != nil {
		return err
	}
	opts, err := planOptions()
	if err != nil {
		return err
	}

	var plan model.FreedomPlan
	if flagRemote != "" {
		if plan, err = remotePlan(h); err != nil {
			return err
		}
	} else {
		plan = buildPlan(h, opts)
	}
	if flagJSON {
		return printJSON(plan)
	}
	renderPlan(plan, currency(h))
	return nil
}

// remotePlan asks the daemon at --remote for the plan.
func remotePlan(h model.Household) (model.FreedomPlan, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	reply, err := daemon.NewClient(flagRemote).Plan(ctx, h, flagStrategy, flagNominal, flagStart)
	if err != nil {
		return model.FreedomPlan{}, fmt.Errorf("remote plan: %w", err)
	}
	if reply.CacheHit {
		progress("  Served from the daemon cache\n")
	}
	return reply.Plan, nil
}

func renderPlan(plan model.FreedomPlan, cur string) {
	printTitle(fmt.Sprintf("%s  %s plan", plan.Household, plan.Strategy))
	fmt.Print(cli.RenderTable(allocationTable(plan, cur)))

	switch plan.Mode {
	case model.ModeNegative:
		fmt.Println()
		fmt.Println(cli.RenderNotice(fmt.Sprintf("Obligations exceed income by %s. Nothing is left to accelerate.",
			cli.FormatMoney(plan.Allocation.Deficit.Shortfall, cur))))
		fmt.Println(cli.RenderMuted("  Cut expenses or restructure loans before planning payoff."))
		return
	case model.ModeWealth:
		fmt.Println()
		fmt.Println(cli.RenderMuted("  No loans: accelerator and capital both go to savings."))
		fmt.Printf("  Saved in 12 months: %s\n", cli.FormatMoney(plan.Savings12Months, cur))
		return
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(accelerationTable(plan.Loans, cur)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Outcome",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Debt-free (nominal)", cli.FormatMonths(plan.NominalExitMonths)},
			{"Debt-free (accelerated)", cli.FormatMonths(plan.ExitMonths)},
			{"Months saved (sum)", fmt.Sprintf("%d", plan.Totals.MonthsSaved)},
			{"Interest saved", cli.FormatMoney(plan.Totals.InterestSaved, cur)},
			{"---"},
			{"Exit date", exitDate(plan)},
			{"Capital saved in 12 months", cli.FormatMoney(plan.Savings12Months, cur)},
		},
	}))

	if plan.Totals.NonAmortizing > 0 {
		fmt.Println()
		fmt.Println(cli.RenderNotice(fmt.Sprintf("%d loan(s) never amortize: the payment does not cover the interest.",
			plan.Totals.NonAmortizing)))
	}
}

func allocationTable(plan model.FreedomPlan, cur string) cli.Table {
	rows := [][]string{
		{"Income", cli.FormatMoney(plan.Income, cur)},
		{"Mandatory expenses", cli.FormatMoney(plan.TotalExpenses, cur)},
		{"Loan payments", cli.FormatMoney(plan.TotalLoanPayments, cur)},
		{"---"},
		{"Residual", cli.FormatMoney(plan.Allocation.Residual, cur)},
	}
	if !plan.Allocation.IsDeficit() {
		s := plan.Allocation.Split
		rows = append(rows,
			[]string{"Living (70%)", cli.FormatMoney(s.Living, cur)},
			[]string{"Accelerator (20%)", cli.FormatMoney(s.AcceleratorPool, cur)},
			[]string{"Capital (10%)", cli.FormatMoney(s.Capital, cur)},
		)
	}
	return cli.Table{
		Title:   "Budget",
		Headers: []string{"Bucket", "Monthly"},
		Rows:    rows,
	}
}

func accelerationTable(accels []model.LoanAcceleration, cur string) cli.Table {
	rows := make([][]string, 0, len(accels))
	for i, a := range accels {
		rows = append(rows, []string{
			a.Loan.Label(i),
			cli.FormatAmount(a.Loan.MonthlyPayment),
			cli.FormatSaved(a.ExtraPaymentApplied),
			cli.FormatMonths(a.NominalMonths),
			cli.FormatMonths(a.AcceleratedMonths),
			cli.FormatSaved(a.InterestSaved),
		})
	}
	return cli.Table{
		Title:   "Loans (" + cur + ")",
		Headers: []string{"Loan", "Payment", "Extra", "Nominal", "Accelerated", "Interest saved"},
		Rows:    rows,
	}
}

func exitDate(plan model.FreedomPlan) string {
	if plan.ExitDate == "" {
		return "not reachable"
	}
	return plan.ExitDate
}
