package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"
	"github.com/theirongolddev/halos/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	impactFlags      loanFlags
	flagImpactIncome string
)

var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "What each loan's interest costs you in working time",
	RunE:  runImpact,
}

func init() {
	impactFlags.register(impactCmd)
	impactCmd.Flags().StringVar(&flagImpactIncome, "income", "", "Monthly income for an inline loan")
	rootCmd.AddCommand(impactCmd)
}

func runImpact(_ *cobra.Command, _ []string) error {
	reports, cur, err := impactReports()
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(reports)
	}

	printTitle("Credit impact")
	for i, rep := range reports {
		if i > 0 {
			fmt.Println()
		}
		printImpact(rep, i, cur)
	}
	return nil
}

func impactReports() ([]model.ImpactReport, string, error) {
	if impactFlags.principal != "" {
		loan, err := impactFlags.inline()
		if err != nil {
			return nil, "", err
		}
		income := decimal.Zero
		if flagImpactIncome != "" {
			if income, err = money.Parse(flagImpactIncome); err != nil {
				return nil, "", err
			}
		}
		return []model.ImpactReport{pipeline.BuildImpactReport(loan, income)}, appCfg.General.Currency, nil
	}

	h, err := loadHousehold()
	if err != nil {
		return nil, "", err
	}
	if impactFlags.name != "" {
		loan, err := pickLoan(h.Loans, impactFlags.name)
		if err != nil {
			return nil, "", err
		}
		return []model.ImpactReport{pipeline.BuildImpactReport(loan, h.TotalIncome())}, currency(h), nil
	}
	return pipeline.ImpactReports(h), currency(h), nil
}

func printImpact(rep model.ImpactReport, i int, cur string) {
	im := rep.Impact
	fmt.Printf("  %s\n", rep.Loan.Label(i))
	fmt.Printf("  %s\n\n", cli.RenderDanger(im.DangerLevel, string(im.DangerTier), 30))
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total paid", cli.FormatMoney(im.TotalPaid, cur)},
			{"Interest", cli.FormatMoney(im.TotalInterest, cur)},
			{"Interest / principal", cli.FormatPercent(im.InterestPercent)},
			{"---"},
			{"Months of income", im.MonthsForInterest.StringFixed(2)},
			{"Working time", cli.FormatHours(im.WorkingDaysForInterest, im.WorkingHoursForInterest)},
			{"Nominal payoff", cli.FormatMonths(rep.Nominal.Months)},
		},
	}))
}
