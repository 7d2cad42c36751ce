package cmd

import (
	"fmt"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"

	"github.com/spf13/cobra"
)

var (
	flagAllocIncome   string
	flagAllocExpenses string
	flagAllocPayments string
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Split residual income into living, accelerator and capital buckets",
	RunE:  runAllocate,
}

func init() {
	allocateCmd.Flags().StringVar(&flagAllocIncome, "income", "", "Monthly income (overrides the household)")
	allocateCmd.Flags().StringVar(&flagAllocExpenses, "expenses", "0", "Mandatory expenses, with --income")
	allocateCmd.Flags().StringVar(&flagAllocPayments, "payments", "0", "Loan payments, with --income")
	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(_ *cobra.Command, _ []string) error {
	var (
		alloc model.Allocation
		plan  model.FreedomPlan
		cur   = appCfg.General.Currency
	)

	if flagAllocIncome != "" {
		income, err := money.Parse(flagAllocIncome)
		if err != nil {
			return err
		}
		expenses, err := money.Parse(flagAllocExpenses)
		if err != nil {
			return err
		}
		payments, err := money.Parse(flagAllocPayments)
		if err != nil {
			return err
		}
		alloc = engine.Allocate(income, expenses, payments)
		plan = model.FreedomPlan{Income: income, TotalExpenses: expenses, TotalLoanPayments: payments, Allocation: alloc}
	} else {
		h, err := loadHousehold()
		if err != nil {
			return err
		}
		cur = currency(h)
		alloc = engine.AllocateHousehold(h)
		plan = model.FreedomPlan{
			Income:            h.TotalIncome(),
			TotalExpenses:     h.TotalExpenses(),
			TotalLoanPayments: h.TotalLoanPayments(),
			Allocation:        alloc,
		}
	}

	if flagJSON {
		return printJSON(alloc)
	}

	printTitle("Budget allocation")
	fmt.Print(cli.RenderTable(allocationTable(plan, cur)))
	if alloc.IsDeficit() {
		fmt.Println()
		fmt.Println(cli.RenderNotice("Deficit of " + cli.FormatMoney(alloc.Deficit.Shortfall, cur) + " per month."))
	}
	return nil
}
