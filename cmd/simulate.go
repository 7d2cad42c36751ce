package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/cli"
	"github.com/theirongolddev/halos/internal/engine"
	"github.com/theirongolddev/halos/internal/model"
	"github.com/theirongolddev/halos/internal/money"

	"github.com/spf13/cobra"
)

// loanFlags select one loan, either from the household or described inline.
type loanFlags struct {
	name      string
	principal string
	payment   string
	rate      string
	term      int
	extra     string
}

func (lf *loanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&lf.name, "loan", "l", "", "Household loan by name or 1-based index")
	cmd.Flags().StringVar(&lf.principal, "principal", "", "Inline loan principal")
	cmd.Flags().StringVar(&lf.payment, "payment", "", "Inline loan monthly payment")
	cmd.Flags().StringVar(&lf.rate, "rate", "0", "Inline loan annual rate in percent")
	cmd.Flags().IntVar(&lf.term, "term", 12, "Inline loan term in months")
	cmd.Flags().StringVar(&lf.extra, "extra", "0", "Extra monthly payment")
}

// resolve returns the selected loan and the household currency.
func (lf *loanFlags) resolve() (model.Loan, string, error) {
	if lf.principal != "" {
		loan, err := lf.inline()
		return loan, appCfg.General.Currency, err
	}

	h, err := loadHousehold()
	if err != nil {
		return model.Loan{}, "", err
	}
	loan, err := pickLoan(h.Loans, lf.name)
	return loan, currency(h), err
}

func (lf *loanFlags) inline() (model.Loan, error) {
	loan := model.Loan{Name: "loan", TermMonths: lf.term}
	var err error
	if loan.Principal, err = money.Parse(lf.principal); err != nil {
		return loan, err
	}
	if loan.MonthlyPayment, err = money.Parse(lf.payment); err != nil {
		return loan, err
	}
	if loan.AnnualRatePercent, err = money.Parse(lf.rate); err != nil {
		return loan, err
	}
	return loan, loan.Validate()
}

func (lf *loanFlags) extraPayment() (decimal.Decimal, error) {
	extra, err := money.Parse(lf.extra)
	if err != nil {
		return decimal.Zero, err
	}
	if extra.IsNegative() {
		return decimal.Zero, fmt.Errorf("extra payment cannot be negative: %s", extra)
	}
	return extra, nil
}

func pickLoan(loans []model.Loan, sel string) (model.Loan, error) {
	if len(loans) == 0 {
		return model.Loan{}, fmt.Errorf("household has no loans")
	}
	if sel == "" {
		if len(loans) == 1 {
			return loans[0], nil
		}
		return model.Loan{}, fmt.Errorf("household has %d loans, pick one with --loan (%s)", len(loans), loanNames(loans))
	}
	if n, err := strconv.Atoi(sel); err == nil {
		if n < 1 || n > len(loans) {
			return model.Loan{}, fmt.Errorf("loan index %d out of range 1-%d", n, len(loans))
		}
		return loans[n-1], nil
	}
	for _, l := range loans {
		if strings.EqualFold(l.Name, sel) {
			return l, nil
		}
	}
	return model.Loan{}, fmt.Errorf("no loan named %q (%s)", sel, loanNames(loans))
}

func loanNames(loans []model.Loan) string {
	names := make([]string, len(loans))
	for i, l := range loans {
		names[i] = l.Label(i)
	}
	return strings.Join(names, ", ")
}

var simulateFlags loanFlags

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate one loan's payoff with and without an extra payment",
	RunE:  runSimulate,
}

func init() {
	simulateFlags.register(simulateCmd)
	rootCmd.AddCommand(simulateCmd)
}

type simulation struct {
	Loan        model.Loan               `json:"loan"`
	Extra       decimal.Decimal          `json:"extra"`
	Nominal     model.AmortizationResult `json:"nominal"`
	Accelerated model.AmortizationResult `json:"accelerated"`
}

func runSimulate(_ *cobra.Command, _ []string) error {
	loan, cur, err := simulateFlags.resolve()
	if err != nil {
		return err
	}
	extra, err := simulateFlags.extraPayment()
	if err != nil {
		return err
	}
	conv, err := engine.ParseConvention(flagNominal)
	if err != nil {
		return err
	}

	sim := simulation{
		Loan:        loan,
		Extra:       extra,
		Nominal:     conv.Nominal(loan),
		Accelerated: engine.Simulate(loan, extra),
	}
	if flagJSON {
		return printJSON(sim)
	}

	printTitle("Simulate  " + loan.Name)
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Nominal", "With extra"},
		Rows: [][]string{
			{"Payment", cli.FormatMoney(loan.MonthlyPayment, cur), cli.FormatMoney(loan.MonthlyPayment.Add(extra), cur)},
			{"Months", cli.FormatMonths(sim.Nominal.Months), cli.FormatMonths(sim.Accelerated.Months)},
			{"Interest", cli.FormatMoney(sim.Nominal.TotalInterest, cur), cli.FormatMoney(sim.Accelerated.TotalInterest, cur)},
		},
	}))

	switch {
	case sim.Accelerated.NonAmortizing:
		fmt.Println()
		fmt.Println(cli.RenderNotice("The payment never covers the monthly interest; the balance does not shrink."))
	case sim.Accelerated.Capped:
		fmt.Println()
		fmt.Println(cli.RenderNotice(fmt.Sprintf("Still not repaid after %d months.", engine.MaxMonths)))
	default:
		saved := sim.Nominal.TotalInterest.Sub(sim.Accelerated.TotalInterest)
		fmt.Println()
		fmt.Printf("  Interest saved: %s\n", cli.FormatMoney(money.NonNegative(saved), cur))
	}
	return nil
}
