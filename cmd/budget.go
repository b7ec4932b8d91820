package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/ChrisSch-dev/budget-tracking-app/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// budgetCmd shows or sets category budgets.
type budgetCmd struct {
	date string
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "show the budgets status, or set a category budget" }
func (*budgetCmd) Usage() string {
	return `bt budget [-d <date>]
bt budget <category> <amount> [<currency>]

  Without arguments, shows the monthly budget of each category against its
  spending in the month of <date>.
  With arguments, sets the monthly budget of <category>. The currency defaults
  to the base currency.
`
}

func (c *budgetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Any date in the month to report.")
}

func (c *budgetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if n := f.NArg(); n != 0 && n != 2 && n != 3 {
		fmt.Fprintln(stderr, "expected no argument, or <category> <amount> [<currency>]")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}

	if f.NArg() == 0 {
		ref, err := parseDay(c.date)
		if err != nil {
			return fail("%v", err)
		}
		printMarkdown(renderer.BudgetsMarkdown(a.ledger().BudgetStatus(a.rates, a.cfg.Base, ref), a.cfg.Base))
		return subcommands.ExitSuccess
	}

	category := f.Arg(0)
	amount, err := decimal.NewFromString(f.Arg(1))
	if err != nil {
		return fail("Failed to parse amount (must be a number).")
	}
	cur := a.cfg.Base
	if f.NArg() == 3 {
		if cur, err = budget.ParseCurrency(f.Arg(2)); err != nil {
			return fail("%v", err)
		}
	}
	b := budget.CategoryBudget{Amount: amount, Currency: cur}
	a.ledger().SetBudget(category, b)
	if err := a.saveLedger(); err != nil {
		return fail("%v", err)
	}
	status("Budget updated for category '%s'.", category)
	if cur != a.cfg.Base {
		status("≈ %s", a.rates.ConvertMoney(b.Money(), a.cfg.Base))
	}
	return subcommands.ExitSuccess
}
