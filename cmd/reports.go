package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/ChrisSch-dev/budget-tracking-app/renderer"
	"github.com/google/subcommands"
)

// parseDay reads a date flag, accepting relative dates.
func parseDay(s string) (budget.Date, error) {
	d, err := budget.ParseRelativeDate(s)
	if err != nil {
		return budget.Date{}, &budget.InputError{Field: "date", Value: s, Msg: "Failed to parse date. Use YYYY-MM-DD.", Err: err}
	}
	return d, nil
}

// totalCmd prints the total of transactions.
type totalCmd struct {
	filter string
}

func (*totalCmd) Name() string     { return "total" }
func (*totalCmd) Synopsis() string { return "print the total of the transactions in the base currency" }
func (*totalCmd) Usage() string {
	return `bt total [-f <search>]

  Prints the sum of the transactions matching <search>, converted into the
  base currency. Amounts without exchange rate are summed as is.
`
}

func (c *totalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "f", "", "Search term on description or category.")
}

func (c *totalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	total := a.ledger().Total(a.rates, c.filter, a.cfg.Base)
	status("Total: %s", total)
	return subcommands.ExitSuccess
}

// monthCmd prints the sums per category of a month.
type monthCmd struct {
	date string
}

func (*monthCmd) Name() string     { return "month" }
func (*monthCmd) Synopsis() string { return "print the sums per category of a month" }
func (*monthCmd) Usage() string {
	return `bt month [-d <date>]

  Prints, for each category with transactions in the month of <date>, the sum
  of those transactions in the base currency.
`
}

func (c *monthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Any date in the month to report.")
}

func (c *monthCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref, err := parseDay(c.date)
	if err != nil {
		return fail("%v", err)
	}
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	sums := a.ledger().CategorySumsInMonth(a.rates, a.cfg.Base, ref)
	if len(sums) == 0 {
		status("No transactions in %s %d.", ref.Month(), ref.Year())
		return subcommands.ExitSuccess
	}
	for _, cat := range slices.Sorted(maps.Keys(sums)) {
		status("%s: %s", cat, sums[cat])
	}
	return subcommands.ExitSuccess
}

// categoriesCmd lists the categories.
type categoriesCmd struct{}

func (*categoriesCmd) Name() string             { return "categories" }
func (*categoriesCmd) Synopsis() string         { return "list the categories in use" }
func (*categoriesCmd) Usage() string            { return "bt categories\n" }
func (*categoriesCmd) SetFlags(f *flag.FlagSet) {}

func (*categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	for _, cat := range a.ledger().Categories() {
		fmt.Fprintln(stdout, cat)
	}
	return subcommands.ExitSuccess
}

// viewFlags select a view of the ledger.
type viewFlags struct {
	date   string
	filter string
	chart  string
}

func (v *viewFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&v.date, "d", "0d", "Any date in the month to report.")
	f.StringVar(&v.filter, "f", "", "Search term on description or category.")
	f.StringVar(&v.chart, "chart", "bar", "Breakdown presentation: 'bar' (by category) or 'pie' (by share).")
}

func (v *viewFlags) parse(base budget.Currency) (budget.View, budget.Date, error) {
	ref, err := parseDay(v.date)
	if err != nil {
		return budget.View{}, ref, err
	}
	mode, err := budget.ParseChartMode(v.chart)
	if err != nil {
		return budget.View{}, ref, err
	}
	return budget.View{Filter: v.filter, Base: base, Chart: mode}, ref, nil
}

// reportCmd prints a summary.
type reportCmd struct {
	viewFlags
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display a summary of the ledger" }
func (*reportCmd) Usage() string {
	return `bt report [-d <date>] [-f <search>] [-chart bar|pie]

  Displays the total, the breakdown of the month by category, the budgets
  status, and warnings about inconsistent exchange rates.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	view, ref, err := c.parse(a.cfg.Base)
	if err != nil {
		return fail("%v", err)
	}
	s := budget.NewSummary(a.ledger(), a.rates, view, ref)
	s.Profile = a.store.ProfileName()
	printMarkdown(renderer.SummaryMarkdown(s))
	return subcommands.ExitSuccess
}

// chartCmd draws the month breakdown.
type chartCmd struct {
	viewFlags
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw the month breakdown by category as a PNG chart" }
func (*chartCmd) Usage() string {
	return `bt chart -o <file.png> [-d <date>] [-f <search>] [-chart bar|pie]
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.output, "o", "chart.png", "Output PNG file.")
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	view, ref, err := c.parse(a.cfg.Base)
	if err != nil {
		return fail("%v", err)
	}
	shares := a.ledger().Breakdown(a.rates, view, ref)

	var buf bytes.Buffer
	err = renderer.CategoryChart(&buf, shares, view.Chart, view.Base)
	if errors.Is(err, renderer.ErrNoData) {
		status("Nothing to chart in %s %d.", ref.Month(), ref.Year())
		return subcommands.ExitSuccess
	}
	if err != nil {
		return fail("%v", err)
	}
	if err := os.WriteFile(c.output, buf.Bytes(), 0644); err != nil {
		return fail("could not write chart: %v", err)
	}
	status("Chart written to %s.", c.output)
	return subcommands.ExitSuccess
}
