package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/ChrisSch-dev/budget-tracking-app/ratefeed"
	"github.com/ChrisSch-dev/budget-tracking-app/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// ratesCmd prints the conversion table.
type ratesCmd struct{}

func (*ratesCmd) Name() string             { return "rates" }
func (*ratesCmd) Synopsis() string         { return "display the exchange rates" }
func (*ratesCmd) Usage() string            { return "bt rates\n" }
func (*ratesCmd) SetFlags(f *flag.FlagSet) {}

func (*ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	printMarkdown(renderer.RatesMarkdown(a.rates))
	return subcommands.ExitSuccess
}

// rateCmd sets one exchange rate.
type rateCmd struct{}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "set the exchange rate of a currency pair" }
func (*rateCmd) Usage() string {
	return `bt rate <from> <to> <rate>

  Sets the rate converting an amount in <from> into <to>. The inverse rate is
  left unchanged.
`
}
func (*rateCmd) SetFlags(f *flag.FlagSet) {}

func (*rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(stderr, "expected <from> <to> <rate>")
		return subcommands.ExitUsageError
	}
	from, err := budget.ParseCurrency(f.Arg(0))
	if err != nil {
		return fail("%v", err)
	}
	to, err := budget.ParseCurrency(f.Arg(1))
	if err != nil {
		return fail("%v", err)
	}
	rate, err := decimal.NewFromString(f.Arg(2))
	if err != nil {
		return fail("Rate must be a positive number.")
	}

	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	if err := a.rates.SetRate(from, to, rate); err != nil {
		return fail("%v", err)
	}
	if err := a.saveRates(); err != nil {
		return fail("%v", err)
	}
	status("Rate %v set to %v.", budget.Pair{From: from, To: to}, rate)
	return subcommands.ExitSuccess
}

// fetchRatesCmd updates the table from the rate feed.
type fetchRatesCmd struct {
	base string
}

func (*fetchRatesCmd) Name() string     { return "fetch-rates" }
func (*fetchRatesCmd) Synopsis() string { return "update the exchange rates from the online feed" }
func (*fetchRatesCmd) Usage() string {
	return `bt fetch-rates [-from <currency>]

  Queries the rate feed ($` + EnvRatesURL + `) for the latest rates from the
  base currency to every supported currency, and stores them with their
  inverse. On failure the rates are left unchanged.
`
}

func (c *fetchRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "from", "", "Currency to fetch the rates from. Defaults to the base currency.")
}

func (c *fetchRatesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	base := a.cfg.Base
	if c.base != "" {
		if base, err = budget.ParseCurrency(c.base); err != nil {
			return fail("%v", err)
		}
	}

	opts := []ratefeed.Option{
		ratefeed.WithTimeout(a.cfg.Timeout),
		ratefeed.WithAccessKey(a.cfg.AccessKey),
		ratefeed.WithLogger(a.log.Named("ratefeed")),
	}
	if a.cfg.CacheDir != "" {
		opts = append(opts, ratefeed.WithDailyCache(a.cfg.CacheDir))
	}
	client := ratefeed.New(a.cfg.RatesURL, opts...)

	n, err := a.rates.FetchRemote(ctx, client, base, budget.Currencies())
	if err != nil {
		return fail("%v", err)
	}
	if err := a.saveRates(); err != nil {
		return fail("%v", err)
	}
	status("Exchange rates updated for %d currencies.", n)
	return subcommands.ExitSuccess
}
