package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/ChrisSch-dev/budget-tracking-app/renderer"
	"github.com/google/subcommands"
)

// txFlags are the flags describing a transaction, as typed by the user.
type txFlags struct {
	date        string
	description string
	amount      string
	category    string
	currency    string
	recurring   bool
}

func (t *txFlags) setFlags(f *flag.FlagSet, defaultDate string) {
	f.StringVar(&t.date, "d", defaultDate, "Date of the transaction (YYYY-MM-DD, or relative like -1d).")
	f.StringVar(&t.description, "desc", "", "Description of the transaction.")
	f.StringVar(&t.amount, "amount", "", "Amount of the transaction, in its currency.")
	f.StringVar(&t.category, "cat", "", "Category of the transaction.")
	f.StringVar(&t.currency, "cur", "", "Currency of the transaction. Defaults to the base currency.")
	f.BoolVar(&t.recurring, "recurring", false, "Mark the transaction as recurring.")
}

// parse validates the flags into a transaction.
func (t *txFlags) parse(base budget.Currency) (budget.Transaction, error) {
	cur := base
	if t.currency != "" {
		var err error
		if cur, err = budget.ParseCurrency(t.currency); err != nil {
			return budget.Transaction{}, &budget.InputError{Field: "currency", Value: t.currency, Msg: "Unsupported currency.", Err: err}
		}
	}
	// relative dates are a CLI convenience, resolve them first
	day := t.date
	if d, err := budget.ParseRelativeDate(t.date); err == nil {
		day = d.String()
	}
	return budget.ParseTransaction(day, t.description, t.amount, t.category, t.recurring, cur)
}

// parseIndex reads a transaction index argument.
func parseIndex(f *flag.FlagSet) (int, error) {
	if f.NArg() != 1 {
		return 0, errors.New("expected exactly one transaction index")
	}
	i, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		return 0, fmt.Errorf("invalid transaction index %q", f.Arg(0))
	}
	return i, nil
}

// addCmd adds a transaction.
type addCmd struct {
	txFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a transaction to the ledger" }
func (*addCmd) Usage() string {
	return `bt add -amount <amount> [-d <date>] [-desc <text>] [-cat <category>] [-cur <currency>] [-recurring]

  Appends a transaction to the ledger. Expenses are positive amounts.

Usage Examples:
$ bt add -desc Coffee -amount 3.50 -cat Food
$ bt add -d 2024-05-15 -desc Rent -amount 1200 -cat Housing -cur EUR -recurring
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, "0d") }

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	tx, err := c.parse(a.cfg.Base)
	if err != nil {
		return fail("%v", err)
	}
	a.ledger().Add(tx)
	if err := a.saveLedger(); err != nil {
		return fail("%v", err)
	}
	status("Transaction added.")
	return subcommands.ExitSuccess
}

// rmCmd deletes a transaction.
type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a transaction by index" }
func (*rmCmd) Usage() string {
	return `bt rm <index>

  Deletes the transaction at <index>, as listed by 'bt ls'.
`
}

func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (*rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	i, err := parseIndex(f)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	if err := a.ledger().Delete(i); err != nil {
		return fail("%v", err)
	}
	if err := a.saveLedger(); err != nil {
		return fail("%v", err)
	}
	status("Transaction deleted.")
	return subcommands.ExitSuccess
}

// editCmd replaces some fields of a transaction.
type editCmd struct {
	txFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "modify a transaction by index" }
func (*editCmd) Usage() string {
	return `bt edit [-d <date>] [-desc <text>] [-amount <amount>] [-cat <category>] [-cur <currency>] [-recurring=<bool>] <index>

  Replaces the fields given as flags in the transaction at <index>.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f, "") }

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	i, err := parseIndex(f)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	if i < 0 || i >= a.ledger().Len() {
		return fail("%v", fmt.Errorf("no transaction %d: %w", i, budget.ErrIndexOutOfRange))
	}

	// start from the current values, and override with the flags set
	old := a.ledger().At(i)
	edited := txFlags{
		date:        old.Date.String(),
		description: old.Description,
		amount:      old.Amount.String(),
		category:    old.Category,
		currency:    old.Currency.String(),
		recurring:   old.Recurring,
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "d":
			edited.date = c.date
		case "desc":
			edited.description = c.description
		case "amount":
			edited.amount = c.amount
		case "cat":
			edited.category = c.category
		case "cur":
			edited.currency = c.currency
		case "recurring":
			edited.recurring = c.recurring
		}
	})
	tx, err := edited.parse(a.cfg.Base)
	if err != nil {
		return fail("%v", err)
	}
	if err := a.ledger().Replace(i, tx); err != nil {
		return fail("%v", err)
	}
	if err := a.saveLedger(); err != nil {
		return fail("%v", err)
	}
	status("Transaction updated.")
	return subcommands.ExitSuccess
}

// lsCmd lists transactions.
type lsCmd struct {
	filter string
}

func (*lsCmd) Name() string     { return "ls" }
func (*lsCmd) Synopsis() string { return "list the transactions" }
func (*lsCmd) Usage() string {
	return `bt ls [-f <search>]

  Lists the transactions with their index, amount, and amount converted into
  the base currency. -f keeps only transactions whose description or category
  contains <search>, case insensitively.
`
}

func (c *lsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter, "f", "", "Search term on description or category.")
}

func (c *lsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	view := budget.View{Filter: c.filter, Base: a.cfg.Base}
	printMarkdown(renderer.TransactionsMarkdown(a.ledger(), a.rates, view))
	return subcommands.ExitSuccess
}
