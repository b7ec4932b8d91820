package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/google/subcommands"
)

// importCmd appends the transactions of a CSV file.
type importCmd struct {
	atomic bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "append the transactions of a CSV file" }
func (*importCmd) Usage() string {
	return `bt import [-atomic] <file.csv>

  Appends the transactions of <file.csv>, whose first line is a header:

    date,description,amount,currency,category,recurring

  The import stops at the first invalid row. The rows before it are kept,
  unless -atomic is set.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.atomic, "atomic", false, "Import nothing if any row is invalid.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "expected exactly one CSV file")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}

	var n int
	if c.atomic {
		n, err = a.store.ImportCSVAtomic(f.Arg(0))
	} else {
		n, err = a.store.ImportCSV(f.Arg(0))
	}
	// rows appended before an invalid one are saved anyway
	if n > 0 {
		if serr := a.saveLedger(); serr != nil {
			return fail("%v", serr)
		}
	}
	var ierr *budget.ImportError
	if errors.As(err, &ierr) {
		return fail("%v (%d transactions imported).", ierr, n)
	}
	if err != nil {
		return fail("%v", err)
	}
	status("Imported %d transactions from CSV.", n)
	return subcommands.ExitSuccess
}

// exportCmd writes the transactions into a CSV file.
type exportCmd struct{}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export all the transactions into a CSV file" }
func (*exportCmd) Usage() string {
	return "bt export <file.csv>\n"
}
func (*exportCmd) SetFlags(f *flag.FlagSet) {}

func (*exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "expected exactly one CSV file")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	if err := a.store.ExportCSV(f.Arg(0)); err != nil {
		return fail("%v", err)
	}
	status("Exported %d transactions to %s.", a.ledger().Len(), f.Arg(0))
	return subcommands.ExitSuccess
}

// newCmd starts an empty ledger.
type newCmd struct {
	force bool
}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "create an empty ledger file" }
func (*newCmd) Usage() string {
	return `bt new [-force] [<file.json>]

  Creates an empty ledger at <file.json>, the configured ledger file if
  omitted. An existing file is only overwritten with -force.
`
}

func (c *newCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Overwrite an existing ledger file.")
}

func (c *newCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(stderr, "expected at most one ledger file")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		return fail("%v", err)
	}
	path := cfg.LedgerFile
	if f.NArg() == 1 {
		path = f.Arg(0)
	}
	if _, err := os.Stat(path); err == nil && !c.force {
		return fail("ledger %q already exists, use -force to overwrite it.", path)
	}

	store, _ := budget.LoadOrDefault("")
	store.Reset()
	store.Ledger().SetLastProfile(budget.ProfileName(path))
	if err := store.SaveAs(path); err != nil {
		return fail("%v", err)
	}
	status("New ledger %s created.", store.ProfileName())
	return subcommands.ExitSuccess
}

// loadCmd switches to another ledger file.
type loadCmd struct{}

func (*loadCmd) Name() string     { return "load" }
func (*loadCmd) Synopsis() string { return "switch to another ledger file" }
func (*loadCmd) Usage() string {
	return `bt load <file.json>

  Checks that <file.json> is a ledger, and makes it the ledger of the next
  commands by recording it as $` + EnvLedgerFile + ` in the .env file.
  The -ledger flag still takes precedence.
`
}
func (*loadCmd) SetFlags(f *flag.FlagSet) {}

func (*loadCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "expected exactly one ledger file")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("%v", err)
	}
	path := f.Arg(0)
	res := a.store.Load(path)
	switch res.Status {
	case budget.Loaded:
	case budget.Missing:
		return fail("no ledger %q, use 'bt new %s' to create it.", path, path)
	default:
		return fail("cannot load ledger %q (%v): %v", path, res.Status, res.Err)
	}
	if res.Dropped > 0 {
		fmt.Fprintf(stderr, "Warning: %d invalid records ignored in %q.\n", res.Dropped, path)
	}
	if err := rememberLedger(path); err != nil {
		return fail("%v", err)
	}
	status("Loaded profile '%s' (%d transactions).", a.store.ProfileName(), a.ledger().Len())
	return subcommands.ExitSuccess
}
