// Package cmd implements the CLI application to manage a budget ledger.
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/ChrisSch-dev/budget-tracking-app/logger"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Commands lists all the subcommands. A main package registers them, and
// calls Execute() on the user-selected one.
var Commands = []subcommands.Command{
	&addCmd{},
	&rmCmd{},
	&editCmd{},
	&lsCmd{},
	&totalCmd{},
	&monthCmd{},
	&categoriesCmd{},
	&budgetCmd{},
	&reportCmd{},
	&chartCmd{},
	&ratesCmd{},
	&rateCmd{},
	&fetchRatesCmd{},
	&importCmd{},
	&exportCmd{},
	&newCmd{},
	&loadCmd{},
}

// Register the subcommands, grouped by topic.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, group(cmd.Name()))
	}
}

func group(name string) string {
	switch name {
	case "add", "rm", "edit", "ls":
		return "transactions"
	case "total", "month", "categories", "budget", "report", "chart":
		return "reports"
	case "rates", "rate", "fetch-rates":
		return "exchange rates"
	}
	return "files"
}

// Setup initializes logging once flags are parsed.
func Setup() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return logger.Init(cfg.LogLevel)
}

// stdout and stderr are variables for tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// app is the state shared by the subcommands: the configuration, the ledger
// store, and the conversion table.
type app struct {
	cfg   Config
	store *budget.Store
	rates *budget.ConversionTable
	log   *zap.Logger
}

// openApp loads the configuration, the ledger, and the rates.
//
// A ledger that cannot be loaded is replaced by an empty one, with a
// warning. Rates that cannot be loaded are an error, since they would be
// overwritten on save.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: logger.Named("cmd")}

	store, res := budget.LoadOrDefault(cfg.LedgerFile)
	switch res.Status {
	case budget.Unreadable, budget.Malformed:
		fmt.Fprintf(stderr, "Warning: cannot load ledger %q (%v), starting with an empty ledger.\n", cfg.LedgerFile, res.Err)
	case budget.Loaded:
		if res.Dropped > 0 {
			fmt.Fprintf(stderr, "Warning: %d invalid records ignored in %q.\n", res.Dropped, cfg.LedgerFile)
		}
	}
	a.store = store

	a.rates, err = loadRates(cfg.RatesFile)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ledger returns the ledger data.
func (a *app) ledger() *budget.Ledger { return a.store.Ledger() }

// saveLedger persists the ledger, remembering the profile it was saved as.
func (a *app) saveLedger() error {
	a.ledger().SetLastProfile(a.store.ProfileName())
	if err := a.store.Save(); err != nil {
		return fmt.Errorf("could not save ledger: %w", err)
	}
	return nil
}

// loadRates returns the default rates overridden by the rates of the file,
// if there is one.
func loadRates(path string) (*budget.ConversionTable, error) {
	rates := budget.DefaultConversionTable()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return rates, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read rates file %q: %w", path, err)
	}
	saved, err := budget.DecodeRates(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode rates file %q: %w", path, err)
	}
	rates.Merge(saved)
	return rates, nil
}

// saveRates persists the conversion table.
func (a *app) saveRates() error {
	var buf bytes.Buffer
	if err := budget.EncodeRates(&buf, a.rates); err != nil {
		return err
	}
	if err := os.WriteFile(a.cfg.RatesFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not save rates: %w", err)
	}
	return nil
}

// status prints a one line message for the user.
func status(format string, args ...any) {
	fmt.Fprintf(stdout, format+"\n", args...)
}

// fail prints an error and returns ExitFailure.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
