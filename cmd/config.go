package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/ChrisSch-dev/budget-tracking-app/ratefeed"
	"github.com/joho/godotenv"
)

// Environment variables read by the CLI, possibly from a .env file. They are
// also passed to extensions.
const (
	EnvLedgerFile   = "BT_LEDGER_FILE"
	EnvRatesFile    = "BT_RATES_FILE"
	EnvBaseCurrency = "BT_BASE_CURRENCY"
	EnvRatesURL     = "BT_RATES_URL"
	EnvAccessKey    = "BT_RATES_ACCESS_KEY"
	EnvRatesTimeout = "BT_RATES_TIMEOUT"
	EnvRatesCache   = "BT_RATES_CACHE"
	EnvLogLevel     = "LOG_LEVEL"
	EnvVerbose      = "BT_VERBOSE"
)

const (
	defaultLedgerFile = "budget.json"
	defaultRatesFile  = "rates.json"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ledgerFile   = flag.String("ledger", "", "Path to the ledger file (JSON). Defaults to $"+EnvLedgerFile+" or "+defaultLedgerFile+".")
	ratesFile    = flag.String("rates-file", "", "Path to the exchange rates file (JSON). Defaults to $"+EnvRatesFile+" or "+defaultRatesFile+".")
	baseCurrency = flag.String("base", "", "Base currency of aggregates. Defaults to $"+EnvBaseCurrency+" or USD.")
	Verbose      = flag.Bool("v", false, "Log debug information to stderr.")
)

// Config is the resolved configuration of one run. Flags win over
// environment variables, which win over defaults.
type Config struct {
	LedgerFile string
	RatesFile  string
	Base       budget.Currency
	RatesURL   string
	AccessKey  string
	Timeout    time.Duration
	CacheDir   string
	LogLevel   string
}

// envFile is the .env file read at startup, and updated by 'bt load'.
var envFile = ".env"

// LoadEnv loads environment variables from the given .env files, ".env" if
// none. Missing files are ignored and variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{envFile}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot load %s: %w", file, err)
		}
	}
	return nil
}

// loadConfig resolves the configuration from the global flags and the
// environment.
func loadConfig() (Config, error) {
	cfg := Config{
		LedgerFile: firstOf(*ledgerFile, os.Getenv(EnvLedgerFile), defaultLedgerFile),
		RatesFile:  firstOf(*ratesFile, os.Getenv(EnvRatesFile), defaultRatesFile),
		RatesURL:   firstOf(os.Getenv(EnvRatesURL), ratefeed.DefaultEndpoint),
		AccessKey:  os.Getenv(EnvAccessKey),
		Timeout:    ratefeed.DefaultTimeout,
		CacheDir:   os.Getenv(EnvRatesCache),
		LogLevel:   firstOf(os.Getenv(EnvLogLevel), "warn"),
	}
	if *Verbose {
		cfg.LogLevel = "debug"
	}

	base, err := budget.ParseCurrency(firstOf(*baseCurrency, os.Getenv(EnvBaseCurrency), "USD"))
	if err != nil {
		return cfg, fmt.Errorf("invalid base currency: %w", err)
	}
	cfg.Base = base

	if s := os.Getenv(EnvRatesTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvRatesTimeout, s, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// rememberLedger records path as the ledger file in the .env file, keeping
// the other variables it defines.
func rememberLedger(path string) error {
	env, err := godotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		env, err = map[string]string{}, nil
	}
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", envFile, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	env[EnvLedgerFile] = path
	if err := godotenv.Write(env, envFile); err != nil {
		return fmt.Errorf("cannot write %s: %w", envFile, err)
	}
	return nil
}

// env returns the configuration as environment variables.
func (c Config) env() []string {
	return []string{
		EnvLedgerFile + "=" + c.LedgerFile,
		EnvRatesFile + "=" + c.RatesFile,
		EnvBaseCurrency + "=" + c.Base.String(),
		EnvVerbose + "=" + fmt.Sprint(c.LogLevel == "debug"),
	}
}

// firstOf returns the first non blank value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
