package budget

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency is one of the supported currency codes.
//
// Currencies are ordered by declaration, which gives a deterministic
// iteration order wherever currencies are listed.
type Currency uint8

const (
	USD Currency = iota
	EUR
	GBP
	JPY
	CHF
)

var currencyCodes = [...]string{
	USD: "USD",
	EUR: "EUR",
	GBP: "GBP",
	JPY: "JPY",
	CHF: "CHF",
}

// Currencies returns all the supported currencies in order.
func Currencies() []Currency {
	return []Currency{USD, EUR, GBP, JPY, CHF}
}

// String returns the 3-letter code of the currency.
func (c Currency) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Currency(%d)", uint8(c))
	}
	return currencyCodes[c]
}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool { return int(c) < len(currencyCodes) }

// ParseCurrency parses a 3-letter currency code. It is case insensitive.
func ParseCurrency(s string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for c, cc := range currencyCodes {
		if cc == code {
			return Currency(c), nil
		}
	}
	return USD, fmt.Errorf("unknown currency %q", s)
}

// Fraction returns the number of digits displayed after the decimal point.
func (c Currency) Fraction() int {
	return c.info().Fraction
}

// info returns go-money's description of the currency.
func (c Currency) info() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, c.String()).Currency()
}

// MarshalText implements encoding.TextMarshaler, so that currencies are
// persisted as their code, including as map keys.
func (c Currency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid currency %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Currency) UnmarshalText(text []byte) error {
	v, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
