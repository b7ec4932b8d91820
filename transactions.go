package budget

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is a single dated movement of money in the ledger.
//
// Amount is signed and expressed in the transaction's own Currency; it is
// only converted when aggregated. Recurring is informational.
type Transaction struct {
	Date        Date
	Description string
	Amount      decimal.Decimal
	Category    string
	Recurring   bool
	Currency    Currency
}

// NewTransaction creates a transaction from already validated values.
func NewTransaction(day Date, description string, amount decimal.Decimal, category string, recurring bool, currency Currency) Transaction {
	return Transaction{
		Date:        day,
		Description: description,
		Amount:      amount,
		Category:    category,
		Recurring:   recurring,
		Currency:    currency,
	}
}

// Money returns the transaction amount in its native currency.
func (tx Transaction) Money() Money { return M(tx.Amount, tx.Currency) }

// Equal reports whether both transactions have the same fields. Amounts are
// compared by value, so 3.5 and 3.50 are equal.
func (tx Transaction) Equal(o Transaction) bool {
	return tx.Date == o.Date &&
		tx.Description == o.Description &&
		tx.Amount.Equal(o.Amount) &&
		tx.Category == o.Category &&
		tx.Recurring == o.Recurring &&
		tx.Currency == o.Currency
}

// ParseTransaction builds a transaction from the text a user typed.
//
// The returned error is an *InputError whose message can be displayed
// directly. The amount is checked first, then the date.
func ParseTransaction(day, description, amount, category string, recurring bool, currency Currency) (Transaction, error) {
	value, err := parseAmount(amount)
	if err != nil {
		return Transaction{}, &InputError{Field: "amount", Value: amount, Msg: "Failed to parse amount (must be a number).", Err: err}
	}
	on, err := ParseDate(day)
	if err != nil {
		return Transaction{}, &InputError{Field: "date", Value: day, Msg: "Failed to parse date. Use YYYY-MM-DD.", Err: err}
	}
	if !currency.Valid() {
		return Transaction{}, &InputError{Field: "currency", Value: currency.String(), Msg: "Unsupported currency."}
	}
	return NewTransaction(on, description, value, category, recurring, currency), nil
}

// parseAmount parses a signed decimal number.
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
