package budget

import (
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// cmpOpts compares the value types of the package by value.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Date) bool { return a == b }),
	cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
}

// dec is a helper for test to create decimals from const.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// tx is a helper for test to create a non recurring transaction.
func tx(day, description, amount, category string, cur Currency) Transaction {
	return NewTransaction(MustParse(day), description, dec(amount), category, false, cur)
}

// coffeeAndRent returns the reference two transactions ledger.
func coffeeAndRent() *Ledger {
	l := NewLedger()
	l.Add(
		tx("2024-05-01", "Coffee", "3.50", "Food", USD),
		tx("2024-05-15", "Rent", "1200", "Housing", USD),
	)
	return l
}

// ledgerTransactions returns all the transactions of l.
func ledgerTransactions(l *Ledger) []Transaction {
	var res []Transaction
	for _, tx := range l.Transactions() {
		res = append(res, tx)
	}
	return res
}
