package budget

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// CategoryBudget is the monthly spending limit of one category, in its own
// currency.
type CategoryBudget struct {
	Amount   decimal.Decimal
	Currency Currency
}

// Money returns the budget limit in its own currency.
func (b CategoryBudget) Money() Money { return M(b.Amount, b.Currency) }

// Ledger represents the data of one profile: a list of transactions, the
// budgets per category, and the last profile used.
//
// In a Ledger transactions are kept in insertion order, which is also the
// order they are persisted in.
type Ledger struct {
	transactions []Transaction
	budgets      map[string]CategoryBudget // index budget by category
	lastProfile  string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		transactions: make([]Transaction, 0),
		budgets:      make(map[string]CategoryBudget),
	}
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// At returns the transaction at index i. It panics if i is out of range,
// like a slice would.
func (l *Ledger) At(i int) Transaction { return l.transactions[i] }

// Add appends transactions at the end of the ledger.
func (l *Ledger) Add(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
}

// Delete removes the transaction at index i. The ledger is left untouched
// when i is out of range.
func (l *Ledger) Delete(i int) error {
	if i < 0 || i >= len(l.transactions) {
		return fmt.Errorf("cannot delete transaction %d of %d: %w", i, len(l.transactions), ErrIndexOutOfRange)
	}
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return nil
}

// Replace substitutes the transaction at index i with tx.
func (l *Ledger) Replace(i int, tx Transaction) error {
	if i < 0 || i >= len(l.transactions) {
		return fmt.Errorf("cannot replace transaction %d of %d: %w", i, len(l.transactions), ErrIndexOutOfRange)
	}
	l.transactions[i] = tx
	return nil
}

// Transactions returns an iterator that yields each transaction, and its
// index, in ledger order.
//
// A transaction is yielded if it is accepted by all the filters.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			accept := true
			for _, filter := range filters {
				if !filter(tx) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// SetBudget creates or overwrites the budget of a category.
func (l *Ledger) SetBudget(category string, b CategoryBudget) {
	l.budgets[category] = b
}

// Budget returns the budget of a category, if any.
func (l *Ledger) Budget(category string) (CategoryBudget, bool) {
	b, ok := l.budgets[category]
	return b, ok
}

// Budgets iterates over all budgets ordered by category.
//
// Budgets of categories that no longer have transactions are kept.
func (l *Ledger) Budgets() iter.Seq2[string, CategoryBudget] {
	return func(yield func(string, CategoryBudget) bool) {
		categories := slices.Sorted(maps.Keys(l.budgets))
		for _, category := range categories {
			if !yield(category, l.budgets[category]) {
				return
			}
		}
	}
}

// LastProfile returns the last profile identifier, "" if unset.
func (l *Ledger) LastProfile() string { return l.lastProfile }

// SetLastProfile sets the last profile identifier, "" to unset it.
func (l *Ledger) SetLastProfile(profile string) { l.lastProfile = profile }
