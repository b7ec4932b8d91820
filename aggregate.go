package budget

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Matching returns a transaction filter that accepts transactions whose
// description or category contains filter, case insensitively.
//
// The empty filter accepts everything.
func Matching(filter string) func(Transaction) bool {
	needle := strings.ToLower(filter)
	return func(tx Transaction) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(tx.Description), needle) ||
			strings.Contains(strings.ToLower(tx.Category), needle)
	}
}

// InMonth returns a transaction filter that accepts transactions of the same
// year and month as ref.
func InMonth(ref Date) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Date.SameMonth(ref) }
}

// FilteredTransactions returns the transactions matching filter, in ledger
// order.
func (l *Ledger) FilteredTransactions(filter string) []Transaction {
	var res []Transaction
	for _, tx := range l.Transactions(Matching(filter)) {
		res = append(res, tx)
	}
	return res
}

// Total returns the sum of the transactions matching filter, converted into
// base.
func (l *Ledger) Total(rates Converter, filter string, base Currency) Money {
	sum := decimal.Zero
	for _, tx := range l.Transactions(Matching(filter)) {
		sum = sum.Add(rates.Convert(tx.Amount, tx.Currency, base))
	}
	return M(sum, base)
}

// CategorySumsInMonth returns, for each category with at least one
// transaction in the month of ref, the sum of those transactions converted
// into base.
func (l *Ledger) CategorySumsInMonth(rates Converter, base Currency, ref Date) map[string]Money {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range l.Transactions(InMonth(ref)) {
		sums[tx.Category] = sums[tx.Category].Add(rates.Convert(tx.Amount, tx.Currency, base))
	}
	res := make(map[string]Money, len(sums))
	for cat, sum := range sums {
		res[cat] = M(sum, base)
	}
	return res
}

// Categories returns the distinct categories of all transactions, sorted.
func (l *Ledger) Categories() []string {
	seen := make(map[string]struct{})
	for _, tx := range l.transactions {
		seen[tx.Category] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// ChartMode selects how a category breakdown is presented.
type ChartMode int

const (
	ChartBar ChartMode = iota // categories by name, signed sums
	ChartPie                  // categories by decreasing magnitude, with shares
)

func (m ChartMode) String() string {
	if m == ChartPie {
		return "pie"
	}
	return "bar"
}

// ParseChartMode parses "bar" or "pie".
func ParseChartMode(s string) (ChartMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bar", "":
		return ChartBar, nil
	case "pie":
		return ChartPie, nil
	}
	return ChartBar, &InputError{Field: "chart", Value: s, Msg: "Chart must be 'bar' or 'pie'."}
}

// View is the state of one aggregate view: which transactions, in which
// currency, charted how.
type View struct {
	Filter string
	Base   Currency
	Chart  ChartMode
}

// CategoryShare is one slice of a category breakdown.
type CategoryShare struct {
	Category string
	Sum      Money
	// Share is the percentage of |Sum| in the sum of all |Sum|. It is only
	// computed for ChartPie.
	Share decimal.Decimal
}

// Breakdown returns the per category sums of the month of ref, for
// transactions matching the view filter, ready to be charted.
func (l *Ledger) Breakdown(rates Converter, view View, ref Date) []CategoryShare {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range l.Transactions(InMonth(ref), Matching(view.Filter)) {
		sums[tx.Category] = sums[tx.Category].Add(rates.Convert(tx.Amount, tx.Currency, view.Base))
	}

	res := make([]CategoryShare, 0, len(sums))
	for cat, sum := range sums {
		res = append(res, CategoryShare{Category: cat, Sum: M(sum, view.Base)})
	}

	switch view.Chart {
	case ChartPie:
		total := decimal.Zero
		for _, s := range res {
			total = total.Add(s.Sum.Decimal().Abs())
		}
		for i := range res {
			if !total.IsZero() {
				res[i].Share = res[i].Sum.Decimal().Abs().Mul(decimal.NewFromInt(100)).DivRound(total, 2)
			}
		}
		slices.SortFunc(res, func(a, b CategoryShare) int {
			if c := b.Sum.Decimal().Abs().Cmp(a.Sum.Decimal().Abs()); c != 0 {
				return c
			}
			return cmp.Compare(a.Category, b.Category)
		})
	default:
		slices.SortFunc(res, func(a, b CategoryShare) int { return cmp.Compare(a.Category, b.Category) })
	}
	return res
}

// BudgetLine is the status of one category budget for a month.
type BudgetLine struct {
	Category  string
	Limit     Money // zero when the category has no budget
	Spent     Money // sum of the month's transactions, expenses being positive
	Remaining Money // Limit - Spent
	HasBudget bool
}

// Over reports whether the spending exceeds the limit.
func (b BudgetLine) Over() bool {
	return b.HasBudget && b.Remaining.IsNegative()
}

// BudgetStatus returns a line for every category that has a budget or a
// transaction in the month of ref, sorted by category. Amounts are in base.
func (l *Ledger) BudgetStatus(rates Converter, base Currency, ref Date) []BudgetLine {
	sums := l.CategorySumsInMonth(rates, base, ref)
	categories := make(map[string]struct{})
	for cat := range sums {
		categories[cat] = struct{}{}
	}
	for cat := range l.budgets {
		categories[cat] = struct{}{}
	}

	var res []BudgetLine
	for _, cat := range slices.Sorted(maps.Keys(categories)) {
		line := BudgetLine{Category: cat, Limit: M(0, base), Spent: M(0, base)}
		if sum, ok := sums[cat]; ok {
			line.Spent = sum
		}
		if b, ok := l.budgets[cat]; ok {
			line.HasBudget = true
			line.Limit = M(rates.Convert(b.Amount, b.Currency, base), base)
		}
		line.Remaining = line.Limit.Sub(line.Spent)
		res = append(res, line)
	}
	return res
}
