package budget

import "github.com/shopspring/decimal"

// Summary gives an at-a-glance overview of a ledger for a view and a month.
type Summary struct {
	Date     Date
	Profile  string // set by the caller, who knows where the ledger comes from
	View     View
	Count    int             // number of transactions matching the view filter
	Total    Money           // their sum in the view base currency
	Month    []CategoryShare // breakdown of the month of Date
	Budgets  []BudgetLine    // budget status of the month of Date
	Warnings []Inconsistency // rates whose inverse disagree
}

// InconsistencyTolerance is the largest acceptable |rate*inverse - 1| in a
// Summary.
var InconsistencyTolerance = decimal.RequireFromString("0.05")

// NewSummary computes the summary of the ledger for the given view, on the
// month of ref.
func NewSummary(l *Ledger, rates *ConversionTable, view View, ref Date) *Summary {
	s := &Summary{
		Date: ref,
		View: view,
	}
	for range l.Transactions(Matching(view.Filter)) {
		s.Count++
	}
	s.Total = l.Total(rates, view.Filter, view.Base)
	s.Month = l.Breakdown(rates, view, ref)
	s.Budgets = l.BudgetStatus(rates, view.Base, ref)
	s.Warnings = rates.Inconsistencies(InconsistencyTolerance)
	return s
}
