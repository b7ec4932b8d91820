package renderer

import (
	"bytes"
	"fmt"

	"github.com/ChrisSch-dev/budget-tracking-app"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders a ledger summary: total, month breakdown, budgets
// and rate warnings.
func SummaryMarkdown(s *budget.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	title := fmt.Sprintf("Budget Summary for %s %d", s.Date.Month(), s.Date.Year())
	if s.Profile != "" {
		title = fmt.Sprintf("%s (%s)", title, s.Profile)
	}
	doc.H1(title)

	scope := "all transactions"
	if s.View.Filter != "" {
		scope = fmt.Sprintf("transactions matching %q", s.View.Filter)
	}
	doc.PlainText(fmt.Sprintf("Total of %d %s: %s", s.Count, scope, md.Bold(s.Total.String())))

	doc.H2("This Month")
	if len(s.Month) == 0 {
		doc.PlainText("No transactions this month.")
	} else {
		doc.Table(breakdownTable(s.Month, s.View.Chart))
	}

	if len(s.Budgets) > 0 {
		doc.H2("Budgets")
		doc.Table(budgetTable(s.Budgets))
	}

	if len(s.Warnings) > 0 {
		doc.H2("Rate Warnings")
		var items []string
		for _, w := range s.Warnings {
			items = append(items, fmt.Sprintf("%v is %v but %v/%v is %v (product %v)",
				w.Pair, w.Rate, w.To, w.From, w.Inverse, w.Product().Round(4)))
		}
		doc.BulletList(items...)
	}

	return doc.String()
}

// BudgetsMarkdown renders the budget status lines.
func BudgetsMarkdown(lines []budget.BudgetLine, base budget.Currency) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Budgets (in %v)", base))
	if len(lines) == 0 {
		doc.PlainText("No budgets and no spending this month.")
		return doc.String()
	}
	doc.Table(budgetTable(lines))
	return doc.String()
}

func breakdownTable(shares []budget.CategoryShare, mode budget.ChartMode) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Category", "Sum"},
	}
	if mode == budget.ChartPie {
		table.Alignment = append(table.Alignment, md.AlignRight)
		table.Header = append(table.Header, "Share")
	}
	for _, s := range shares {
		row := []string{s.Category, s.Sum.String()}
		if mode == budget.ChartPie {
			row = append(row, s.Share.StringFixed(1)+"%")
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func budgetTable(lines []budget.BudgetLine) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Category", "Limit", "Spent", "Remaining", "Status"},
	}
	for _, l := range lines {
		limit, remaining, status := "-", "-", ""
		if l.HasBudget {
			limit = l.Limit.String()
			remaining = l.Remaining.String()
			status = "ok"
			if l.Over() {
				status = md.Bold("over")
			}
		}
		table.Rows = append(table.Rows, []string{l.Category, limit, l.Spent.String(), remaining, status})
	}
	return table
}
