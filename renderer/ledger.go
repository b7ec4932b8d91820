// Package renderer turns ledger aggregates into markdown reports and charts.
package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/ChrisSch-dev/budget-tracking-app"
	md "github.com/nao1215/markdown"
)

// TransactionsMarkdown renders the transactions matching the view filter,
// with their ledger index, native amount, and amount converted into the view
// base currency.
func TransactionsMarkdown(l *budget.Ledger, rates budget.Converter, view budget.View) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Transactions (converted to base: %v)", view.Base))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"#", "Date", "Description", "Category", "Amount", view.Base.String(), "Recurring"},
	}
	total := budget.M(0, view.Base)
	for i, tx := range l.Transactions(budget.Matching(view.Filter)) {
		converted := budget.M(rates.Convert(tx.Amount, tx.Currency, view.Base), view.Base)
		total = total.Add(converted)
		recurring := ""
		if tx.Recurring {
			recurring = "yes"
		}
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i),
			tx.Date.String(),
			tx.Description,
			tx.Category,
			tx.Money().String(),
			converted.String(),
			recurring,
		})
	}
	if len(table.Rows) == 0 {
		if view.Filter == "" {
			doc.PlainText("No transactions.")
		} else {
			doc.PlainText(fmt.Sprintf("No transactions matching %q.", view.Filter))
		}
		return doc.String()
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("Total: %s", md.Bold(total.String())))
	return doc.String()
}
