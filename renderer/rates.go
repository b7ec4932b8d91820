package renderer

import (
	"bytes"

	"github.com/ChrisSch-dev/budget-tracking-app"
	md "github.com/nao1215/markdown"
)

// RatesMarkdown renders the directed rates of the table.
func RatesMarkdown(t *budget.ConversionTable) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Exchange Rates")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"From", "To", "Rate"},
	}
	for p, r := range t.Pairs() {
		table.Rows = append(table.Rows, []string{p.From.String(), p.To.String(), r.String()})
	}
	if len(table.Rows) == 0 {
		doc.PlainText("No exchange rates: amounts are summed as is.")
		return doc.String()
	}
	doc.Table(table)
	return doc.String()
}
