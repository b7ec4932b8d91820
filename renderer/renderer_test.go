package renderer

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ChrisSch-dev/budget-tracking-app"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// outline parses markdown and returns its headings, as "#"*level + " " +
// text, and the number of tables.
func outline(t *testing.T, src string) (headings []string, tables int) {
	t.Helper()
	source := []byte(src)
	doc := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			var sb strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					sb.Write(txt.Segment.Value(source))
				}
			}
			headings = append(headings, strings.Repeat("#", n.Level)+" "+sb.String())
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			tables++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown: %v", err)
	}
	return headings, tables
}

func sampleLedger() *budget.Ledger {
	l := budget.NewLedger()
	l.Add(
		budget.NewTransaction(budget.MustParse("2024-05-01"), "Coffee", budget.M(3.5, budget.USD).Decimal(), "Food", false, budget.USD),
		budget.NewTransaction(budget.MustParse("2024-05-15"), "Rent", budget.M(1200, budget.EUR).Decimal(), "Housing", true, budget.EUR),
	)
	l.SetBudget("Food", budget.CategoryBudget{Amount: budget.M(2, budget.USD).Decimal(), Currency: budget.USD})
	return l
}

func TestTransactionsMarkdown(t *testing.T) {
	l := sampleLedger()
	got := TransactionsMarkdown(l, budget.DefaultConversionTable(), budget.View{Base: budget.USD})

	headings, tables := outline(t, got)
	if want := []string{"# Transactions (converted to base: USD)"}; !slices.Equal(headings, want) {
		t.Errorf("headings = %q, want %q", headings, want)
	}
	if tables != 1 {
		t.Errorf("tables = %d, want 1", tables)
	}
	for _, want := range []string{"Coffee", "$3.50", "$1,320.00", "$1,323.50"} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestTransactionsMarkdown_NoMatch(t *testing.T) {
	got := TransactionsMarkdown(sampleLedger(), budget.NewConversionTable(), budget.View{Filter: "zzz", Base: budget.USD})
	if _, tables := outline(t, got); tables != 0 {
		t.Errorf("tables = %d, want 0", tables)
	}
	if !strings.Contains(got, `No transactions matching "zzz".`) {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	l := sampleLedger()
	rates := budget.DefaultConversionTable()
	rates.SetRate(budget.GBP, budget.USD, budget.M(3, budget.USD).Decimal())
	s := budget.NewSummary(l, rates, budget.View{Base: budget.USD, Chart: budget.ChartPie}, budget.MustParse("2024-05-20"))
	s.Profile = "home"

	got := SummaryMarkdown(s)
	headings, tables := outline(t, got)
	want := []string{
		"# Budget Summary for May 2024 (home)",
		"## This Month",
		"## Budgets",
		"## Rate Warnings",
	}
	if !slices.Equal(headings, want) {
		t.Errorf("headings = %q, want %q", headings, want)
	}
	if tables != 2 {
		t.Errorf("tables = %d, want 2", tables)
	}
	if !strings.Contains(got, "over") {
		t.Errorf("Food should be reported over budget:\n%s", got)
	}
}

func TestBudgetsMarkdown(t *testing.T) {
	got := BudgetsMarkdown(nil, budget.EUR)
	if headings, _ := outline(t, got); !slices.Equal(headings, []string{"# Budgets (in EUR)"}) {
		t.Errorf("headings = %q", headings)
	}
}

func TestRatesMarkdown(t *testing.T) {
	got := RatesMarkdown(budget.DefaultConversionTable())
	if _, tables := outline(t, got); tables != 1 {
		t.Errorf("tables = %d, want 1", tables)
	}
	if !strings.Contains(got, "0.0068") {
		t.Errorf("JPY/USD rate missing:\n%s", got)
	}
	empty := RatesMarkdown(budget.NewConversionTable())
	if _, tables := outline(t, empty); tables != 0 {
		t.Errorf("empty table rendered a table:\n%s", empty)
	}
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestCategoryChart(t *testing.T) {
	l := sampleLedger()
	l.Add(budget.NewTransaction(budget.MustParse("2024-05-03"), "Refund", budget.M(-20, budget.USD).Decimal(), "Shopping", false, budget.USD))
	for _, mode := range []budget.ChartMode{budget.ChartBar, budget.ChartPie} {
		t.Run(mode.String(), func(t *testing.T) {
			view := budget.View{Base: budget.USD, Chart: mode}
			shares := l.Breakdown(budget.DefaultConversionTable(), view, budget.MustParse("2024-05-20"))
			var buf bytes.Buffer
			if err := CategoryChart(&buf, shares, mode, budget.USD); err != nil {
				t.Fatalf("CategoryChart() error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Errorf("CategoryChart() did not write a PNG")
			}
		})
	}
}

func TestCategoryChart_NoData(t *testing.T) {
	var buf bytes.Buffer
	if err := CategoryChart(&buf, nil, budget.ChartBar, budget.USD); !errors.Is(err, ErrNoData) {
		t.Errorf("CategoryChart(nil) error = %v, want ErrNoData", err)
	}
	zero := []budget.CategoryShare{{Category: "Food", Sum: budget.M(0, budget.USD)}}
	if err := CategoryChart(&buf, zero, budget.ChartPie, budget.USD); !errors.Is(err, ErrNoData) {
		t.Errorf("CategoryChart(zero) error = %v, want ErrNoData", err)
	}
}
