package budget

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLedger_AddKeepsInsertionOrder(t *testing.T) {
	l := NewLedger()
	l.Add(tx("2024-05-15", "Rent", "1200", "Housing", USD))
	l.Add(tx("2024-05-01", "Coffee", "3.50", "Food", USD))

	want := []Transaction{
		tx("2024-05-15", "Rent", "1200", "Housing", USD),
		tx("2024-05-01", "Coffee", "3.50", "Food", USD),
	}
	if diff := cmp.Diff(want, ledgerTransactions(l), cmpOpts); diff != "" {
		t.Errorf("transactions mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_Delete(t *testing.T) {
	l := coffeeAndRent()
	if err := l.Delete(0); err != nil {
		t.Fatalf("Delete(0) error = %v", err)
	}
	if l.Len() != 1 || l.At(0).Description != "Rent" {
		t.Errorf("Delete(0) left %v", ledgerTransactions(l))
	}

	for _, i := range []int{-1, 1, 5} {
		if err := l.Delete(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Delete(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
	if l.Len() != 1 {
		t.Errorf("an out of range Delete modified the ledger")
	}
}

func TestLedger_Replace(t *testing.T) {
	l := coffeeAndRent()
	tea := tx("2024-05-02", "Tea", "2", "Food", EUR)
	if err := l.Replace(0, tea); err != nil {
		t.Fatalf("Replace(0) error = %v", err)
	}
	if !l.At(0).Equal(tea) {
		t.Errorf("At(0) = %+v, want %+v", l.At(0), tea)
	}
	if err := l.Replace(2, tea); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Replace(2) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestLedger_TransactionsFilters(t *testing.T) {
	l := coffeeAndRent()
	l.Add(tx("2024-04-30", "Groceries", "40", "Food", EUR))

	var indices []int
	for i := range l.Transactions(InMonth(MustParse("2024-05-20")), Matching("food")) {
		indices = append(indices, i)
	}
	if want := []int{0}; !slices.Equal(indices, want) {
		t.Errorf("Transactions() indices = %v, want %v", indices, want)
	}

	// early break
	count := 0
	for range l.Transactions() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("iteration did not stop")
	}
}

func TestLedger_Budgets(t *testing.T) {
	l := NewLedger()
	l.SetBudget("Food", CategoryBudget{Amount: dec("200"), Currency: EUR})
	l.SetBudget("Car", CategoryBudget{Amount: dec("50"), Currency: USD})
	l.SetBudget("Food", CategoryBudget{Amount: dec("250"), Currency: EUR})

	var got []string
	for cat := range l.Budgets() {
		got = append(got, cat)
	}
	if want := []string{"Car", "Food"}; !slices.Equal(got, want) {
		t.Errorf("Budgets() = %v, want %v", got, want)
	}
	b, ok := l.Budget("Food")
	if !ok || !b.Money().Equal(M(250, EUR)) {
		t.Errorf("Budget(Food) = %v, %v", b, ok)
	}
	if _, ok := l.Budget("Rent"); ok {
		t.Errorf("Budget(Rent) should not exist")
	}
}
