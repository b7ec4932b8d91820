package budget

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestConvert_SameCurrency(t *testing.T) {
	table := DefaultConversionTable()
	for _, c := range Currencies() {
		for _, x := range []string{"0", "1", "-3.5", "1203.50", "0.0001"} {
			if got := table.Convert(dec(x), c, c); !got.Equal(dec(x)) {
				t.Errorf("Convert(%s, %v, %v) = %v", x, c, c, got)
			}
		}
	}
}

func TestConvert_MissingPairIsIdentity(t *testing.T) {
	table := NewConversionTable()
	for _, a := range Currencies() {
		for _, b := range Currencies() {
			if got := table.Convert(dec("42.42"), a, b); !got.Equal(dec("42.42")) {
				t.Errorf("Convert(42.42, %v, %v) = %v, want 42.42", a, b, got)
			}
		}
	}
}

func TestConvert_StoredPair(t *testing.T) {
	table := DefaultConversionTable()
	if got := table.Convert(dec("100"), USD, EUR); !got.Equal(dec("91")) {
		t.Errorf("Convert(100, USD, EUR) = %v, want 91", got)
	}
	if got := table.Convert(dec("10"), EUR, USD); !got.Equal(dec("11")) {
		t.Errorf("Convert(10, EUR, USD) = %v, want 11", got)
	}
	// no EUR/GBP rate in the default table
	if got := table.Convert(dec("10"), EUR, GBP); !got.Equal(dec("10")) {
		t.Errorf("Convert(10, EUR, GBP) = %v, want 10", got)
	}
	if got := table.ConvertMoney(M(1000, JPY), USD); !got.Equal(M(6.8, USD)) {
		t.Errorf("ConvertMoney(1000 JPY) = %v, want 6.8 USD", got.Decimal())
	}
}

func TestSetRate(t *testing.T) {
	table := NewConversionTable()
	if err := table.SetRate(USD, EUR, dec("0.9")); err != nil {
		t.Fatalf("SetRate() error = %v", err)
	}
	if r, ok := table.Rate(USD, EUR); !ok || !r.Equal(dec("0.9")) {
		t.Errorf("Rate(USD, EUR) = %v, %v", r, ok)
	}
	if _, ok := table.Rate(EUR, USD); ok {
		t.Errorf("SetRate() must not set the inverse")
	}
	if r, ok := table.Rate(GBP, GBP); !ok || !r.Equal(dec("1")) {
		t.Errorf("Rate(GBP, GBP) = %v, %v", r, ok)
	}

	for _, tt := range []struct {
		from, to Currency
		rate     string
	}{
		{USD, USD, "2"},
		{USD, EUR, "0"},
		{USD, EUR, "-1"},
		{USD, Currency(7), "1"},
	} {
		if err := table.SetRate(tt.from, tt.to, dec(tt.rate)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("SetRate(%v, %v, %s) error = %v, want ErrInvalidInput", tt.from, tt.to, tt.rate, err)
		}
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestPairs_Sorted(t *testing.T) {
	table := NewConversionTable()
	table.SetRate(CHF, USD, dec("1.13"))
	table.SetRate(USD, EUR, dec("0.91"))
	table.SetRate(EUR, USD, dec("1.1"))

	var got []Pair
	for p := range table.Pairs() {
		got = append(got, p)
	}
	want := []Pair{{USD, EUR}, {EUR, USD}, {CHF, USD}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Pairs() mismatch (-want +got):\n%s", diff)
	}
}

func TestInconsistencies(t *testing.T) {
	table := NewConversionTable()
	table.SetRate(USD, EUR, dec("0.91"))
	table.SetRate(EUR, USD, dec("1.1")) // 1.001
	table.SetRate(USD, GBP, dec("0.8"))
	table.SetRate(GBP, USD, dec("2")) // 1.6
	table.SetRate(USD, JPY, dec("147"))

	got := table.Inconsistencies(dec("0.01"))
	if len(got) != 1 || got[0].Pair != (Pair{USD, GBP}) {
		t.Fatalf("Inconsistencies() = %v, want USD/GBP only", got)
	}
	if !got[0].Product().Equal(dec("1.6")) {
		t.Errorf("Product() = %v, want 1.6", got[0].Product())
	}
}

func TestMerge(t *testing.T) {
	a := DefaultConversionTable()
	b := NewConversionTable()
	b.SetRate(USD, EUR, dec("0.5"))
	b.SetRate(EUR, GBP, dec("0.85"))
	a.Merge(b)
	a.Merge(a)
	if r, _ := a.Rate(USD, EUR); !r.Equal(dec("0.5")) {
		t.Errorf("Rate(USD, EUR) = %v, want 0.5", r)
	}
	if a.Len() != 9 {
		t.Errorf("Len() = %d, want 9", a.Len())
	}
}

// fakeSource is a RateSource returning fixed rates.
type fakeSource struct {
	rates map[Currency]decimal.Decimal
	err   error
	calls int
}

func (f *fakeSource) Latest(ctx context.Context, base Currency, symbols []Currency) (map[Currency]decimal.Decimal, error) {
	f.calls++
	return f.rates, f.err
}

func TestFetchRemote(t *testing.T) {
	table := NewConversionTable()
	src := &fakeSource{rates: map[Currency]decimal.Decimal{
		USD: dec("1"),
		EUR: dec("0.8"),
		GBP: dec("-1"), // ignored
		JPY: dec("150"),
	}}

	n, err := table.FetchRemote(context.Background(), src, USD, []Currency{USD, EUR, GBP, CHF})
	if err != nil {
		t.Fatalf("FetchRemote() error = %v", err)
	}
	if n != 1 {
		t.Errorf("FetchRemote() = %d, want 1", n)
	}
	if r, ok := table.Rate(USD, EUR); !ok || !r.Equal(dec("0.8")) {
		t.Errorf("Rate(USD, EUR) = %v, %v", r, ok)
	}
	if r, ok := table.Rate(EUR, USD); !ok || !r.Equal(dec("1.25")) {
		t.Errorf("Rate(EUR, USD) = %v, %v", r, ok)
	}
	// JPY was not asked for, GBP is invalid
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestFetchRemote_Failure(t *testing.T) {
	table := DefaultConversionTable()
	src := &fakeSource{err: errors.New("connection refused")}

	n, err := table.FetchRemote(context.Background(), src, USD, Currencies())
	if n != 0 || !errors.Is(err, ErrFeed) {
		t.Fatalf("FetchRemote() = %d, %v; want 0, ErrFeed", n, err)
	}
	var ferr *FeedError
	if !errors.As(err, &ferr) || ferr.Err.Error() != "connection refused" {
		t.Errorf("FetchRemote() error = %v, want a *FeedError", err)
	}
	if table.Len() != 8 {
		t.Errorf("a failed fetch modified the table: Len() = %d", table.Len())
	}
}

func TestConversionTable_Concurrent(t *testing.T) {
	table := DefaultConversionTable()
	src := &fakeSource{rates: map[Currency]decimal.Decimal{EUR: dec("0.9"), GBP: dec("0.75")}}
	l := coffeeAndRent()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			table.FetchRemote(context.Background(), &fakeSource{rates: src.rates}, USD, Currencies())
		}()
		go func() {
			defer wg.Done()
			l.Total(table, "", EUR)
		}()
	}
	wg.Wait()
	if r, _ := table.Rate(USD, EUR); !r.Equal(dec("0.9")) {
		t.Errorf("Rate(USD, EUR) = %v, want 0.9", r)
	}
}
