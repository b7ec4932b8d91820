package budget

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// Pair is a directed currency pair: a rate for Pair{From, To} converts an
// amount in From into an amount in To.
type Pair struct {
	From, To Currency
}

func (p Pair) String() string { return p.From.String() + "/" + p.To.String() }

// Converter converts amounts between currencies.
type Converter interface {
	Convert(amount decimal.Decimal, from, to Currency) decimal.Decimal
}

// RateSource provides the latest rates from base to each of symbols.
//
// Currencies missing from the result are simply not updated.
type RateSource interface {
	Latest(ctx context.Context, base Currency, symbols []Currency) (map[Currency]decimal.Decimal, error)
}

// ConversionTable holds directed exchange rates.
//
// rate(a, a) is always 1 and is never stored. rate(a, b) and rate(b, a) are
// independent values: nothing forces their product to be 1.
//
// A ConversionTable is safe for concurrent use.
type ConversionTable struct {
	mu    sync.RWMutex
	rates map[Pair]decimal.Decimal
}

// NewConversionTable returns an empty table.
func NewConversionTable() *ConversionTable {
	return &ConversionTable{rates: make(map[Pair]decimal.Decimal)}
}

// DefaultConversionTable returns a table seeded with approximate rates
// between USD and the other currencies.
func DefaultConversionTable() *ConversionTable {
	t := NewConversionTable()
	seed := []struct {
		from, to Currency
		rate     string
	}{
		{EUR, USD, "1.1"},
		{USD, EUR, "0.91"},
		{GBP, USD, "1.25"},
		{USD, GBP, "0.8"},
		{JPY, USD, "0.0068"},
		{USD, JPY, "147"},
		{CHF, USD, "1.13"},
		{USD, CHF, "0.88"},
	}
	for _, s := range seed {
		t.rates[Pair{s.from, s.to}] = decimal.RequireFromString(s.rate)
	}
	return t
}

// Convert returns amount expressed in 'to'.
//
// When from == to, or when no rate is known for the pair, amount is returned
// unchanged. A missing rate is not an error.
func (t *ConversionTable) Convert(amount decimal.Decimal, from, to Currency) decimal.Decimal {
	if from == to {
		return amount
	}
	rate, ok := t.Rate(from, to)
	if !ok {
		return amount
	}
	return amount.Mul(rate)
}

// ConvertMoney converts m into 'to'. See Convert for the missing rate case.
func (t *ConversionTable) ConvertMoney(m Money, to Currency) Money {
	return M(t.Convert(m.Decimal(), m.Currency(), to), to)
}

// Rate returns the stored rate for the pair. rate(a, a) is 1.
func (t *ConversionTable) Rate(from, to Currency) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	rate, ok := t.rates[Pair{from, to}]
	return rate, ok
}

// SetRate stores the rate for one direction. The inverse is not modified.
func (t *ConversionTable) SetRate(from, to Currency, rate decimal.Decimal) error {
	if from == to {
		return &InputError{Field: "rate", Value: rate.String(), Msg: fmt.Sprintf("The rate from %v to itself is always 1.", from)}
	}
	if !from.Valid() || !to.Valid() {
		return &InputError{Field: "currency", Value: Pair{from, to}.String(), Msg: "Unsupported currency."}
	}
	if !rate.IsPositive() {
		return &InputError{Field: "rate", Value: rate.String(), Msg: "Rate must be a positive number."}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rates[Pair{from, to}] = rate
	return nil
}

// Len returns the number of stored rates.
func (t *ConversionTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rates)
}

// Pairs iterates over the stored rates ordered by pair.
//
// The iteration works on a snapshot, the table can be modified meanwhile.
func (t *ConversionTable) Pairs() iter.Seq2[Pair, decimal.Decimal] {
	t.mu.RLock()
	snapshot := maps.Clone(t.rates)
	t.mu.RUnlock()

	return func(yield func(Pair, decimal.Decimal) bool) {
		pairs := slices.SortedFunc(maps.Keys(snapshot), comparePairs)
		for _, p := range pairs {
			if !yield(p, snapshot[p]) {
				return
			}
		}
	}
}

func comparePairs(a, b Pair) int {
	if a.From != b.From {
		return int(a.From) - int(b.From)
	}
	return int(a.To) - int(b.To)
}

// Merge stores every rate of o into t, overwriting existing ones.
func (t *ConversionTable) Merge(o *ConversionTable) {
	if t == o {
		return
	}
	o.mu.RLock()
	snapshot := maps.Clone(o.rates)
	o.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	maps.Copy(t.rates, snapshot)
}

// Inconsistency is a pair whose rate and inverse rate do not multiply to 1.
type Inconsistency struct {
	Pair
	Rate, Inverse decimal.Decimal
}

// Product returns rate * inverse.
func (i Inconsistency) Product() decimal.Decimal { return i.Rate.Mul(i.Inverse) }

// Inconsistencies lists the pairs (once per unordered pair) for which both
// directions are stored and |rate*inverse - 1| > tolerance.
func (t *ConversionTable) Inconsistencies(tolerance decimal.Decimal) []Inconsistency {
	var res []Inconsistency
	one := decimal.NewFromInt(1)
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, from := range Currencies() {
		for _, to := range Currencies() {
			if to <= from {
				continue
			}
			r, ok := t.rates[Pair{from, to}]
			if !ok {
				continue
			}
			inv, ok := t.rates[Pair{to, from}]
			if !ok {
				continue
			}
			if r.Mul(inv).Sub(one).Abs().GreaterThan(tolerance) {
				res = append(res, Inconsistency{Pair: Pair{from, to}, Rate: r, Inverse: inv})
			}
		}
	}
	return res
}

// FetchRemote updates the table with the latest rates from base to the
// supported currencies.
//
// The source is queried without holding the lock. On failure the table is
// left untouched and a *FeedError is returned. On success, for every
// currency X other than base that is both supported and in the response,
// rate(base, X) = r and rate(X, base) = 1/r are stored in a single update.
// It returns the number of currencies updated.
func (t *ConversionTable) FetchRemote(ctx context.Context, src RateSource, base Currency, supported []Currency) (int, error) {
	latest, err := src.Latest(ctx, base, supported)
	if err != nil {
		return 0, &FeedError{Err: err}
	}

	updates := make(map[Pair]decimal.Decimal)
	count := 0
	for _, c := range supported {
		if c == base {
			continue
		}
		r, ok := latest[c]
		if !ok || !r.IsPositive() {
			continue
		}
		updates[Pair{base, c}] = r
		updates[Pair{c, base}] = decimal.NewFromInt(1).DivRound(r, 16)
		count++
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	maps.Copy(t.rates, updates)
	return count, nil
}
