package budget

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in one of the supported currencies.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   Currency
}

// M creates a Money from any numeric value.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency Currency) Money {
	return Money{value: newDecimal(value), cur: currency}
}

func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	}
	return decimal.Zero
}

// String returns the string representation of the money value, with its
// currency symbol and the currency's number of fraction digits.
//
// Values beyond what go-money can format (int64 minor units) are written as
// plain decimals followed by the currency code.
func (m Money) String() string {
	cur := m.cur.info()
	minor := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	if !minor.BigInt().IsInt64() {
		return m.value.StringFixed(int32(cur.Fraction)) + " " + m.cur.String()
	}
	return cur.Formatter().Format(minor.IntPart())
}

// Simple accessors and operators.

func (m Money) Currency() Currency        { return m.cur }
func (m Money) Decimal() decimal.Decimal  { return m.value }
func (m Money) Equal(n Money) bool        { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool              { return m.value.IsZero() }
func (m Money) IsPositive() bool          { return m.value.IsPositive() }
func (m Money) IsNegative() bool          { return m.value.IsNegative() }
func (m Money) GreaterThan(n Money) bool  { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Add(n Money) Money         { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money         { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) InexactFloat64() float64   { return m.value.InexactFloat64() }

// cur checks that both operands share a currency.
func cur(a, b Money) Currency {
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur.String() + "!=" + b.cur.String())
	}
	return a.cur
}
