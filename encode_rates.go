package budget

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// rates document is:
//
//	{"rates":[{"from":"USD","to":"EUR","rate":0.91}, ...]}

type jrate struct {
	From Currency        `json:"from"`
	To   Currency        `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

// EncodeRates writes the table to w, pairs in order.
func EncodeRates(w io.Writer, t *ConversionTable) error {
	doc := struct {
		Rates []jrate `json:"rates"`
	}{Rates: []jrate{}}
	for p, r := range t.Pairs() {
		doc.Rates = append(doc.Rates, jrate{From: p.From, To: p.To, Rate: r})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write rates: %w", err)
	}
	return nil
}

// DecodeRates reads a table written by EncodeRates.
//
// Unlike ledgers, rates are strict: an unknown currency, a pair to itself or
// a non positive rate is an error.
func DecodeRates(r io.Reader) (*ConversionTable, error) {
	var doc struct {
		Rates []jrate `json:"rates"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed rates document: %w", err)
	}
	t := NewConversionTable()
	for i, jr := range doc.Rates {
		if err := t.SetRate(jr.From, jr.To, jr.Rate); err != nil {
			return nil, fmt.Errorf("invalid rate #%d %v: %w", i, Pair{jr.From, jr.To}, err)
		}
	}
	return t, nil
}
