package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// this file contains the ledger document format.
//
// A ledger is one JSON object:
//
//	{
//	  "transactions": [{"date":"2024-05-01","description":"Coffee","amount":3.5,"category":"Food","recurring":false,"currency":"USD"}],
//	  "budget": {"monthly_limits": {"Food": {"amount":200,"currency":"EUR"}}},
//	  "last_profile": null
//	}
//
// Decoding is lenient: unknown fields are ignored and each field falls back
// to its default when missing or invalid.

// MarshalJSON writes the transaction fields in a stable order.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", tx.Date)
	w.Append("description", tx.Description)
	w.Append("amount", tx.Amount)
	w.Append("category", tx.Category)
	w.Append("recurring", tx.Recurring)
	w.Append("currency", tx.Currency)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a transaction. The date and amount are mandatory, the
// other fields default to their zero value, and the currency to USD.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("transaction is null")
	}

	var t Transaction
	if err := json.Unmarshal(fields["date"], &t.Date); err != nil {
		return fmt.Errorf("invalid transaction date: %w", err)
	}
	if err := json.Unmarshal(fields["amount"], &t.Amount); err != nil {
		return fmt.Errorf("invalid transaction amount: %w", err)
	}
	optional(fields["description"], &t.Description)
	optional(fields["category"], &t.Category)
	optional(fields["recurring"], &t.Recurring)
	optional(fields["currency"], &t.Currency)
	*tx = t
	return nil
}

// MarshalJSON writes the budget as {"amount":...,"currency":...}.
func (b CategoryBudget) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", b.Amount)
	w.Append("currency", b.Currency)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a budget. The amount is mandatory, the currency
// defaults to USD.
func (b *CategoryBudget) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var v CategoryBudget
	if err := json.Unmarshal(fields["amount"], &v.Amount); err != nil {
		return fmt.Errorf("invalid budget amount: %w", err)
	}
	optional(fields["currency"], &v.Currency)
	*b = v
	return nil
}

// optional decodes raw into v, leaving v untouched when raw is missing or invalid.
func optional[T any](raw json.RawMessage, v *T) {
	if len(raw) == 0 {
		return
	}
	var tmp T
	if err := json.Unmarshal(raw, &tmp); err != nil {
		return
	}
	*v = tmp
}

// DecodeLedger reads a ledger document from r.
//
// It returns an error only when r cannot be read or does not contain a JSON
// object. Records that cannot be decoded (a transaction without a valid date
// or amount, a budget without a valid amount) are dropped and counted.
func DecodeLedger(r io.Reader) (ledger *Ledger, dropped int, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading from input: %w", err)
	}

	var doc struct {
		Transactions json.RawMessage `json:"transactions"`
		Budget       json.RawMessage `json:"budget"`
		LastProfile  json.RawMessage `json:"last_profile"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("malformed ledger document: %w", err)
	}

	ledger = NewLedger()

	var transactions []json.RawMessage
	if err := json.Unmarshal(doc.Transactions, &transactions); err != nil && len(doc.Transactions) > 0 {
		dropped++
	}
	for _, raw := range transactions {
		var tx Transaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			dropped++
			continue
		}
		ledger.Add(tx)
	}

	var budget struct {
		MonthlyLimits map[string]json.RawMessage `json:"monthly_limits"`
	}
	if err := json.Unmarshal(doc.Budget, &budget); err != nil && len(doc.Budget) > 0 {
		dropped++
	}
	for category, raw := range budget.MonthlyLimits {
		var b CategoryBudget
		if err := json.Unmarshal(raw, &b); err != nil {
			dropped++
			continue
		}
		ledger.SetBudget(category, b)
	}

	optional(doc.LastProfile, &ledger.lastProfile)

	return ledger, dropped, nil
}

// EncodeLedger writes the ledger to w as an indented JSON document.
//
// Transactions are written in ledger order, budgets ordered by category.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	type budget struct {
		MonthlyLimits map[string]CategoryBudget `json:"monthly_limits"`
	}
	doc := struct {
		Transactions []Transaction `json:"transactions"`
		Budget       budget        `json:"budget"`
		LastProfile  *string       `json:"last_profile"`
	}{
		Transactions: ledger.transactions,
		Budget:       budget{MonthlyLimits: ledger.budgets},
	}
	if doc.Transactions == nil {
		doc.Transactions = []Transaction{}
	}
	if doc.Budget.MonthlyLimits == nil {
		doc.Budget.MonthlyLimits = map[string]CategoryBudget{}
	}
	if ledger.lastProfile != "" {
		doc.LastProfile = &ledger.lastProfile
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}
