package budget

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// this file contains the CSV import/export format of transactions.
//
// It is a comma separated file with a header line:
//
//	date,description,amount,currency,category,recurring
//	2024-05-01,Coffee,3.5,USD,Food,false
//
// It should remain easy to edit in a spreadsheet.
//
// Currency codes are read case insensitively ("eur" is EUR), unknown codes
// are read as USD. Line breaks inside quoted fields are read back as "\n":
// a description containing "\r\n" does not survive a round trip unchanged.

var csvHeader = []string{"date", "description", "amount", "currency", "category", "recurring"}

// ExportCSV writes the transactions to w, in order, after a header line.
func ExportCSV(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			tx.Date.String(),
			tx.Description,
			tx.Amount.String(),
			tx.Currency.String(),
			tx.Category,
			strconv.FormatBool(tx.Recurring),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// ImportCSV reads transactions from r and appends them to l one by one. The
// first line is always skipped as a header.
//
// An unknown currency code is read as USD. The first record with an invalid
// date, amount, recurring flag or number of fields stops the import with an
// *ImportError; the transactions of the previous records remain appended.
// It returns the number of transactions appended.
func ImportCSV(r io.Reader, l *Ledger) (int, error) {
	appended := 0
	err := readCSV(r, func(tx Transaction) {
		l.Add(tx)
		appended++
	})
	var ierr *ImportError
	if errors.As(err, &ierr) {
		ierr.Appended = appended
	}
	return appended, err
}

// ImportCSVAtomic is like ImportCSV but appends the transactions only if all
// the records are valid.
func ImportCSVAtomic(r io.Reader, l *Ledger) (int, error) {
	var txs []Transaction
	if err := readCSV(r, func(tx Transaction) { txs = append(txs, tx) }); err != nil {
		return 0, err
	}
	l.Add(txs...)
	return len(txs), nil
}

// readCSV parses r and calls add for each valid record, stopping at the
// first invalid one.
func readCSV(r io.Reader, add func(Transaction)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // checked per record to report the line

	header := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return &ImportError{Line: perr.StartLine, Err: perr.Err}
			}
			return &ImportError{Err: err}
		}
		line, _ := cr.FieldPos(0)
		if header {
			header = false
			continue
		}
		tx, field, err := parseRecord(record)
		if err != nil {
			return &ImportError{Line: line, Field: field, Err: err}
		}
		add(tx)
	}
}

// parseRecord converts a CSV record into a transaction. On error it returns
// the name of the invalid field, "" if the record itself is invalid.
func parseRecord(record []string) (Transaction, string, error) {
	if len(record) != len(csvHeader) {
		return Transaction{}, "", fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}
	day, err := ParseDate(record[0])
	if err != nil {
		return Transaction{}, "date", err
	}
	amount, err := parseAmount(record[2])
	if err != nil {
		return Transaction{}, "amount", err
	}
	cur, err := ParseCurrency(record[3])
	if err != nil {
		cur = USD
	}
	recurring, err := parseBool(record[5])
	if err != nil {
		return Transaction{}, "recurring", err
	}
	return NewTransaction(day, record[1], amount, record[4], recurring, cur), "", nil
}

// parseBool accepts only "true" and "false", in any case.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%q is neither true nor false", s)
}
