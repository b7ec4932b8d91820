package budget

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every *InputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIndexOutOfRange is returned when a transaction index does not exist.
	ErrIndexOutOfRange = errors.New("transaction index out of range")
	// ErrImportAborted is matched by every *ImportError.
	ErrImportAborted = errors.New("import aborted")
	// ErrFeed is matched by every *FeedError.
	ErrFeed = errors.New("rate feed failure")
)

// InputError reports text typed by a human that could not be understood.
// Msg is meant to be shown as is in a status line.
type InputError struct {
	Field string
	Value string
	Msg   string
	Err   error
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

// ImportError reports the CSV record that stopped an import.
//
// Appended counts the transactions added to the ledger before the failure.
type ImportError struct {
	Line     int    // 1-based line of the record in the CSV input, header included
	Field    string // empty when the record itself is malformed
	Appended int
	Err      error
}

func (e *ImportError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("CSV import failed at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("CSV import failed at line %d: invalid %s: %v", e.Line, e.Field, e.Err)
}

func (e *ImportError) Unwrap() []error { return []error{ErrImportAborted, e.Err} }

// FeedError reports a failure to obtain rates from a remote feed.
type FeedError struct {
	Err error
}

func (e *FeedError) Error() string { return fmt.Sprintf("cannot update exchange rates: %v", e.Err) }

func (e *FeedError) Unwrap() []error { return []error{ErrFeed, e.Err} }
