package budget

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChrisSch-dev/budget-tracking-app/logger"
	"go.uber.org/zap"
)

// LoadStatus tells which outcome a load had.
type LoadStatus int

const (
	Loaded     LoadStatus = iota // the file was read and decoded
	NoPath                       // no path was given, the ledger is empty
	Missing                      // the file does not exist, the ledger is empty
	Unreadable                   // the file exists but could not be read
	Malformed                    // the file was read but is not a ledger document
)

func (s LoadStatus) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case NoPath:
		return "no path"
	case Missing:
		return "missing"
	case Unreadable:
		return "unreadable"
	case Malformed:
		return "malformed"
	}
	return fmt.Sprintf("LoadStatus(%d)", int(s))
}

// LoadResult describes what happened when a ledger file was loaded.
//
// Loading never fails: the result is the only way to know that the ledger
// fell back to an empty one.
type LoadResult struct {
	Path    string
	Status  LoadStatus
	Err     error // the underlying error, nil when Loaded or NoPath
	Dropped int   // records skipped by the lenient decoder
}

// OK reports whether the ledger content comes from the file, or whether no
// file was asked for.
func (r LoadResult) OK() bool { return r.Status == Loaded || r.Status == NoPath }

// Store owns a ledger and the path it is persisted at.
//
// The zero value is not usable, use LoadOrDefault.
type Store struct {
	path string
	data *Ledger
	log  *zap.Logger
}

// LoadOrDefault creates a store for the file at path.
//
// An empty path gives an empty ledger without active path. Otherwise path
// becomes the active path, and the ledger is loaded from it if possible, or
// is empty.
func LoadOrDefault(path string) (*Store, LoadResult) {
	s := &Store{
		data: NewLedger(),
		log:  logger.Named("store"),
	}
	if path == "" {
		return s, LoadResult{Status: NoPath}
	}
	s.path = path
	ledger, res := readLedgerFile(path)
	if ledger != nil {
		s.data = ledger
	}
	s.logResult(res)
	return s, res
}

// Load makes path the active path and reads it.
//
// If the file cannot be read the current ledger is kept. If it can be read
// but is not a ledger document, the ledger is reset to an empty one.
func (s *Store) Load(path string) LoadResult {
	s.path = path
	if path == "" {
		return LoadResult{Status: NoPath}
	}
	ledger, res := readLedgerFile(path)
	switch {
	case ledger != nil:
		s.data = ledger
	case res.Status == Malformed:
		s.data = NewLedger()
	}
	s.logResult(res)
	return res
}

// readLedgerFile returns the ledger stored at path, or nil.
func readLedgerFile(path string) (*Ledger, LoadResult) {
	res := LoadResult{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		res.Status = Unreadable
		if errors.Is(err, fs.ErrNotExist) {
			res.Status = Missing
		}
		return nil, res
	}
	ledger, dropped, err := DecodeLedger(bytes.NewReader(data))
	if err != nil {
		res.Err = err
		res.Status = Malformed
		return nil, res
	}
	res.Status = Loaded
	res.Dropped = dropped
	return ledger, res
}

func (s *Store) logResult(res LoadResult) {
	switch res.Status {
	case Loaded:
		s.log.Debug("ledger loaded", zap.String("path", res.Path), zap.Int("transactions", s.data.Len()))
		if res.Dropped > 0 {
			s.log.Warn("ledger records dropped", zap.String("path", res.Path), zap.Int("dropped", res.Dropped))
		}
	case Missing:
		s.log.Info("ledger file not found, starting empty", zap.String("path", res.Path))
	case Unreadable, Malformed:
		s.log.Warn("cannot load ledger", zap.String("path", res.Path), zap.Stringer("status", res.Status), zap.Error(res.Err))
	}
}

// Save writes the ledger to the active path, creating its directory if
// needed. Without active path it does nothing.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", s.path, err)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, s.data); err != nil {
		return fmt.Errorf("could not encode ledger %q: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not write ledger file %q: %w", s.path, err)
	}
	s.log.Debug("ledger saved", zap.String("path", s.path), zap.Int("transactions", s.data.Len()))
	return nil
}

// SaveAs makes path the active path and saves the ledger there.
func (s *Store) SaveAs(path string) error {
	s.path = path
	return s.Save()
}

// Reset empties the ledger and forgets the active path.
func (s *Store) Reset() {
	s.data = NewLedger()
	s.path = ""
}

// Path returns the active path, "" if none.
func (s *Store) Path() string { return s.path }

// ProfileName returns the name of the active file without its directory nor
// extension, or "None".
func (s *Store) ProfileName() string { return ProfileName(s.path) }

// ProfileName returns the profile name of a ledger file: its base name
// without extension, or "None" for the empty path.
func ProfileName(path string) string {
	if path == "" {
		return "None"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ledger returns the ledger data.
func (s *Store) Ledger() *Ledger { return s.data }

// ExportCSV writes all the transactions into a new CSV file at path.
func (s *Store) ExportCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create CSV file %q: %w", path, err)
	}
	defer f.Close()

	if err := ExportCSV(f, s.data.transactions); err != nil {
		return err
	}
	return f.Close()
}

// ImportCSV appends the transactions of the CSV file at path.
//
// See ImportCSV for the behavior on invalid rows.
func (s *Store) ImportCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open CSV file %q: %w", path, err)
	}
	defer f.Close()
	return ImportCSV(f, s.data)
}

// ImportCSVAtomic appends the transactions of the CSV file at path only if
// all its rows are valid.
func (s *Store) ImportCSVAtomic(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open CSV file %q: %w", path, err)
	}
	defer f.Close()
	return ImportCSVAtomic(f, s.data)
}
