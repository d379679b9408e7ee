package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cleared-dev/ledgercore/internal/id"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// ErrNotFound is returned when an entry ID is not in the journal.
var ErrNotFound = errors.New("entry not found")

const (
	journalDir  = "journal"
	journalFile = "journal.csv"
)

// Service holds the journal in memory and admits only valid entries.
// It is safe for concurrent use; readers receive copies.
type Service struct {
	mu       sync.RWMutex
	accounts AccountChecker
	txns     []model.Transaction
}

// NewService creates a journal Service over existing entries. The entries
// are not revalidated; use ValidateJournal for that.
func NewService(accounts AccountChecker, txns []model.Transaction) *Service {
	s := &Service{accounts: accounts}
	for _, tx := range txns {
		s.txns = append(s.txns, normalize(tx))
	}
	return s
}

// Load reads every journal/YYYY/MM/journal.csv under repoRoot.
func Load(repoRoot string, accounts AccountChecker) (*Service, error) {
	paths, err := monthFiles(repoRoot)
	if err != nil {
		return nil, err
	}

	var all []model.Transaction
	for _, path := range paths {
		txns, err := readFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return NewService(accounts, all), nil
}

// Add validates tx, assigns it the next entry ID for its month and admits it.
func (s *Service) Add(tx model.Transaction) (string, error) {
	tx = normalize(tx)

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.txns))
	for i, t := range s.txns {
		ids[i] = t.ID
	}
	tx.ID = id.NextEntryID(ids, tx.Date)

	if verrs := ValidateTransaction(tx, s.accounts); len(verrs) > 0 {
		return "", verrs
	}
	s.txns = append(s.txns, tx)
	return tx.ID, nil
}

// Update validates tx and replaces the entry with the same ID.
func (s *Service) Update(tx model.Transaction) error {
	tx = normalize(tx)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(tx.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, tx.ID)
	}
	if verrs := ValidateTransaction(tx, s.accounts); len(verrs) > 0 {
		return verrs
	}
	s.txns[i] = tx
	return nil
}

// Remove deletes an entry.
func (s *Service) Remove(entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(entryID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}
	s.txns = slices.Delete(s.txns, i, i+1)
	return nil
}

// Get returns a copy of one entry.
func (s *Service) Get(entryID string) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(entryID)
	if i < 0 {
		return model.Transaction{}, false
	}
	return s.txns[i].Clone(), true
}

// All returns a snapshot of every entry sorted by date, then ID.
func (s *Service) All() []model.Transaction {
	s.mu.RLock()
	out := make([]model.Transaction, len(s.txns))
	for i, tx := range s.txns {
		out[i] = tx.Clone()
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// References reports whether any entry posts to accountID.
func (s *Service) References(accountID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.txns {
		if tx.Touches(accountID) {
			return true
		}
	}
	return false
}

// Save writes the journal split by month and removes month files that no
// longer hold any entry.
func (s *Service) Save(repoRoot string) error {
	byMonth := make(map[string][]model.Transaction)
	for _, tx := range s.All() {
		path := monthPath(repoRoot, tx.Date.Year(), int(tx.Date.Month()))
		byMonth[path] = append(byMonth[path], tx)
	}

	for path, txns := range byMonth {
		if err := writeFile(path, txns); err != nil {
			return err
		}
	}

	existing, err := monthFiles(repoRoot)
	if err != nil {
		return err
	}
	for _, path := range existing {
		if _, ok := byMonth[path]; ok {
			continue
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing stale journal %s: %w", path, err)
		}
	}
	return nil
}

func (s *Service) indexOf(entryID string) int {
	return slices.IndexFunc(s.txns, func(tx model.Transaction) bool { return tx.ID == entryID })
}

func normalize(tx model.Transaction) model.Transaction {
	tx = tx.Clone()
	tx.Date = model.Day(tx.Date)
	tx.DueDate = model.Day(tx.DueDate)
	tx.Description = strings.TrimSpace(tx.Description)
	tx.Contact = strings.TrimSpace(tx.Contact)
	return tx
}

func monthPath(repoRoot string, year, month int) string {
	return filepath.Join(repoRoot, journalDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), journalFile)
}

func monthFiles(repoRoot string) ([]string, error) {
	root := filepath.Join(repoRoot, journalDir)
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == journalFile {
			paths = append(paths, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning journal: %w", err)
	}
	slices.Sort(paths)
	return paths, nil
}

func readFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return txns, nil
}

func writeFile(path string, txns []model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating journal %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteTransactions(f, txns); err != nil {
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	return nil
}
