package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/id"
	"github.com/cleared-dev/ledgercore/internal/model"
)

var (
	// ErrNotFound is returned when an account ID is not in the chart.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicate is returned when an ID or code is already taken.
	ErrDuplicate = errors.New("duplicate account")
	// ErrTypeLocked is returned when changing the type of an account that
	// transactions already post to.
	ErrTypeLocked = errors.New("account type cannot change once transactions reference the account")
	// ErrInUse is returned when removing an account that transactions post to.
	ErrInUse = errors.New("account is referenced by transactions")
)

// UsageChecker reports whether any transaction posts to an account.
type UsageChecker interface {
	References(accountID string) bool
}

// Service holds the chart of accounts in memory. It is safe for concurrent use.
type Service struct {
	mu       sync.RWMutex
	accounts []model.Account
	byID     map[string]int
}

// NewService creates a Service from a slice of accounts.
// Later duplicates of an ID replace earlier ones.
func NewService(accounts []model.Account) *Service {
	s := &Service{byID: make(map[string]int, len(accounts))}
	for _, a := range accounts {
		if i, ok := s.byID[a.ID]; ok {
			s.accounts[i] = a
			continue
		}
		s.byID[a.ID] = len(s.accounts)
		s.accounts = append(s.accounts, a)
	}
	return s
}

// ChartPath returns the chart-of-accounts location under a project root.
func ChartPath(repoRoot string) string {
	return filepath.Join(repoRoot, "accounts", "chart-of-accounts.csv")
}

// Load reads chart-of-accounts.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	path := ChartPath(repoRoot)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns a copy of all accounts sorted by code.
func (s *Service) All() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.accounts)
	slices.SortStableFunc(out, func(a, b model.Account) int {
		return strings.Compare(a.Code, b.Code)
	})
	return out
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// GetByCode returns an account by its code.
func (s *Service) GetByCode(code string) (model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Code == code {
			return a, true
		}
	}
	return model.Account{}, false
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// ByType returns all accounts of the given type, sorted by code.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.All() {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Add admits a new account. An empty ID is assigned a fresh one.
func (s *Service) Add(a model.Account) (model.Account, error) {
	if err := checkAccount(a); err != nil {
		return model.Account{}, err
	}
	if a.ID == "" {
		a.ID = id.NewAccountID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[a.ID]; ok {
		return model.Account{}, fmt.Errorf("%w: id %s", ErrDuplicate, a.ID)
	}
	if s.codeTaken(a.Code, "") {
		return model.Account{}, fmt.Errorf("%w: code %s", ErrDuplicate, a.Code)
	}
	s.byID[a.ID] = len(s.accounts)
	s.accounts = append(s.accounts, a)
	return a, nil
}

// Update replaces an existing account. The type may only change while no
// transaction references the account; changing it afterwards would silently
// flip the sign convention of every historical report.
func (s *Service) Update(a model.Account, usage UsageChecker) error {
	if err := checkAccount(a); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[a.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, a.ID)
	}
	if s.codeTaken(a.Code, a.ID) {
		return fmt.Errorf("%w: code %s", ErrDuplicate, a.Code)
	}
	if s.accounts[i].Type != a.Type && usage != nil && usage.References(a.ID) {
		return fmt.Errorf("%w: %s (%s -> %s)", ErrTypeLocked, a.Code, s.accounts[i].Type, a.Type)
	}
	s.accounts[i] = a
	return nil
}

// Remove deletes an account that no transaction references.
func (s *Service) Remove(accountID string, usage UsageChecker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[accountID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	if usage != nil && usage.References(accountID) {
		return fmt.Errorf("%w: %s", ErrInUse, s.accounts[i].Code)
	}
	s.accounts = slices.Delete(s.accounts, i, i+1)
	s.byID = make(map[string]int, len(s.accounts))
	for j, a := range s.accounts {
		s.byID[a.ID] = j
	}
	return nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	path := ChartPath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.All()); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

// OpeningImbalance returns debit-normal openings minus credit-normal openings.
// A consistent chart nets to zero.
func OpeningImbalance(accounts []model.Account) decimal.Decimal {
	net := decimal.Zero
	for _, a := range accounts {
		if a.Type.DebitNormal() {
			net = net.Add(a.OpeningBalance)
		} else {
			net = net.Sub(a.OpeningBalance)
		}
	}
	return net
}

func (s *Service) codeTaken(code, exceptID string) bool {
	for _, a := range s.accounts {
		if a.Code == code && a.ID != exceptID {
			return true
		}
	}
	return false
}

func checkAccount(a model.Account) error {
	if strings.TrimSpace(a.Code) == "" {
		return errors.New("account code is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("account %s: name is required", a.Code)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("account %s: invalid type %q", a.Code, a.Type)
	}
	return nil
}
