package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgercore/internal/model"
)

// usage is a UsageChecker backed by a set of referenced IDs.
type usage map[string]bool

func (u usage) References(id string) bool { return u[id] }

func TestNewService(t *testing.T) {
	chart := DefaultChart("trading")
	svc := NewService(chart)

	assert.Len(t, svc.All(), len(chart))
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart("trading")
	again := DefaultChart("trading")
	require.NotEmpty(t, chart)

	codes := make(map[string]bool)
	for i, acct := range chart {
		assert.NotEmpty(t, acct.ID)
		assert.Equal(t, acct.ID, again[i].ID, "IDs are stable across calls")
		assert.False(t, codes[acct.Code], "duplicate code %s", acct.Code)
		codes[acct.Code] = true
	}
	assert.True(t, codes["10000"], "expected Bank")
	assert.True(t, codes["11000"], "expected Accounts Receivable")

	assert.NotEmpty(t, DefaultChart("service"))
	assert.Equal(t, len(chart), len(DefaultChart("unknown")), "unknown entity types fall back to trading")
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultChart("trading"))

	bank, ok := svc.GetByCode("10000")
	require.True(t, ok)
	assert.Equal(t, "Bank", bank.Name)

	got, ok := svc.Get(bank.ID)
	assert.True(t, ok)
	assert.Equal(t, bank, got)

	_, ok = svc.Get("missing")
	assert.False(t, ok)
	assert.True(t, svc.Exists(bank.ID))
	assert.False(t, svc.Exists("missing"))
}

func TestByType(t *testing.T) {
	svc := NewService(DefaultChart("trading"))

	liabilities := svc.ByType(model.AccountTypeLiability)
	assert.Len(t, liabilities, 3)
	for _, a := range liabilities {
		assert.Equal(t, model.AccountTypeLiability, a.Type)
	}
	assert.Equal(t, "20000", liabilities[0].Code, "sorted by code")
}

func TestAdd(t *testing.T) {
	svc := NewService(nil)

	a, err := svc.Add(model.Account{Code: "10000", Name: "Bank", Type: model.AccountTypeAsset})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID, "ID assigned")

	_, err = svc.Add(model.Account{Code: "10000", Name: "Other", Type: model.AccountTypeAsset})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Add(model.Account{ID: a.ID, Code: "10001", Name: "Other", Type: model.AccountTypeAsset})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Add(model.Account{Code: "10002", Name: "Other", Type: "cash"})
	assert.Error(t, err)

	_, err = svc.Add(model.Account{Code: "", Name: "Nameless", Type: model.AccountTypeAsset})
	assert.Error(t, err)
}

func TestUpdate_TypeLockedOnceReferenced(t *testing.T) {
	svc := NewService(nil)
	a, err := svc.Add(model.Account{Code: "40000", Name: "Sales", Type: model.AccountTypeIncome})
	require.NoError(t, err)

	changed := a
	changed.Type = model.AccountTypeLiability

	err = svc.Update(changed, usage{a.ID: true})
	assert.ErrorIs(t, err, ErrTypeLocked)
	got, _ := svc.Get(a.ID)
	assert.Equal(t, model.AccountTypeIncome, got.Type, "rejected update leaves account untouched")

	renamed := a
	renamed.Name = "Product Sales"
	require.NoError(t, svc.Update(renamed, usage{a.ID: true}), "renaming stays allowed")

	require.NoError(t, svc.Update(changed, usage{}), "type change allowed while unreferenced")
	got, _ = svc.Get(a.ID)
	assert.Equal(t, model.AccountTypeLiability, got.Type)

	err = svc.Update(model.Account{ID: "missing", Code: "1", Name: "x", Type: model.AccountTypeAsset}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	svc := NewService(DefaultChart("trading"))
	bank, _ := svc.GetByCode("10000")
	cash, _ := svc.GetByCode("10100")

	err := svc.Remove(bank.ID, usage{bank.ID: true})
	assert.ErrorIs(t, err, ErrInUse)

	require.NoError(t, svc.Remove(cash.ID, usage{bank.ID: true}))
	assert.False(t, svc.Exists(cash.ID))
	assert.True(t, svc.Exists(bank.ID), "index rebuilt after removal")

	assert.ErrorIs(t, svc.Remove(cash.ID, nil), ErrNotFound)
}

func TestSaveRoundTrip(t *testing.T) {
	chart := DefaultChart("trading")
	chart[0].OpeningBalance = decimal.NewFromInt(500)
	svc := NewService(chart)

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	_, err := os.Stat(filepath.Join(dir, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)

	svc2, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc2.All(), len(chart))

	for _, orig := range chart {
		got, ok := svc2.Get(orig.ID)
		require.True(t, ok, "account %s should exist", orig.Code)
		assert.Equal(t, orig.Name, got.Name)
		assert.Equal(t, orig.Type, got.Type)
		assert.True(t, orig.OpeningBalance.Equal(got.OpeningBalance))
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpeningImbalance(t *testing.T) {
	accts := []model.Account{
		{Type: model.AccountTypeAsset, OpeningBalance: decimal.NewFromInt(1000)},
		{Type: model.AccountTypeLiability, OpeningBalance: decimal.NewFromInt(400)},
		{Type: model.AccountTypeEquity, OpeningBalance: decimal.NewFromInt(600)},
	}
	assert.True(t, OpeningImbalance(accts).IsZero())

	accts[2].OpeningBalance = decimal.NewFromInt(500)
	assert.True(t, OpeningImbalance(accts).Equal(decimal.NewFromInt(100)))
}
