package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgercore/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz", "trading")
	cfg.Report.ShowZeroBalances = true
	cfg.Report.Currency = "EUR"
	cfg.Report.ExchangeRate = 0.92
	cfg.Mapping.Cash = []string{"Bank", "Petty Cash"}

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Business, got.Business)
	assert.Equal(t, cfg.Fiscal, got.Fiscal)
	assert.Equal(t, cfg.Report, got.Report)
	assert.Equal(t, cfg.Logging, got.Logging)
	assert.Equal(t, []string{"Bank", "Petty Cash"}, got.Mapping.Cash)
	assert.Equal(t, cfg.Mapping.WorkingCapital, got.Mapping.WorkingCapital)
}

func TestRoundTrip_EmptyMappingRole(t *testing.T) {
	cfg := Default("Consulting", "service")
	cfg.Mapping.Inventory = []string{}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)

	assert.NotNil(t, got.Mapping.Inventory)
	assert.Empty(t, got.Mapping.Inventory, "explicitly empty role is not refilled")
	assert.Equal(t, []string{"Cost of Goods Sold"}, got.Mapping.COGS)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company", "service")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "service", cfg.Business.EntityType)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "USD", cfg.Report.Currency)
	assert.InDelta(t, 1.0, cfg.Report.ExchangeRate, 0.0001)
	assert.True(t, cfg.Report.ShowAccountCodes)
	assert.False(t, cfg.Report.ShowZeroBalances)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"Accounts Receivable"}, cfg.Mapping.Receivables)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: Minimal\n  entity_type: trading\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "USD", cfg.Report.Currency)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, string(model.AgeByInvoiceDate), cfg.Report.AgeBy)
	assert.NotEmpty(t, cfg.Mapping.WorkingCapital)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing name", func(c *Config) { c.Business.Name = "" }, `business.name: failed "required"`},
		{"unknown entity", func(c *Config) { c.Business.EntityType = "charity" }, `business.entity_type: failed "oneof"`},
		{"lowercase currency", func(c *Config) { c.Report.Currency = "usd" }, `report.currency: failed "uppercase"`},
		{"long currency", func(c *Config) { c.Report.Currency = "EURO" }, `report.currency: failed "len"`},
		{"negative rate", func(c *Config) { c.Report.ExchangeRate = -1 }, `report.exchange_rate: failed "gt"`},
		{"bad age_by", func(c *Config) { c.Report.AgeBy = "weekly" }, `report.age_by: failed "oneof"`},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, `logging.format: failed "oneof"`},
		{"bad year start", func(c *Config) { c.Fiscal.YearStart = "13-01" }, "fiscal.year_start: want MM-DD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("Biz", "trading")
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: X\n  entity_type: trading\nreport:\n  currency: dollars\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report.currency")
}

func TestOptions(t *testing.T) {
	cfg := Default("Biz", "trading")
	cfg.Report.ShowZeroBalances = true
	cfg.Report.AgeBy = "due-date"
	cfg.Report.ExchangeRate = 1.5

	opts := cfg.Options()
	assert.True(t, opts.ShowZeroBalances)
	assert.True(t, opts.ShowAccountCodes)
	assert.Equal(t, model.AgeByDueDate, opts.AgeBy)
	assert.Equal(t, "1.5", cfg.Rate().String())
}

func TestFiscalYear(t *testing.T) {
	cfg := Default("Biz", "trading")
	assert.Equal(t, model.Between(model.Date(2024, 1, 1), model.Date(2024, 12, 31)), cfg.FiscalYear(model.Date(2024, 6, 15)))

	cfg.Fiscal.YearStart = "04-06"
	assert.Equal(t, model.Between(model.Date(2024, 4, 6), model.Date(2025, 4, 5)), cfg.FiscalYear(model.Date(2024, 4, 6)))
	assert.Equal(t, model.Between(model.Date(2023, 4, 6), model.Date(2024, 4, 5)), cfg.FiscalYear(model.Date(2024, 4, 5)))
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Biz", "trading")
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "entity_type: trading")
	assert.Contains(t, contents, "year_start: 01-01")
	assert.Contains(t, contents, "currency: USD")
	assert.Contains(t, contents, "receivables:")
}
