package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgercore/internal/mapping"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// FileName is the project configuration file at the repository root.
const FileName = "ledgercore.yaml"

// Config represents the top-level ledgercore.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Fiscal   FiscalConfig   `yaml:"fiscal"`
	Report   ReportConfig   `yaml:"report"`
	Mapping  mapping.Names  `yaml:"mapping"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name" validate:"required"`
	EntityType string `yaml:"entity_type" validate:"required,oneof=trading service"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start" validate:"required"` // "MM-DD" format, e.g. "01-01"
}

// ReportConfig holds presentation switches. None of them change the
// underlying arithmetic.
type ReportConfig struct {
	ShowZeroBalances bool    `yaml:"show_zero_balances"`
	ShowAccountCodes bool    `yaml:"show_account_codes"`
	Currency         string  `yaml:"currency" validate:"required,len=3,uppercase"`
	ExchangeRate     float64 `yaml:"exchange_rate" validate:"gt=0"`
	AgeBy            string  `yaml:"age_by" validate:"oneof=invoice-date due-date"`
}

// LoggingConfig controls the CLI logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Path returns the config path for a repository root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, FileName)
}

// Load reads a ledgercore.yaml file from disk, fills unset fields with
// defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Report: ReportConfig{
			ShowAccountCodes: true,
			Currency:         "USD",
			ExchangeRate:     1,
			AgeBy:            string(model.AgeByInvoiceDate),
		},
		Mapping: mapping.Defaults(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func (c *Config) applyDefaults() {
	d := Default(c.Business.Name, c.Business.EntityType)
	if c.Fiscal.YearStart == "" {
		c.Fiscal.YearStart = d.Fiscal.YearStart
	}
	if c.Report.Currency == "" {
		c.Report.Currency = d.Report.Currency
	}
	if c.Report.ExchangeRate == 0 {
		c.Report.ExchangeRate = d.Report.ExchangeRate
	}
	if c.Report.AgeBy == "" {
		c.Report.AgeBy = d.Report.AgeBy
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	c.Mapping = c.Mapping.WithDefaults()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct tags and the fields tags cannot express.
func (c *Config) Validate() error {
	var problems []string
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s: failed %q", yamlPath(fe.Namespace()), fe.Tag()))
		}
	}
	if _, _, err := parseYearStart(c.Fiscal.YearStart); c.Fiscal.YearStart != "" && err != nil {
		problems = append(problems, fmt.Sprintf("fiscal.year_start: %v", err))
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

// yamlPath turns "Config.report.currency" into "report.currency".
func yamlPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func parseYearStart(s string) (time.Month, int, error) {
	t, err := time.Parse("01-02", s)
	if err != nil {
		return 0, 0, fmt.Errorf("want MM-DD, got %q", s)
	}
	return t.Month(), t.Day(), nil
}

// Options converts the report section into typed report options.
func (c *Config) Options() model.ReportOptions {
	return model.ReportOptions{
		ShowZeroBalances: c.Report.ShowZeroBalances,
		ShowAccountCodes: c.Report.ShowAccountCodes,
		AgeBy:            model.AgeBy(c.Report.AgeBy),
	}
}

// Rate returns the display exchange-rate multiplier.
func (c *Config) Rate() decimal.Decimal {
	return decimal.NewFromFloat(c.Report.ExchangeRate)
}

// FiscalYear returns the fiscal year that contains day.
func (c *Config) FiscalYear(day time.Time) model.Period {
	month, dom, err := parseYearStart(c.Fiscal.YearStart)
	if err != nil {
		month, dom = time.January, 1
	}
	day = model.Day(day)
	start := model.Date(day.Year(), month, dom)
	if start.After(day) {
		start = start.AddDate(-1, 0, 0)
	}
	return model.Between(start, start.AddDate(1, 0, -1))
}
