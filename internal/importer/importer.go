// Package importer turns bank statement exports into journal entries.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/model"
)

// Row is one line of a bank statement. A positive Amount is money in.
type Row struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// Parser converts a bank CSV file into statement rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&SimpleParser{})
	return r
}

// Entries converts statement rows into two-line entries between the bank
// account and an offset account. Money in debits the bank; money out
// credits it. Zero-amount rows are skipped.
func Entries(rows []Row, bankID, offsetID string) []model.Transaction {
	var txns []model.Transaction
	for _, row := range rows {
		if row.Amount.IsZero() {
			continue
		}
		amt := row.Amount.Abs()
		bank := model.Line{AccountID: bankID, Debit: decimal.Zero, Credit: decimal.Zero}
		offset := model.Line{AccountID: offsetID, Debit: decimal.Zero, Credit: decimal.Zero}
		if row.Amount.IsPositive() {
			bank.Debit, offset.Credit = amt, amt
		} else {
			offset.Debit, bank.Credit = amt, amt
		}
		txns = append(txns, model.Transaction{
			Date:        model.Day(row.Date),
			Description: row.Description,
			Lines:       []model.Line{bank, offset},
		})
	}
	return txns
}

// Dedupe drops rows already recorded against the bank account: same day,
// description and amount. The rest are returned in order with the skipped
// rows.
func Dedupe(rows []Row, existing []model.Transaction, bankID string) (fresh, skipped []Row) {
	seen := make(map[string]int)
	for _, tx := range existing {
		for _, l := range tx.Lines {
			if l.AccountID == bankID {
				seen[rowKey(tx.Date, tx.Description, l.Net())]++
			}
		}
	}
	for _, row := range rows {
		k := rowKey(row.Date, row.Description, row.Amount)
		if seen[k] > 0 {
			seen[k]--
			skipped = append(skipped, row)
			continue
		}
		fresh = append(fresh, row)
	}
	return fresh, skipped
}

func rowKey(day time.Time, desc string, amount decimal.Decimal) string {
	return model.Day(day).Format(model.DateFormat) + "|" + desc + "|" + amount.StringFixed(2)
}

const (
	// importDir is the subdirectory for import CSVs.
	importDir = "import"
	// processedDir is the subdirectory for processed CSVs.
	processedDir = "import/processed"
)

// Scan returns CSV files in <repoRoot>/import/.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// ParseFile opens path and parses it with p.
func ParseFile(p Parser, path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
