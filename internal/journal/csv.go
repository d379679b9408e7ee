package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/id"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// Header is the CSV header for journal.csv. Each row is one line of an entry;
// rows of the same entry share an entry ID prefix ("2025-01-001a", "...b").
var Header = []string{"line_id", "date", "due_date", "description", "contact", "account_id", "debit", "credit"}

const (
	numFields  = 8
	colLineID  = 0
	colDate    = 1
	colDueDate = 2
	colDesc    = 3
	colContact = 4
	colAcctID  = 5
	colDebit   = 6
	colCredit  = 7
)

// ReadTransactions reads all entries from a journal.csv reader. Rows are
// grouped by entry ID in order of first appearance.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	index := make(map[string]int)
	for i, rec := range records[1:] {
		tx, line, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if j, ok := index[tx.ID]; ok {
			txns[j].Lines = append(txns[j].Lines, line)
			continue
		}
		tx.Lines = []model.Line{line}
		index[tx.ID] = len(txns)
		txns = append(txns, tx)
	}
	return txns, nil
}

// WriteTransactions writes entries to a journal.csv writer (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, tx := range txns {
		for i := range tx.Lines {
			if err := cw.Write(MarshalRow(tx, i)); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts line i of tx to a CSV row ([]string).
func MarshalRow(tx model.Transaction, i int) []string {
	l := tx.Lines[i]
	row := make([]string, numFields)
	row[colLineID] = id.FormatLineID(tx.ID, i)
	row[colDate] = tx.Date.Format(model.DateFormat)
	if !tx.DueDate.IsZero() {
		row[colDueDate] = tx.DueDate.Format(model.DateFormat)
	}
	row[colDesc] = tx.Description
	row[colContact] = tx.Contact
	row[colAcctID] = l.AccountID
	if !l.Debit.IsZero() {
		row[colDebit] = l.Debit.StringFixed(2)
	}
	if !l.Credit.IsZero() {
		row[colCredit] = l.Credit.StringFixed(2)
	}
	return row
}

// UnmarshalRow converts a CSV row to its entry header and line.
func UnmarshalRow(record []string) (model.Transaction, model.Line, error) {
	if len(record) != numFields {
		return model.Transaction{}, model.Line{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(model.DateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, model.Line{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	due, err := model.ParseDate(record[colDueDate])
	if err != nil {
		return model.Transaction{}, model.Line{}, fmt.Errorf("parsing due_date: %w", err)
	}

	var debit, credit decimal.Decimal
	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return model.Transaction{}, model.Line{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}
	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return model.Transaction{}, model.Line{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	tx := model.Transaction{
		ID:          id.EntryGroup(record[colLineID]),
		Date:        date,
		DueDate:     due,
		Description: record[colDesc],
		Contact:     record[colContact],
	}
	line := model.Line{
		AccountID: record[colAcctID],
		Debit:     debit,
		Credit:    credit,
	}
	return tx, line, nil
}
