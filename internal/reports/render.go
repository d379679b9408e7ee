package reports

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/aging"
	"github.com/cleared-dev/ledgercore/internal/balance"
	"github.com/cleared-dev/ledgercore/internal/cashflow"
	"github.com/cleared-dev/ledgercore/internal/model"
	"github.com/cleared-dev/ledgercore/internal/ratios"
	"github.com/cleared-dev/ledgercore/internal/statements"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// newTable returns a bordered table whose columns from firstAmount on are
// right aligned.
func newTable(firstAmount int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= firstAmount:
				return amountStyle
			default:
				return cellStyle
			}
		})
}

func title(w io.Writer, name string, p model.Period) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(name), p)
	return err
}

func (s *Service) label(a model.Account) string {
	return a.Label(s.Options().ShowAccountCodes)
}

// WriteTrialBalance renders a trial balance.
func (s *Service) WriteTrialBalance(w io.Writer, tb statements.TrialBalance) error {
	if err := title(w, "Trial Balance", tb.Period); err != nil {
		return err
	}
	t := newTable(2, "Account", "Type", "Debit", "Credit")
	for _, row := range tb.Rows {
		t.Row(s.label(row.Account), string(row.Account.Type), s.money.Blank(row.DisplayDebit), s.money.Blank(row.DisplayCredit))
	}
	t.Row("Total", "", s.money.Format(tb.TotalDebit), s.money.Format(tb.TotalCredit))
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	return s.footer(w, tb.Err())
}

// WriteIncomeStatement renders an income statement.
func (s *Service) WriteIncomeStatement(w io.Writer, is statements.IncomeStatement) error {
	if err := title(w, "Income Statement", is.Period); err != nil {
		return err
	}
	t := newTable(1, "Account", "Amount")
	s.section(t, "Revenue", is.Revenue, is.TotalRevenue)
	s.section(t, "Expenses", is.Expenses, is.TotalExpenses)
	t.Row("Net Income", s.money.Format(is.NetIncome))
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteBalanceSheet renders a balance sheet.
func (s *Service) WriteBalanceSheet(w io.Writer, bs statements.BalanceSheet) error {
	if err := title(w, "Balance Sheet", bs.Period); err != nil {
		return err
	}
	t := newTable(1, "Account", "Amount")
	s.section(t, "Assets", bs.Assets, bs.TotalAssets)
	s.section(t, "Liabilities", bs.Liabilities, bs.TotalLiabilities)
	s.section(t, "Equity", bs.Equity, bs.TotalEquity)
	t.Row("  Current net income", s.money.Format(bs.NetIncome))
	t.Row("Total Equity", s.money.Format(bs.EquityWithEarnings()))
	t.Row("Total Liabilities and Equity", s.money.Format(bs.TotalLiabilitiesAndEquity()))
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	return s.footer(w, bs.Err())
}

func (s *Service) section(t *table.Table, name string, lines []statements.Line, total decimal.Decimal) {
	t.Row(name, "")
	for _, l := range lines {
		t.Row("  "+s.label(l.Account), s.money.Format(l.Amount))
	}
	t.Row("Total "+name, s.money.Format(total))
}

// WriteCashFlow renders a cash flow statement.
func (s *Service) WriteCashFlow(w io.Writer, cf cashflow.Statement) error {
	if err := title(w, "Cash Flow Statement", model.Between(cf.From, cf.To)); err != nil {
		return err
	}
	t := newTable(1, "Item", "Amount")
	t.Row("Operating activities", "")
	t.Row("  Net income", s.money.Format(cf.NetIncome))
	for _, item := range cf.WorkingCapital {
		t.Row("  Change in "+s.label(item.Account), s.money.Format(item.CashEffect))
	}
	t.Row("Net cash from operating", s.money.Format(cf.Operating))
	t.Row("Investing activities", "")
	for _, item := range cf.Investing {
		t.Row("  "+s.label(item.Account), s.money.Format(item.CashEffect))
	}
	t.Row("Net cash from investing", s.money.Format(cf.CashFromInvesting))
	t.Row("Financing activities", "")
	for _, item := range cf.Financing {
		t.Row("  "+s.label(item.Account), s.money.Format(item.CashEffect))
	}
	t.Row("Net cash from financing", s.money.Format(cf.CashFromFinancing))
	t.Row("Net change in cash", s.money.Format(cf.NetCashFlow))
	t.Row("Cash at beginning", s.money.Format(cf.BeginningCash))
	t.Row("Cash at end", s.money.Format(cf.EndingCash))
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	return s.footer(w, cf.Err())
}

// WriteRatios renders a ratio report.
func (s *Service) WriteRatios(w io.Writer, r ratios.Report) error {
	if err := title(w, "Financial Ratios", r.Period); err != nil {
		return err
	}
	t := newTable(2, "Category", "Ratio", "Value")
	for _, e := range r.Entries {
		value := e.Ratio.String()
		if e.Percent {
			value = e.Ratio.Percent()
		}
		t.Row(string(e.Category), e.Name, value)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteAging renders an aged receivables report.
func (s *Service) WriteAging(w io.Writer, r aging.Report) error {
	if err := title(w, "Aged Receivables", model.Through(r.AsOf)); err != nil {
		return err
	}
	headers := []string{"Customer"}
	for _, b := range aging.Buckets {
		headers = append(headers, b.String())
	}
	headers = append(headers, "Total")

	t := newTable(1, headers...)
	for _, c := range r.Customers {
		t.Row(s.agingRow(c.Name, c.Buckets)...)
	}
	t.Row(s.agingRow("Total", r.Totals)...)
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	if r.Unapplied.IsPositive() {
		_, err := fmt.Fprintf(w, "Unapplied payments: %s\n", s.money.Format(r.Unapplied))
		return err
	}
	return nil
}

func (s *Service) agingRow(name string, amounts aging.Amounts) []string {
	row := []string{name}
	for _, b := range aging.Buckets {
		row = append(row, s.money.Format(amounts[b]))
	}
	return append(row, s.money.Format(amounts.Total()))
}

// WriteAccounts renders the chart of accounts with each account's balance
// as of day, in its normal sign.
func (s *Service) WriteAccounts(w io.Writer, day time.Time) error {
	t := newTable(3, "Code", "Name", "Type", "Opening", "Balance")
	for _, a := range s.accounts {
		t.Row(a.Code, a.Name, string(a.Type), s.money.Blank(a.OpeningBalance), s.money.Format(balance.AsOf(a, s.txns, day)))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteJournal renders entries one line per posting. Only postings to
// accountID are shown when it is non-empty.
func (s *Service) WriteJournal(w io.Writer, txns []model.Transaction, accountID string) error {
	names := make(map[string]model.Account, len(s.accounts))
	for _, a := range s.accounts {
		names[a.ID] = a
	}
	t := newTable(4, "Entry", "Date", "Description", "Account", "Debit", "Credit")
	for _, tx := range txns {
		for _, l := range tx.Lines {
			if accountID != "" && l.AccountID != accountID {
				continue
			}
			label := l.AccountID
			if a, ok := names[l.AccountID]; ok {
				label = s.label(a)
			}
			t.Row(tx.ID, tx.Date.Format(model.DateFormat), tx.Description, label, s.money.Blank(l.Debit), s.money.Blank(l.Credit))
		}
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteFindings renders the result of Check.
func WriteFindings(w io.Writer, f Findings, entries int) error {
	for _, e := range f.Errors {
		if _, err := fmt.Fprintln(w, "ERROR   "+e); err != nil {
			return err
		}
	}
	for _, warn := range f.Warnings {
		if _, err := fmt.Fprintln(w, "WARNING "+warn); err != nil {
			return err
		}
	}
	if f.OK() {
		_, err := fmt.Fprintln(w, "OK: "+strconv.Itoa(entries)+" entries checked")
		return err
	}
	return nil
}

func (s *Service) footer(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	_, werr := fmt.Fprintf(w, "WARNING: %v\n", err)
	return werr
}
