package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercore/internal/importer"
	"github.com/cleared-dev/ledgercore/internal/model"
	"github.com/cleared-dev/ledgercore/internal/reports"
)

func newTxCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"entry"},
		Short:   "Record and inspect journal entries",
	}
	cmd.AddCommand(newTxAddCommand(opts))
	cmd.AddCommand(newTxListCommand(opts))
	cmd.AddCommand(newTxRemoveCommand(opts))
	cmd.AddCommand(newTxImportCommand(opts))
	return cmd
}

func newTxAddCommand(opts *globalOptions) *cobra.Command {
	var (
		date, due, desc, contact string
		debits, credits          []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a journal entry",
		Example: `  ledgercore tx add --date 2024-01-05 --desc "Invoice to Acme" \
    --debit "Accounts Receivable=1200" --credit 40000=1200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}

			tx := model.Transaction{Description: desc, Contact: contact}
			if tx.Date, err = model.ParseDate(date); err != nil {
				return err
			}
			if tx.DueDate, err = model.ParseDate(due); err != nil {
				return err
			}
			for _, d := range debits {
				l, err := p.parsePosting(d, true)
				if err != nil {
					return err
				}
				tx.Lines = append(tx.Lines, l)
			}
			for _, c := range credits {
				l, err := p.parsePosting(c, false)
				if err != nil {
					return err
				}
				tx.Lines = append(tx.Lines, l)
			}

			entryID, err := p.journal.Add(tx)
			if err != nil {
				return err
			}
			if err := p.saveJournal(); err != nil {
				return err
			}
			p.log.WithField("entry", entryID).Debug("entry recorded")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s\n", entryID)
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&due, "due", "", "due date for invoices (YYYY-MM-DD)")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&contact, "contact", "", "customer or supplier name")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "ACCOUNT=AMOUNT debit posting (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "ACCOUNT=AMOUNT credit posting (repeatable)")

	return cmd
}

// parsePosting turns "ACCOUNT=AMOUNT" into a line. ACCOUNT is a code or name.
func (p *project) parsePosting(s string, debit bool) (model.Line, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return model.Line{}, fmt.Errorf("posting %q: expected ACCOUNT=AMOUNT", s)
	}
	a, err := p.resolveAccount(strings.TrimSpace(s[:i]))
	if err != nil {
		return model.Line{}, err
	}
	amt, err := decimal.NewFromString(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return model.Line{}, fmt.Errorf("posting %q: %w", s, err)
	}
	l := model.Line{AccountID: a.ID, Debit: decimal.Zero, Credit: decimal.Zero}
	if debit {
		l.Debit = amt
	} else {
		l.Credit = amt
	}
	return l, nil
}

func newTxListCommand(opts *globalOptions) *cobra.Command {
	var from, to, account string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := parsePeriod(from, to)
			if err != nil {
				return err
			}
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}

			var accountID string
			if account != "" {
				a, err := p.resolveAccount(account)
				if err != nil {
					return err
				}
				accountID = a.ID
			}

			var txns []model.Transaction
			for _, tx := range p.journal.All() {
				if !period.Contains(tx.Date) {
					continue
				}
				if accountID != "" && !tx.Touches(accountID) {
					continue
				}
				txns = append(txns, tx)
			}
			svc := reports.New(p.cfg, p.accounts.All(), p.journal.All(), p.log)
			return svc.WriteJournal(cmd.OutOrStdout(), txns, accountID)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&account, "account", "", "only entries posting to this account code or name")
	return cmd
}

func newTxRemoveCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Delete a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			if err := p.journal.Remove(args[0]); err != nil {
				return err
			}
			if err := p.saveJournal(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return err
		},
	}
}

func newTxImportCommand(opts *globalOptions) *cobra.Command {
	var format, bank, offset string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Record bank statement rows as entries against an offset account",
		Long: "Record bank statement rows as entries against an offset account.\n" +
			"Without files, every CSV in import/ is read and moved to import/processed/.\n" +
			"Rows already recorded against the bank account are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q", format)
			}
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			bankAcct, err := p.resolveAccount(bank)
			if err != nil {
				return err
			}
			offsetAcct, err := p.resolveAccount(offset)
			if err != nil {
				return err
			}

			files := args
			scanned := len(args) == 0
			if scanned {
				found, err := importer.Scan(p.root)
				if err != nil {
					return err
				}
				for _, f := range found {
					files = append(files, f.Path)
				}
			}

			out := cmd.OutOrStdout()
			for _, path := range files {
				rows, err := importer.ParseFile(parser, path)
				if err != nil {
					return err
				}
				fresh, skipped := importer.Dedupe(rows, p.journal.All(), bankAcct.ID)
				for _, row := range skipped {
					p.log.WithFields(logrus.Fields{
						"date": row.Date.Format(model.DateFormat),
						"desc": row.Description,
					}).Debug("already recorded")
				}
				entries := importer.Entries(fresh, bankAcct.ID, offsetAcct.ID)
				for _, tx := range entries {
					if _, err := p.journal.Add(tx); err != nil {
						return fmt.Errorf("%s: %w", filepath.Base(path), err)
					}
				}
				if err := p.saveJournal(); err != nil {
					return err
				}
				if scanned {
					if err := importer.MarkProcessed(p.root, filepath.Base(path)); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintf(out, "Imported %d entries from %s (%d already recorded)\n",
					len(entries), filepath.Base(path), len(skipped)); err != nil {
					return err
				}
			}
			if len(files) == 0 {
				_, err := fmt.Fprintln(out, "Nothing to import")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "statement format (chase, simple)")
	cmd.Flags().StringVar(&bank, "bank", "Bank", "bank account code or name")
	cmd.Flags().StringVar(&offset, "offset", "", "offset account code or name (required)")
	_ = cmd.MarkFlagRequired("offset")
	return cmd
}
