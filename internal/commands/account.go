package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercore/internal/model"
	"github.com/cleared-dev/ledgercore/internal/reports"
)

func newAccountCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountListCommand(opts))
	cmd.AddCommand(newAccountAddCommand(opts))
	cmd.AddCommand(newAccountUpdateCommand(opts))
	cmd.AddCommand(newAccountRemoveCommand(opts))
	return cmd
}

func newAccountListCommand(opts *globalOptions) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseDate(asOf)
			if err != nil {
				return err
			}
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			svc := reports.New(p.cfg, p.accounts.All(), p.journal.All(), p.log)
			return svc.WriteAccounts(cmd.OutOrStdout(), day)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "balance date (YYYY-MM-DD, default all history)")
	return cmd
}

// accountFlags are the editable fields shared by add and update.
type accountFlags struct {
	code    string
	name    string
	kind    string
	opening string
}

func (f *accountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.code, "code", "", "account code")
	cmd.Flags().StringVar(&f.name, "name", "", "account name")
	cmd.Flags().StringVar(&f.kind, "type", "", "account type (asset, liability, equity, income, expense)")
	cmd.Flags().StringVar(&f.opening, "opening", "", "opening balance in the type's normal sign")
}

// apply overwrites the fields of a whose flags were set on cmd.
func (f *accountFlags) apply(cmd *cobra.Command, a model.Account) (model.Account, error) {
	if cmd.Flags().Changed("code") {
		a.Code = f.code
	}
	if cmd.Flags().Changed("name") {
		a.Name = f.name
	}
	if cmd.Flags().Changed("type") {
		t, err := model.ParseAccountType(f.kind)
		if err != nil {
			return model.Account{}, err
		}
		a.Type = t
	}
	if cmd.Flags().Changed("opening") {
		amt, err := decimal.NewFromString(f.opening)
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing opening balance %q: %w", f.opening, err)
		}
		a.OpeningBalance = amt
	}
	return a, nil
}

func newAccountAddCommand(opts *globalOptions) *cobra.Command {
	f := &accountFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			a, err := f.apply(cmd, model.Account{OpeningBalance: decimal.Zero})
			if err != nil {
				return err
			}
			a, err = p.accounts.Add(a)
			if err != nil {
				return err
			}
			if err := p.saveAccounts(); err != nil {
				return err
			}
			p.log.WithField("id", a.ID).Debug("account added")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", a.Code, a.Name, a.Type)
			return err
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newAccountUpdateCommand(opts *globalOptions) *cobra.Command {
	f := &accountFlags{}

	cmd := &cobra.Command{
		Use:   "update <code>",
		Short: "Change an account's code, name, type or opening balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			current, err := p.resolveAccount(args[0])
			if err != nil {
				return err
			}
			a, err := f.apply(cmd, current)
			if err != nil {
				return err
			}
			if err := p.accounts.Update(a, p.journal); err != nil {
				return err
			}
			if err := p.saveAccounts(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s (%s)\n", a.Code, a.Name, a.Type)
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func newAccountRemoveCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code>",
		Short: "Remove an account no entry posts to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			a, err := p.resolveAccount(args[0])
			if err != nil {
				return err
			}
			if err := p.accounts.Remove(a.ID, p.journal); err != nil {
				return err
			}
			if err := p.saveAccounts(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", a.Code, a.Name)
			return err
		},
	}
}
