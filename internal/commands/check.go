package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercore/internal/reports"
)

func newCheckCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every entry and the self-checking report totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			txns := p.journal.All()
			svc := reports.New(p.cfg, p.accounts.All(), txns, p.log)
			f := svc.Check()
			if err := reports.WriteFindings(cmd.OutOrStdout(), f, len(txns)); err != nil {
				return err
			}
			if !f.OK() {
				return errors.New("ledger check failed")
			}
			return nil
		},
	}
}
