package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercore/internal/accounts"
	"github.com/cleared-dev/ledgercore/internal/buildinfo"
	"github.com/cleared-dev/ledgercore/internal/config"
	"github.com/cleared-dev/ledgercore/internal/journal"
	"github.com/cleared-dev/ledgercore/internal/logging"
	"github.com/cleared-dev/ledgercore/internal/mapping"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// now is replaced in tests.
var now = time.Now

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	repo     string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "ledgercore",
		Short:   "Double-entry ledger and financial reports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides ledgercore.yaml)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand(opts))
	rootCmd.AddCommand(newTxCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newReportCommand(opts))

	return rootCmd
}

// project is a loaded ledger repository.
type project struct {
	root     string
	cfg      *config.Config
	accounts *accounts.Service
	journal  *journal.Service
	log      *logrus.Logger
}

func openProject(cmd *cobra.Command, opts *globalOptions) (*project, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(config.Path(root))
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log, err := logging.New(level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	accts, err := accounts.Load(root)
	if err != nil {
		logging.LogError(log, "commands", "openProject", "loading chart of accounts", root, err)
		return nil, err
	}
	jrnl, err := journal.Load(root, accts)
	if err != nil {
		logging.LogError(log, "commands", "openProject", "loading journal", root, err)
		return nil, err
	}
	log.WithFields(logrus.Fields{"root": root, "accounts": len(accts.All())}).Debug("project loaded")

	return &project{root: root, cfg: cfg, accounts: accts, journal: jrnl, log: log}, nil
}

func (p *project) saveAccounts() error {
	if err := p.accounts.Save(p.root); err != nil {
		logging.LogError(p.log, "commands", "saveAccounts", "writing chart of accounts", p.root, err)
		return err
	}
	return nil
}

func (p *project) saveJournal() error {
	if err := p.journal.Save(p.root); err != nil {
		logging.LogError(p.log, "commands", "saveJournal", "writing journal", p.root, err)
		return err
	}
	return nil
}

// resolveAccount finds an account by code or, failing that, by name.
func (p *project) resolveAccount(ref string) (model.Account, error) {
	all := p.accounts.All()
	if a, ok := mapping.Match(ref, all); ok {
		return a, nil
	}
	if s := mapping.Suggest(ref, all); s != "" {
		return model.Account{}, fmt.Errorf("%w: %s (did you mean %q?)", accounts.ErrNotFound, ref, s)
	}
	return model.Account{}, fmt.Errorf("%w: %s", accounts.ErrNotFound, ref)
}
