package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/punks-mint/internal"
	"github.com/spf13/cobra"
)

// app holds the collaborators shared by the wallet commands
type app struct {
	cfg      *internal.Config
	notifier internal.Notifier
	sessions *internal.SessionManager
	contract *internal.ContractDescriptor
}

// loadConfig reads the config file named by --config (required when given)
// or the default location, then applies --journal. An empty --journal
// disables the receipt journal.
func loadConfig() (*internal.Config, error) {
	path, required := configPath, configPath != ""
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	cfg, err := internal.LoadConfig(path, required)
	if err != nil {
		return nil, err
	}
	if rootCmd.PersistentFlags().Changed("journal") {
		cfg.Journal = journalPath
	}
	return cfg, nil
}

// newApp validates cfg and wires the session manager for cmd's terminal
func newApp(cmd *cobra.Command, cfg *internal.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	contract, err := internal.NewContractDescriptor(cfg.Contract.Address)
	if err != nil {
		return nil, err
	}

	var approver internal.Approver = internal.AutoApprover{}
	if !assumeYes {
		approver = internal.NewPromptApprover(cmd.InOrStdin(), cmd.ErrOrStderr())
	}
	notifier := internal.NewTerminalNotifier(cmd.OutOrStdout(), cmd.ErrOrStderr())

	return &app{
		cfg:      cfg,
		notifier: notifier,
		sessions: internal.NewSessionManager(cfg.ProviderConfig(), internal.EthWalletFactory(approver), notifier),
		contract: contract,
	}, nil
}

// openJournal opens the receipt journal, or returns nil with a warning when it cannot be opened
func (a *app) openJournal() *internal.ReceiptStore {
	if a.cfg.Journal == "" {
		return nil
	}
	store, err := internal.OpenReceiptStore(a.cfg.Journal)
	if err != nil {
		internal.LogWarn("Receipt journal unavailable, outcomes will not be recorded: %v", err)
		return nil
	}
	return store
}

// load runs the start-up connection. It must not run behind a spinner
// because the approver may prompt on the terminal.
func (a *app) load(ctx context.Context) (*internal.Handle, error) {
	if err := a.sessions.InitializeOnLoad(ctx); err != nil {
		return nil, err
	}
	return a.sessions.EnsureConnection(ctx, false)
}

func (a *app) Close() {
	a.sessions.Reset()
}

// showProgress is replaced in tests
var showProgress = internal.ShowProgress

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
