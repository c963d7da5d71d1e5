package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/punks-mint/internal"
	"github.com/spf13/cobra"
)

var (
	mintConfirmations uint64
	mintTimeout       time.Duration
)

// mintCmd represents the mint command
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint one token",
	Long: `Mint one token from the collection, paying the configured mint fee.

The wallet must be on the required network. You are asked to approve the
connection and the transaction unless --yes is given. The command waits
until the transaction has the requested number of confirmations and
records the outcome in the receipt journal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("confirmations") {
			cfg.Contract.Confirmations = mintConfirmations
		}
		a, err := newApp(cmd, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		fee, err := cfg.MintFeeWei()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()
		if mintTimeout > 0 {
			var timeoutCancel context.CancelFunc
			ctx, timeoutCancel = context.WithTimeout(ctx, mintTimeout)
			defer timeoutCancel()
		}

		opts := internal.MintOptions{
			Fee:           fee,
			Confirmations: cfg.Contract.Confirmations,
			OnStatus:      statusPrinter(cmd.ErrOrStderr(), cfg.Contract.Confirmations),
		}
		if journal := a.openJournal(); journal != nil {
			defer journal.Close()
			opts.Journal = journal
		}

		if _, err := a.load(ctx); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}

		minter := internal.NewMintOrchestrator(a.sessions, internal.NewEthBinder(a.contract), a.contract.Address, a.notifier, opts)
		req, err := minter.PublicMint(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  Request: %s\n", idStyle.Render(req.ID))
		fmt.Fprintf(out, "  Account: %s\n", req.Account.Hex())
		fmt.Fprintf(out, "  Tx:      %s\n", req.TxHash.Hex())
		fmt.Fprintf(out, "  Block:   %d\n", req.BlockNumber)
		fmt.Fprintf(out, "  Paid:    %s\n", internal.FormatEther(req.Value))
		return nil
	},
}

// statusPrinter reports each non-terminal status change on w
func statusPrinter(w io.Writer, confirmations uint64) func(req *internal.MintRequest) {
	return func(req *internal.MintRequest) {
		switch req.Status {
		case internal.StatusSubmitting:
			fmt.Fprintf(w, "%s Submitting mint for %s...\n", infoStyle.Render("→"), internal.FormatEther(req.Value))
		case internal.StatusConfirming:
			fmt.Fprintf(w, "%s Sent %s, waiting for %d confirmation(s)...\n", infoStyle.Render("→"), req.TxHash.Hex(), confirmations)
		case internal.StatusFailed:
			fmt.Fprintf(w, "%s Mint failed (%s)\n", errorStyle.Render("✗"), req.ErrorKind())
		}
	}
}

func init() {
	rootCmd.AddCommand(mintCmd)
	mintCmd.Flags().Uint64Var(&mintConfirmations, "confirmations", 1, "Blocks to wait for after the transaction is mined (overrides config)")
	mintCmd.Flags().DurationVar(&mintTimeout, "timeout", 0, "Give up waiting after this long (0 waits indefinitely)")
}
