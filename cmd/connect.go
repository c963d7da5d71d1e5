package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/iksnae/punks-mint/internal"
	"github.com/spf13/cobra"
)

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the wallet and show the account",
	Long: `Connect the configured wallet, verify it is on the required network and
show the account, its native balance and how many collection tokens it holds.

Connecting on any other network fails with a wrong network alert.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cmd, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		handle, err := a.load(ctx)
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}

		var balance, tokens *big.Int
		err = showProgress(ctx, "Reading balances...", func(ctx context.Context) error {
			var err error
			if balance, err = handle.Balance(ctx); err != nil {
				internal.LogWarn("Failed to read balance: %v", err)
			}
			if tokens, err = internal.ReadBalance(ctx, handle, a.contract); err != nil {
				internal.LogWarn("Failed to read token balance: %v", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Wallet connected"))
		fmt.Fprintf(out, "  Account: %s\n", handle.Account().Hex())
		fmt.Fprintf(out, "  Network: %s (%d)\n", internal.NetworkName(handle.ChainID()), handle.ChainID())

		if balance != nil {
			fmt.Fprintf(out, "  Balance: %s\n", internal.FormatEther(balance))
		}
		if tokens != nil {
			fmt.Fprintf(out, "  Tokens:  %s\n", countStyle.Render(tokens.String()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
}
