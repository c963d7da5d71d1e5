package cmd

import (
	"context"
	"fmt"

	"github.com/iksnae/punks-mint/internal"
	"github.com/spf13/cobra"
)

// supplyCmd represents the supply command
var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Show how many tokens are minted and how many remain",
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

		var supply internal.Supply
		err = showProgress(ctx, "Reading supply...", func(ctx context.Context) error {
			var err error
			supply, err = internal.ReadSupply(ctx, handle, a.contract)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to read supply: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s/%s minted\n", titleStyle.Render("Supply:"), countStyle.Render(supply.Minted.String()), supply.Max.String())
		remaining := supply.Remaining()
		if remaining.Sign() == 0 {
			fmt.Fprintln(out, warningStyle.Render("Sold out"))
		} else {
			fmt.Fprintf(out, "%s remaining at %s each\n", remaining.String(), cfg.Contract.MintFee)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(supplyCmd)
}
