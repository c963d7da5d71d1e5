package cmd

import (
	"fmt"

	"github.com/iksnae/punks-mint/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that punks-mint can reach the wallet, node and contract",
	Long: `Check the health of punks-mint by verifying:
  • Configuration is complete
  • The receipt journal can be opened
  • The wallet connects on the required network
  • The collection contract answers read calls

This command is useful for debugging RPC or key setup before minting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Punks Mint Health Check"))
		fmt.Fprintln(out)

		// Step 1: Configuration
		fmt.Fprintln(out, infoStyle.Render("Step 1: Loading configuration..."))
		cfg, err := loadConfig()
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Configuration invalid:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Configuration loaded"))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   RPC: %s\n", cfg.Network.RPCURL)
			fmt.Fprintf(out, "   Network: %s (%d)\n", internal.NetworkName(cfg.Network.ChainID), cfg.Network.ChainID)
			fmt.Fprintf(out, "   Contract: %s\n", cfg.Contract.Address)
			fmt.Fprintf(out, "   Mint fee: %s, confirmations: %d\n", cfg.Contract.MintFee, cfg.Contract.Confirmations)
		}
		fmt.Fprintln(out)

		a, err := newApp(cmd, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()

		// Step 2: Receipt journal
		fmt.Fprintln(out, infoStyle.Render("Step 2: Opening receipt journal..."))
		journalOK := false
		if store := a.openJournal(); store != nil {
			journalOK = true
			records, err := store.List(ctx, 0)
			store.Close()
			if err != nil {
				fmt.Fprintln(out, warningStyle.Render("⚠️  Journal opened but could not be read:"), err)
			} else {
				fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Journal available (%d receipt(s))", len(records))))
			}
			if healthcheckVerbose {
				fmt.Fprintf(out, "   Database: %s\n", cfg.Journal)
			}
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Journal unavailable, mint outcomes will not be recorded"))
		}
		fmt.Fprintln(out)

		// Step 3: Wallet connection
		fmt.Fprintln(out, infoStyle.Render("Step 3: Connecting wallet..."))
		handle, err := a.load(ctx)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Wallet connection failed:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Connected on %s", internal.NetworkName(handle.ChainID()))))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Account: %s\n", handle.Account().Hex())
			if balance, err := handle.Balance(ctx); err == nil {
				fmt.Fprintf(out, "   Balance: %s\n", internal.FormatEther(balance))
			}
		}
		fmt.Fprintln(out)

		// Step 4: Contract
		fmt.Fprintln(out, infoStyle.Render("Step 4: Reading collection contract..."))
		supply, err := internal.ReadSupply(ctx, handle, a.contract)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Contract read failed:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Contract reachable (%s/%s minted)", supply.Minted, supply.Max)))
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		if journalOK {
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
		} else {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Ready to mint, but receipts will not be journaled"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
}
