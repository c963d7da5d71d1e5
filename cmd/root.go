package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/punks-mint/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	journalPath string
	logFormat   string
	assumeYes   bool
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "punks-mint",
	Short: "Mint tokens from the Punks collection on Polygon Mumbai",
	Long: `A CLI wallet front end for the Punks NFT collection.

It connects a local key (keystore file or injected private key) to a
JSON-RPC node, refuses to operate on any chain other than the configured
one, and submits payable mint transactions one at a time.

Features:
  • Connect a wallet and check it is on the required network
  • Mint a token for the configured fee and wait for confirmation
  • Show how many tokens are minted and how many remain
  • Keep a local journal of every mint outcome

Quick Start:
  punks-mint connect                    # Connect and show the account
  punks-mint mint                       # Mint one token (asks before signing)
  punks-mint history --format md        # Export the receipt journal

Configuration is read from ~/.punks-mint.yaml, a .env file and PUNKS_*
environment variables, in that order of precedence (lowest first).`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)
		return internal.SetLogFormat(logFormat, os.Stderr)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.punks-mint.yaml)")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Receipt journal database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Approve wallet prompts without asking")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
