package cmd

import (
	"bytes"
	"context"
	"math/big"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iksnae/punks-mint/internal"
	"github.com/iksnae/punks-mint/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var punksEnv = []string{
	"PUNKS_RPC_URL", "PUNKS_CHAIN_ID", "PUNKS_CONTRACT", "PUNKS_KEYSTORE",
	"PUNKS_KEYSTORE_PASSWORD", "PUNKS_PRIVATE_KEY", "PUNKS_MINT_FEE",
	"PUNKS_CONFIRMATIONS", "PUNKS_JOURNAL",
}

// resetFlags restores flag variables between executions of the shared rootCmd
func resetFlags() {
	verbose, configPath, journalPath, logFormat, assumeYes = false, "", "", "text", false
	historyLimit, historyFormat, historyOutput = 20, "table", ""
	mintConfirmations, mintTimeout = 1, 0
	healthcheckVerbose = false

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, name := range []string{"help", "version"} {
			if f := c.Flags().Lookup(name); f != nil {
				_ = f.Value.Set("false")
			}
		}
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		c.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

// executeCommand runs rootCmd with args and returns what it wrote
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandWithInput(t, nil, "", args...)
}

// executeCommandWithInput runs rootCmd with env set and stdin fed from input
func executeCommandWithInput(t *testing.T, env map[string]string, input string, args ...string) (string, error) {
	t.Helper()
	testutil.ClearEnv(t, punksEnv...)
	testutil.SetEnv(t, env)
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(input))
	err := rootCmd.Execute()
	return out.String(), err
}

// walletConfig points at a closed local port so RPC calls fail fast
const walletConfig = "network:\n  rpc_url: http://127.0.0.1:1\ncontract:\n  address: \"0x5FbDB2315678afecb367f032d93F642f64180aa3\"\n"

// devKeyEnv injects a well-known development key
var devKeyEnv = map[string]string{
	"PUNKS_PRIVATE_KEY": "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
}

// writeConfig writes a config file in a temp dir and returns its path
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	return testutil.WriteFile(t, testutil.CreateTempDir(t), "config.yaml", []byte(body))
}

// seedJournal records one done and one failed mint and returns the journal path
func seedJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(testutil.CreateTempDir(t), "receipts.db")
	store, err := internal.OpenReceiptStore(path)
	if err != nil {
		t.Fatalf("OpenReceiptStore() error = %v", err)
	}
	defer store.Close()

	contract := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	created := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	requests := []*internal.MintRequest{
		{
			ID:          "11111111-aaaa-bbbb-cccc-000000000001",
			Contract:    contract,
			ChainID:     internal.MumbaiChainID,
			Value:       big.NewInt(10_000_000_000_000_000),
			Status:      internal.StatusDone,
			TxHash:      common.HexToHash("0xbeef"),
			BlockNumber: 7,
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			ID:        "22222222-aaaa-bbbb-cccc-000000000002",
			Contract:  contract,
			ChainID:   1,
			Value:     big.NewInt(10_000_000_000_000_000),
			Status:    internal.StatusFailed,
			Err:       &internal.NetworkError{Want: internal.MumbaiChainID, Got: 1},
			CreatedAt: created.Add(time.Hour),
			UpdatedAt: created.Add(time.Hour),
		},
	}
	for _, req := range requests {
		if err := store.Record(context.Background(), req); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	return path
}
