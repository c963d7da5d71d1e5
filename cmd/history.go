package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/iksnae/punks-mint/internal"
	"github.com/iksnae/punks-mint/internal/export"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyFormat string
	historyOutput string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the receipt journal",
	Long: `Show recorded mint outcomes, newest first.

The default table view is meant for the terminal. Use --format to export
the journal as jsonl, json, yaml or md, optionally into a file with --output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Journal == "" {
			return fmt.Errorf("no receipt journal configured")
		}
		if _, err := os.Stat(cfg.Journal); os.IsNotExist(err) {
			internal.PrintInfo("No mints recorded yet")
			return nil
		}

		store, err := internal.OpenReceiptStore(cfg.Journal)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyOutput != "" {
			f, err := os.Create(historyOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if historyFormat == "table" {
			displayRecords(out, records)
		} else {
			exporter, err := export.NewExporter(historyFormat)
			if err != nil {
				return err
			}
			if err := exporter.Export(records, out); err != nil {
				return fmt.Errorf("failed to export receipts: %w", err)
			}
		}

		if historyOutput != "" {
			internal.PrintSuccess(fmt.Sprintf("Exported %d receipt(s) to %s", len(records), historyOutput))
		}
		return nil
	},
}

func displayRecords(w io.Writer, records []*internal.MintRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No mints recorded yet")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, titleStyle.Render("ID")+"\t"+titleStyle.Render("Status")+"\t"+titleStyle.Render("Network")+"\t"+titleStyle.Render("Tx")+"\t"+titleStyle.Render("Created")+"\t")
	_, _ = fmt.Fprintln(tw, strings.Repeat("─", 100))

	for _, rec := range records {
		status := successStyle.Render(rec.Status)
		detail := shortHash(rec.TxHash)
		if rec.Status != string(internal.StatusDone) {
			status = errorStyle.Render(rec.Status)
			detail = rec.ErrorKind
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(shortID(rec.ID)), status, rec.Network, detail, dateStyle.Render(rec.CreatedAt))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%s %s\n", titleStyle.Render("Total:"), countStyle.Render(fmt.Sprintf("%d", len(records))))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortHash(hash string) string {
	if len(hash) > 14 {
		return hash[:10] + "…" + hash[len(hash)-4:]
	}
	return hash
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of receipts to show (0 for all)")
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "table", "Output format (table, jsonl, json, yaml, md)")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "Write to this file instead of stdout")
}
