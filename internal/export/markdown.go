package export

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/iksnae/punks-mint/internal"
)

// MarkdownExporter exports receipts as a Markdown table
type MarkdownExporter struct{}

// Export writes a heading and one table row per receipt
func (e *MarkdownExporter) Export(records []*internal.MintRecord, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Mint receipts\n\n")
	_, _ = fmt.Fprintf(w, "**Receipts:** %d\n\n", len(records))

	if len(records) == 0 {
		_, _ = fmt.Fprintf(w, "_No mints recorded._\n")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| Created | Status | Network | Value | Transaction | Block | Error |\n")
	_, _ = fmt.Fprintf(w, "|---|---|---|---|---|---|---|\n")
	for _, rec := range records {
		if rec == nil {
			continue
		}
		block := ""
		if rec.BlockNumber > 0 {
			block = fmt.Sprintf("%d", rec.BlockNumber)
		}
		_, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
			rec.CreatedAt, rec.Status, rec.Network, formatValue(rec.ValueWei),
			codeSpan(rec.TxHash), block, escapeCell(rec.Error))
		if err != nil {
			return err
		}
	}

	return nil
}

func formatValue(wei string) string {
	v, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return wei
	}
	return internal.FormatEther(v)
}

func codeSpan(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}

// escapeCell keeps pipes and newlines from breaking the table
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	return strings.ReplaceAll(text, "\n", " ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
