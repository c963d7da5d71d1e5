package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/punks-mint/internal"
)

// JSONLExporter exports receipts in JSONL format (one receipt per line)
type JSONLExporter struct{}

// Export writes each record on its own line
func (e *JSONLExporter) Export(records []*internal.MintRecord, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, rec := range records {
		if rec == nil {
			continue
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode receipt %s: %w", rec.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
