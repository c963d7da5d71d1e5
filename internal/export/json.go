package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/punks-mint/internal"
)

// JSONExporter exports receipts as a pretty-printed JSON array
type JSONExporter struct{}

// Export writes records as one JSON document
func (e *JSONExporter) Export(records []*internal.MintRecord, w io.Writer) error {
	if records == nil {
		records = []*internal.MintRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(records)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
