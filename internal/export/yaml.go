package export

import (
	"io"

	"github.com/iksnae/punks-mint/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports receipts in YAML format
type YAMLExporter struct{}

// receiptDocument is the top-level YAML shape
type receiptDocument struct {
	Receipts []*internal.MintRecord `yaml:"receipts"`
}

// Export writes records under a "receipts" key
func (e *YAMLExporter) Export(records []*internal.MintRecord, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	if records == nil {
		records = []*internal.MintRecord{}
	}
	return enc.Encode(receiptDocument{Receipts: records})
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
