package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/punks-mint/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	records := []*internal.MintRecord{
		internal.CreateTestRecord("r1"),
		internal.CreateFailedTestRecord("r2", internal.KindWrongNetwork, "wrong network"),
	}

	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(records, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d receipts, want 2", len(decoded))
	}
	if decoded[1]["error_kind"] != "wrong_network" {
		t.Errorf("error_kind = %v, want wrong_network", decoded[1]["error_kind"])
	}
	if _, ok := decoded[1]["tx_hash"]; ok {
		t.Error("failed receipt without a transaction should omit tx_hash")
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("JSON output should be indented")
	}
}

func TestJSONExporter_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(nil, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Export(nil) = %q, want []", buf.String())
	}
}
