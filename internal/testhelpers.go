package internal

import (
	"strings"
	"time"
)

// CreateTestRecord creates a confirmed receipt with sample data
func CreateTestRecord(id string) *MintRecord {
	now := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC).Format(time.RFC3339)
	return &MintRecord{
		ID:          id,
		Status:      string(StatusDone),
		ChainID:     MumbaiChainID,
		Network:     NetworkName(MumbaiChainID),
		Contract:    "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		Account:     "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		ValueWei:    DefaultMintFee.String(),
		TxHash:      "0x" + strings.Repeat("ab", 32),
		BlockNumber: 42,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CreateFailedTestRecord creates a failed receipt carrying an error kind
func CreateFailedTestRecord(id string, kind ErrorKind, message string) *MintRecord {
	rec := CreateTestRecord(id)
	rec.Status = string(StatusFailed)
	rec.TxHash = ""
	rec.BlockNumber = 0
	rec.ErrorKind = kind.String()
	rec.Error = message
	return rec
}
