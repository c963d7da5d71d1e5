package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MintRecord is the journaled outcome of a mint request
type MintRecord struct {
	ID          string `json:"id" yaml:"id"`
	Status      string `json:"status" yaml:"status"`
	ChainID     int64  `json:"chain_id" yaml:"chain_id"`
	Network     string `json:"network" yaml:"network"`
	Contract    string `json:"contract" yaml:"contract"`
	Account     string `json:"account,omitempty" yaml:"account,omitempty"`
	ValueWei    string `json:"value_wei" yaml:"value_wei"`
	TxHash      string `json:"tx_hash,omitempty" yaml:"tx_hash,omitempty"`
	BlockNumber uint64 `json:"block_number,omitempty" yaml:"block_number,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
	UpdatedAt   string `json:"updated_at" yaml:"updated_at"`
}

// RecordFromRequest converts a terminal request into a journal row
func RecordFromRequest(req *MintRequest) *MintRecord {
	rec := &MintRecord{
		ID:          req.ID,
		Status:      string(req.Status),
		ChainID:     req.ChainID,
		Network:     NetworkName(req.ChainID),
		Contract:    req.Contract.Hex(),
		ValueWei:    req.Value.String(),
		BlockNumber: req.BlockNumber,
		CreatedAt:   req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   req.UpdatedAt.Format(time.RFC3339),
	}
	if req.Account != (common.Address{}) {
		rec.Account = req.Account.Hex()
	}
	if req.TxHash != (common.Hash{}) {
		rec.TxHash = req.TxHash.Hex()
	}
	if req.Err != nil {
		rec.ErrorKind = req.ErrorKind().String()
		rec.Error = req.Err.Error()
	}
	return rec
}

// ReceiptStore journals mint outcomes in SQLite
type ReceiptStore struct {
	db   *sql.DB
	path string
}

// OpenReceiptStore opens the journal at path
func OpenReceiptStore(path string) (*ReceiptStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &JournalError{Path: path, Op: "open", Err: err}
	}
	return &ReceiptStore{db: db, path: path}, nil
}

// Path returns the journal location
func (s *ReceiptStore) Path() string {
	return s.path
}

// Close closes the underlying database
func (s *ReceiptStore) Close() error {
	return s.db.Close()
}

// Record upserts the outcome of req
func (s *ReceiptStore) Record(ctx context.Context, req *MintRequest) error {
	rec := RecordFromRequest(req)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mint_receipts
			(id, status, chain_id, contract, account, value_wei, tx_hash, block_number, error_kind, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			tx_hash = excluded.tx_hash,
			block_number = excluded.block_number,
			error_kind = excluded.error_kind,
			error = excluded.error,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Status, rec.ChainID, rec.Contract, rec.Account, rec.ValueWei,
		nullString(rec.TxHash), rec.BlockNumber, nullString(rec.ErrorKind), nullString(rec.Error),
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return &JournalError{Path: s.path, Op: "record", Err: err}
	}
	LogDebug("Recorded mint %s as %s", rec.ID, rec.Status)
	return nil
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (s *ReceiptStore) List(ctx context.Context, limit int) ([]*MintRecord, error) {
	query := `SELECT id, status, chain_id, contract, account, value_wei, tx_hash, block_number, error_kind, error, created_at, updated_at
		FROM mint_receipts ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &JournalError{Path: s.path, Op: "list", Err: err}
	}
	defer rows.Close()

	var records []*MintRecord
	for rows.Next() {
		var (
			rec                        MintRecord
			txHash, errKind, errString sql.NullString
			block                      sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Status, &rec.ChainID, &rec.Contract, &rec.Account, &rec.ValueWei,
			&txHash, &block, &errKind, &errString, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, &JournalError{Path: s.path, Op: "list", Err: fmt.Errorf("scan failed: %w", err)}
		}
		rec.Network = NetworkName(rec.ChainID)
		rec.TxHash = txHash.String
		rec.ErrorKind = errKind.String
		rec.Error = errString.String
		if block.Valid {
			rec.BlockNumber = uint64(block.Int64)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &JournalError{Path: s.path, Op: "list", Err: fmt.Errorf("rows iteration error: %w", err)}
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
