package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const receiptsSchema = `
CREATE TABLE IF NOT EXISTS mint_receipts (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL,
	chain_id     INTEGER NOT NULL,
	contract     TEXT NOT NULL,
	account      TEXT NOT NULL,
	value_wei    TEXT NOT NULL,
	tx_hash      TEXT,
	block_number INTEGER,
	error_kind   TEXT,
	error        TEXT,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_mint_receipts_created_at ON mint_receipts (created_at);
`

// OpenDatabase opens (creating if needed) the SQLite receipt journal at path.
// ":memory:" opens a private in-memory database.
func OpenDatabase(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across queries
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(receiptsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
