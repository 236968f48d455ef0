// Package dupstore persists previously verified invoices in SQLite so
// duplicate submissions can be flagged across restarts.
package dupstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_invoices (
	gstin      TEXT NOT NULL,
	invoice_no TEXT NOT NULL,
	first_seen TIMESTAMP NOT NULL,
	PRIMARY KEY (gstin, invoice_no)
);`

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Seen(ctx context.Context, gstin, invoiceNo string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM seen_invoices WHERE gstin = ? AND invoice_no = ?`,
		gstin, invoiceNo).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("duplicate lookup: %w", err)
	}
	return true, nil
}

func (s *Store) Record(ctx context.Context, gstin, invoiceNo string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen_invoices (gstin, invoice_no, first_seen) VALUES (?, ?, ?)`,
		gstin, invoiceNo, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record invoice: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
