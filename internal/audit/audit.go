package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Log manages the signing audit trail in SQLite
type Log struct {
	db *sql.DB
}

// NewLog opens (or creates) the audit database at dbPath
func NewLog(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for SQLite (single writer)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	l := &Log{db: db}

	if err := l.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return l, nil
}

// Close closes the database connection
func (l *Log) Close() error {
	return l.db.Close()
}

// initSchema creates the database tables and indexes
func (l *Log) initSchema() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS signings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile TEXT NOT NULL,
			payload_bytes INTEGER NOT NULL,
			payload_checksum TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	_, err = l.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_profile_created
		ON signings(profile, created_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// RecordSigning records a signing operation
func (l *Log) RecordSigning(ctx context.Context, record *SigningRecord) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := l.db.ExecContext(ctx, `
		INSERT INTO signings
		(profile, payload_bytes, payload_checksum, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		record.Profile,
		record.PayloadBytes,
		record.PayloadChecksum,
		record.Status,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert signing record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return id, nil
}

// GetLatestSigning returns the most recent signing for a profile
func (l *Log) GetLatestSigning(ctx context.Context, profile string) (*SigningRecord, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, profile, payload_bytes, payload_checksum, status, created_at
		FROM signings
		WHERE profile = ?
		ORDER BY id DESC
		LIMIT 1
	`, profile)

	record, err := scanSigningRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest signing: %w", err)
	}

	return record, nil
}

// GetSigningHistory returns recent signing activity for a profile
func (l *Log) GetSigningHistory(ctx context.Context, profile string, limit int) ([]SigningRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, profile, payload_bytes, payload_checksum, status, created_at
		FROM signings
		WHERE profile = ?
		ORDER BY id DESC
		LIMIT ?
	`, profile, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query signing history: %w", err)
	}
	defer rows.Close()

	var records []SigningRecord
	for rows.Next() {
		record, err := scanSigningRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signing record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// scanner abstracts over *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSigningRecord(s scanner) (*SigningRecord, error) {
	var record SigningRecord
	var createdAt string

	if err := s.Scan(
		&record.ID,
		&record.Profile,
		&record.PayloadBytes,
		&record.PayloadChecksum,
		&record.Status,
		&createdAt,
	); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	record.CreatedAt = parsed

	return &record, nil
}
