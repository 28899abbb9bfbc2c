package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get returns the blob stored under key.
func (db *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	query := `
		SELECT record_value
		FROM kv_records
		WHERE record_key = ?
	`

	var blob []byte
	err := db.QueryRowContext(ctx, query, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get record %s: %w", key, err)
	}

	return blob, true, nil
}

// Set upserts the blob stored under key.
func (db *DB) Set(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	query := `
		INSERT INTO kv_records (record_key, record_value)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE record_value = VALUES(record_value), updated_at = NOW()
	`

	if _, err := db.ExecContext(ctx, query, key, blob); err != nil {
		return fmt.Errorf("failed to set record %s: %w", key, err)
	}

	return nil
}
