package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var ErrEmptyKey = errors.New("record key is empty")

// DB is a MySQL-backed key/value store for booking records.
type DB struct {
	*sql.DB
}

func NewDB(dsn string) (*DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db), nil
}

// New wraps an already opened handle.
func New(db *sql.DB) *DB {
	return &DB{db}
}

const schema = `
	CREATE TABLE IF NOT EXISTS kv_records (
		record_key   VARCHAR(191) NOT NULL PRIMARY KEY,
		record_value JSON NOT NULL,
		updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

// EnsureSchema creates the records table when missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create kv_records: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
