package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"barberline/internal/models"
)

// SQLite stores the snapshot as a single serialized row.
type SQLite struct {
	*sql.DB
}

// OpenSQLite opens the database at path and creates the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLite{db}, nil
}

// Load returns the stored snapshot, or (nil, nil) when none exists.
func (db *SQLite) Load(ctx context.Context) (*models.Snapshot, error) {
	var data string
	err := db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE id = 1").Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save upserts the snapshot row.
func (db *SQLite) Save(ctx context.Context, s *models.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO snapshots (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		string(data), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
