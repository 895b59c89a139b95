package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps every collection as one JSON document in a single
// sqlite table. Durable enough for a single-user tracker, and a plain
// file the user can back up.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath with WAL mode
// and runs migrations. Use ":memory:" for tests.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	path := dbPath
	if path != ":memory:" {
		abs, err := filepath.Abs(dbPath)
		if err != nil {
			return nil, err
		}
		path = abs
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency between the bot and the HTTP API
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	table := `
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := s.db.Exec(table); err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}
	return nil
}

// Get returns the payload stored under the collection, or nil when absent.
func (s *SQLiteStore) Get(collection string) ([]byte, error) {
	var data string
	err := s.db.QueryRow(`
		SELECT data
		FROM collections
		WHERE name = ?
	`, collection).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", collection, err)
	}
	return []byte(data), nil
}

// Set replaces the payload stored under the collection.
func (s *SQLiteStore) Set(collection string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO collections (name, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, collection, string(data))
	if err != nil {
		return fmt.Errorf("failed to set collection %s: %w", collection, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
