package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/rshade/ecopulse/internal/engine"
	"github.com/rshade/ecopulse/internal/logging"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps the state document in a SQLite database file.
type SQLiteStore struct {
	path string
	db   *sql.DB
	lock sessionLock
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the documents table exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), stateDirPerm); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serializes writers within the process.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("component", "storage").
		Str("operation", "NewSQLiteStore").
		Str("path", path).
		Msg("sqlite store ready")

	return &SQLiteStore{path: path, db: db, lock: sessionLock{path: path}}, nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Load reads the document row. A missing row yields (nil, nil).
func (s *SQLiteStore) Load(ctx context.Context) (*engine.State, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE key = ?`, DocumentKey).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil //nolint:nilnil // nothing stored yet
		}
		return nil, fmt.Errorf("querying state document: %w", err)
	}
	return Decode([]byte(body))
}

// Save upserts the document row.
func (s *SQLiteStore) Save(ctx context.Context, st engine.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		DocumentKey, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("writing state document: %w", err)
	}
	return nil
}

// Lock holds a lockfile next to the database until Close. SQLite serializes
// single statements but not a session's load and save.
func (s *SQLiteStore) Lock() error {
	return s.lock.Lock()
}

// Close releases the session lock and closes the database.
func (s *SQLiteStore) Close() error {
	s.lock.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
