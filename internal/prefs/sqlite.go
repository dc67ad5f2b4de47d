package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps theme preferences in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open connects to the database at path, creating it and its schema if needed.
// The special path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set wal: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS theme_prefs (
  client_id TEXT PRIMARY KEY,
  theme TEXT NOT NULL CHECK (theme IN ('light', 'dark')),
  updated_at TIMESTAMP NOT NULL
);`)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, clientID string) (Theme, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT theme FROM theme_prefs WHERE client_id = ?`, clientID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	t, err := ParseTheme(raw)
	if err != nil {
		return "", false, err
	}
	return t, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, clientID string, theme Theme) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO theme_prefs (client_id, theme, updated_at) VALUES (?, ?, ?)
ON CONFLICT(client_id) DO UPDATE SET theme = excluded.theme, updated_at = excluded.updated_at`,
		clientID, string(theme), time.Now().UTC())
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu     sync.Mutex
	themes map[string]Theme
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{themes: make(map[string]Theme)}
}

func (m *MemoryStore) Get(ctx context.Context, clientID string) (Theme, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.themes[clientID]
	return t, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, clientID string, theme Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[clientID] = theme
	return nil
}
