package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/lborres/taskpulse"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id          TEXT PRIMARY KEY,
	key         TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL DEFAULT '',
	energy      INTEGER NOT NULL DEFAULT 50,
	level       INTEGER NOT NULL DEFAULT 1,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title              TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	difficulty         INTEGER NOT NULL DEFAULT 1,
	status             TEXT NOT NULL DEFAULT 'pending',
	estimated_minutes  INTEGER NOT NULL DEFAULT 0,
	created_at         DATETIME NOT NULL,
	completed_at       DATETIME
);

CREATE INDEX IF NOT EXISTS tasks_user_created_idx ON tasks (user_id, created_at DESC);
`

// Adapter stores users and tasks in a SQLite file
type Adapter struct {
	db *sql.DB
}

var _ taskpulse.Storage = (*Adapter)(nil)

func New(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// Open opens (creating if needed) the database file at path.
// ":memory:" keeps everything in memory on a single connection.
func Open(path string) (*Adapter, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps :memory: shared
	db.SetMaxOpenConns(1)

	return New(db), nil
}

func (a *Adapter) Migrate(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
