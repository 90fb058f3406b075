// Package store persists users, preferences, questions, answers and LLM call
// events in SQLite. Queries are built with ent's dialect/sql builders.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// pragmas run on the single pooled connection right after open.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
	"PRAGMA synchronous = NORMAL",
}

// Store hands out repositories over one database.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequence
}

// Open opens or creates the database at dsn and brings its schema up to date.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	return &Store{db: db, drv: drv, seq: newSequence(drv, seqEvents)}, nil
}

// DB exposes the raw handle for diagnostics and tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.drv.Close() }

func (s *Store) UserRepo() UserRepo         { return &userRepo{drv: s.drv} }
func (s *Store) QuestionRepo() QuestionRepo { return &questionRepo{drv: s.drv} }
func (s *Store) StatsRepo() StatsRepo       { return &statsRepo{drv: s.drv, seq: s.seq} }
func (s *Store) EventRepo() EventRepo       { return &eventRepo{drv: s.drv, seq: s.seq} }

// DefaultDBPath returns $MCQBOT_DB, else mcqbot/mcqbot.db under
// $XDG_DATA_HOME (default ~/.local/share). The parent directory is created.
func DefaultDBPath() (string, error) {
	p := os.Getenv("MCQBOT_DB")
	if p == "" {
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		p = filepath.Join(dataHome, "mcqbot", "mcqbot.db")
	}
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
