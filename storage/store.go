// Package storage persists sources and articles in SQLite or PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newsdash/config"
	"newsdash/shared/rss"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSourceExists is returned when adding a source whose URL is already known.
	ErrSourceExists = errors.New("source already exists")
)

// Store is a ready, migrated and seeded database. The zero value is not usable;
// obtain one from Open.
type Store struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to the configured database, applies the schema and seeds the
// default sources before returning.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	var (
		db  *sql.DB
		d   dialect
		err error
	)
	switch cfg.Driver {
	case "", "sqlite":
		db, err = openSQLite(cfg.Path)
		d = sqliteDialect
	case "postgres":
		db, err = openPostgres(cfg.URL)
		d = postgresDialect
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, dialect: d, now: time.Now}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	if err := s.seed(ctx); err != nil {
		return fmt.Errorf("failed to seed sources: %w", err)
	}
	return nil
}

func (s *Store) seed(ctx context.Context) error {
	q := s.rebind(`INSERT INTO sources (name, url, category, active, created_at)
		VALUES (?, ?, ?, ?, ?) ON CONFLICT (url) DO NOTHING`)
	for _, src := range rss.DefaultSources {
		if _, err := s.db.ExecContext(ctx, q, src.Name, src.URL, src.Category, true, s.timeArg(s.now())); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) rebind(q string) string {
	return s.dialect.rebind(q)
}

func (s *Store) timeArg(t time.Time) any {
	return s.dialect.timeArg(t)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
