package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	name:     "postgres",
	numbered: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS sources (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			url TEXT UNIQUE NOT NULL,
			category TEXT NOT NULL DEFAULT 'Other',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			last_fetched TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			url TEXT UNIQUE NOT NULL,
			content TEXT,
			summary TEXT,
			source TEXT NOT NULL,
			author TEXT,
			pub_date TIMESTAMPTZ,
			read_time INTEGER NOT NULL DEFAULT 0,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			is_saved BOOLEAN NOT NULL DEFAULT FALSE,
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_pub_date ON articles(pub_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source)`,
	},
}

func openPostgres(url string) (*sql.DB, error) {
	if url == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres driver")
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
