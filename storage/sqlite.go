package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var sqliteDialect = dialect{
	name:      "sqlite",
	textTimes: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS sources (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			url TEXT UNIQUE NOT NULL,
			category TEXT NOT NULL DEFAULT 'Other',
			active BOOLEAN NOT NULL DEFAULT 1,
			last_fetched DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			url TEXT UNIQUE NOT NULL,
			content TEXT,
			summary TEXT,
			source TEXT NOT NULL,
			author TEXT,
			pub_date DATETIME,
			read_time INTEGER NOT NULL DEFAULT 0,
			is_read BOOLEAN NOT NULL DEFAULT 0,
			is_saved BOOLEAN NOT NULL DEFAULT 0,
			score REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_pub_date ON articles(pub_date)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source)`,
	},
}

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = "news.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; WAL keeps readers unblocked.
	db.SetMaxOpenConns(1)
	return db, nil
}
