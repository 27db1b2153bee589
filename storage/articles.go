package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsdash/types"
)

const articleColumns = `id, title, url, content, summary, source, author, pub_date,
	read_time, is_read, is_saved, score, created_at, updated_at`

// UpsertArticle inserts the article or, when its URL is already stored,
// refreshes the ingested fields in place. Read and saved flags and the row id
// survive re-ingestion.
func (s *Store) UpsertArticle(ctx context.Context, a *types.Article) (int64, error) {
	now := s.now()
	q := s.rebind(`INSERT INTO articles
		(title, url, content, summary, source, author, pub_date, read_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			summary = excluded.summary,
			source = excluded.source,
			author = excluded.author,
			pub_date = excluded.pub_date,
			read_time = excluded.read_time,
			updated_at = excluded.updated_at
		RETURNING id`)

	var author sql.NullString
	if a.Author != "" {
		author = sql.NullString{String: a.Author, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, q,
		a.Title, a.URL, a.Content, a.Summary, a.Source, author,
		s.timeArg(a.PubDate), a.ReadTime, s.timeArg(now), s.timeArg(now),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert article: %w", err)
	}
	a.ID = id
	return id, nil
}

// ListArticles returns articles matching the filter, newest first.
func (s *Store) ListArticles(ctx context.Context, f types.ArticleFilter) ([]types.Article, error) {
	q := `SELECT ` + articleColumns + ` FROM articles WHERE 1=1`
	var args []any

	if f.Unread {
		q += ` AND is_read = ?`
		args = append(args, false)
	}
	if f.Saved {
		q += ` AND is_saved = ?`
		args = append(args, true)
	}
	if f.Category != "" {
		q += ` AND source IN (SELECT name FROM sources WHERE category = ?)`
		args = append(args, f.Category)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = types.DefaultArticleLimit
	}
	q += ` ORDER BY pub_date DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	out := []types.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetArticle returns the article with the given id.
func (s *Store) GetArticle(ctx context.Context, id int64) (types.Article, error) {
	q := s.rebind(`SELECT ` + articleColumns + ` FROM articles WHERE id = ?`)
	a, err := scanArticle(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Article{}, ErrNotFound
	}
	return a, err
}

// MarkRead flags an article as read.
func (s *Store) MarkRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE articles SET is_read = ? WHERE id = ?`), true, id)
	if err != nil {
		return fmt.Errorf("failed to mark article read: %w", err)
	}
	return checkAffected(res)
}

// ToggleSaved flips an article's saved flag and returns the new value.
func (s *Store) ToggleSaved(ctx context.Context, id int64) (bool, error) {
	var saved bool
	q := s.rebind(`UPDATE articles SET is_saved = NOT is_saved WHERE id = ? RETURNING is_saved`)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&saved)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle saved: %w", err)
	}
	return saved, nil
}

// Stats counts all, unread and saved articles.
func (s *Store) Stats(ctx context.Context) (types.Stats, error) {
	var st types.Stats
	q := s.rebind(`SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN is_read = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN is_saved = ? THEN 1 ELSE 0 END), 0)
		FROM articles`)
	if err := s.db.QueryRowContext(ctx, q, false, true).Scan(&st.Total, &st.Unread, &st.Saved); err != nil {
		return types.Stats{}, fmt.Errorf("failed to count articles: %w", err)
	}
	return st, nil
}

func scanArticle(row scanner) (types.Article, error) {
	var (
		a                    types.Article
		content, summary     sql.NullString
		author               sql.NullString
		pubDate              nullTime
		createdAt, updatedAt nullTime
	)
	err := row.Scan(&a.ID, &a.Title, &a.URL, &content, &summary, &a.Source, &author, &pubDate,
		&a.ReadTime, &a.IsRead, &a.IsSaved, &a.Score, &createdAt, &updatedAt)
	if err != nil {
		return types.Article{}, err
	}
	a.Content = content.String
	a.Summary = summary.String
	a.Author = author.String
	a.PubDate = pubDate.Time
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return a, nil
}
