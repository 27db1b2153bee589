package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"newsdash/types"
)

const sourceColumns = `id, name, url, category, active, last_fetched, created_at`

// ListActiveSources returns the sources the pipeline should poll, oldest first.
func (s *Store) ListActiveSources(ctx context.Context) ([]types.Source, error) {
	q := s.rebind(`SELECT ` + sourceColumns + ` FROM sources WHERE active = ? ORDER BY id`)
	return s.querySources(ctx, q, true)
}

// ListSources returns every source, active or not.
func (s *Store) ListSources(ctx context.Context) ([]types.Source, error) {
	return s.querySources(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY id`)
}

// GetSource returns the source with the given id.
func (s *Store) GetSource(ctx context.Context, id int64) (types.Source, error) {
	q := s.rebind(`SELECT ` + sourceColumns + ` FROM sources WHERE id = ?`)
	src, err := scanSource(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Source{}, ErrNotFound
	}
	return src, err
}

// AddSource inserts an active source. A source with the same URL yields
// ErrSourceExists.
func (s *Store) AddSource(ctx context.Context, src types.Source) (types.Source, error) {
	src.Name = strings.TrimSpace(src.Name)
	src.URL = strings.TrimSpace(src.URL)
	if src.Name == "" || src.URL == "" {
		return types.Source{}, errors.New("name and url are required")
	}
	if src.Category == "" {
		src.Category = types.DefaultCategory
	}

	var existing int64
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT id FROM sources WHERE url = ?`), src.URL).Scan(&existing)
	switch {
	case err == nil:
		return types.Source{}, ErrSourceExists
	case !errors.Is(err, sql.ErrNoRows):
		return types.Source{}, fmt.Errorf("failed to look up source: %w", err)
	}

	src.Active = true
	src.CreatedAt = s.now().UTC()
	q := s.rebind(`INSERT INTO sources (name, url, category, active, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	if err := s.db.QueryRowContext(ctx, q, src.Name, src.URL, src.Category, true, s.timeArg(src.CreatedAt)).Scan(&src.ID); err != nil {
		return types.Source{}, fmt.Errorf("failed to insert source: %w", err)
	}
	return src, nil
}

// SetSourceActive enables or disables polling of a source.
func (s *Store) SetSourceActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE sources SET active = ? WHERE id = ?`), active, id)
	if err != nil {
		return fmt.Errorf("failed to update source: %w", err)
	}
	return checkAffected(res)
}

// MarkSourceFetched records that the source was just polled.
func (s *Store) MarkSourceFetched(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE sources SET last_fetched = ? WHERE id = ?`), s.timeArg(s.now()), id)
	if err != nil {
		return fmt.Errorf("failed to update last_fetched: %w", err)
	}
	return checkAffected(res)
}

func (s *Store) querySources(ctx context.Context, q string, args ...any) ([]types.Source, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	out := []types.Source{}
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (types.Source, error) {
	var (
		src         types.Source
		category    sql.NullString
		lastFetched nullTime
		createdAt   nullTime
	)
	if err := row.Scan(&src.ID, &src.Name, &src.URL, &category, &src.Active, &lastFetched, &createdAt); err != nil {
		return types.Source{}, err
	}
	src.Category = category.String
	src.LastFetched = lastFetched.ptr()
	src.CreatedAt = createdAt.Time
	return src, nil
}
