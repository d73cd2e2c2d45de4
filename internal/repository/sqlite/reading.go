package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

var _ repository.ReadingRepository = (*ReadingStore)(nil)

// ReadingStore persists the reading list. is_read is stored as 0/1;
// database/sql converts it to and from bool.
type ReadingStore struct {
	conn *sql.DB
}

const readingColumns = `id, user_id, title, url, category, is_read, notes, created_at, updated_at`

func scanReading(sc rowScanner) (*model.ReadingItem, error) {
	var it model.ReadingItem
	err := sc.Scan(&it.ID, &it.UserID, &it.Title, &it.URL, &it.Category, &it.IsRead,
		&it.Notes, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *ReadingStore) Create(ctx context.Context, it *model.ReadingItem) error {
	now := time.Now()
	it.ID = xid.New().String()
	it.CreatedAt = now
	it.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO reading_items (`+readingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.UserID, it.Title, it.URL, it.Category, it.IsRead, it.Notes, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating reading item: %w", err)
	}
	return nil
}

func (s *ReadingStore) GetByID(ctx context.Context, userID, id string) (*model.ReadingItem, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+readingColumns+` FROM reading_items WHERE id = ? AND user_id = ?`, id, userID)
	it, err := scanReading(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("reading item", id)
		}
		return nil, fmt.Errorf("sqlite: getting reading item %s: %w", id, err)
	}
	return it, nil
}

// List returns unread items first, newest first within each group.
func (s *ReadingStore) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.ReadingItem, error) {
	limit, offset := limitOffset(opts.Limit, opts.Offset)
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+readingColumns+` FROM reading_items WHERE user_id = ?
		 ORDER BY is_read, created_at DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reading items: %w", err)
	}
	defer rows.Close()

	items := []model.ReadingItem{}
	for rows.Next() {
		it, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning reading item row: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reading items: %w", err)
	}
	return items, nil
}

func (s *ReadingStore) Update(ctx context.Context, it *model.ReadingItem) error {
	it.UpdatedAt = time.Now()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE reading_items SET title = ?, url = ?, category = ?, is_read = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		it.Title, it.URL, it.Category, it.IsRead, it.Notes, it.UpdatedAt, it.ID, it.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating reading item %s: %w", it.ID, err)
	}
	return checkAffected(res, apperror.NotFound("reading item", it.ID))
}

// SetRead flips only the read flag, leaving the rest of the row alone.
func (s *ReadingStore) SetRead(ctx context.Context, userID, id string, read bool) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE reading_items SET is_read = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		read, time.Now(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: marking reading item %s: %w", id, err)
	}
	return checkAffected(res, apperror.NotFound("reading item", id))
}

func (s *ReadingStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM reading_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting reading item %s: %w", id, err)
	}
	return checkAffected(res, apperror.NotFound("reading item", id))
}
