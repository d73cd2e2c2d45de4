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

var _ repository.TipRepository = (*TipStore)(nil)

// TipStore persists tips.
type TipStore struct {
	conn *sql.DB
}

func (s *TipStore) Create(ctx context.Context, t *model.Tip) error {
	now := time.Now()
	t.ID = xid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO tips (id, user_id, title, content, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, t.Content, t.Category, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating tip: %w", err)
	}
	return nil
}

func (s *TipStore) GetByID(ctx context.Context, userID, id string) (*model.Tip, error) {
	var t model.Tip
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, category, created_at, updated_at
		 FROM tips WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Content, &t.Category, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("tip", id)
		}
		return nil, fmt.Errorf("sqlite: getting tip %s: %w", id, err)
	}
	return &t, nil
}

func (s *TipStore) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Tip, error) {
	limit, offset := limitOffset(opts.Limit, opts.Offset)
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, title, content, category, created_at, updated_at
		 FROM tips WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tips: %w", err)
	}
	defer rows.Close()

	tips := []model.Tip{}
	for rows.Next() {
		var t model.Tip
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Content, &t.Category, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tip row: %w", err)
		}
		tips = append(tips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tips: %w", err)
	}
	return tips, nil
}

func (s *TipStore) Update(ctx context.Context, t *model.Tip) error {
	t.UpdatedAt = time.Now()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE tips SET title = ?, content = ?, category = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		t.Title, t.Content, t.Category, t.UpdatedAt, t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating tip %s: %w", t.ID, err)
	}
	return checkAffected(res, apperror.NotFound("tip", t.ID))
}

func (s *TipStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM tips WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting tip %s: %w", id, err)
	}
	return checkAffected(res, apperror.NotFound("tip", id))
}
