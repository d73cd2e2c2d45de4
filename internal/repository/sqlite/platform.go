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

var _ repository.PlatformRepository = (*PlatformStore)(nil)

// PlatformStore persists bug bounty platforms.
type PlatformStore struct {
	conn *sql.DB
}

// Create inserts a platform, generating its ID and timestamps in place.
func (s *PlatformStore) Create(ctx context.Context, p *model.Platform) error {
	now := time.Now()
	p.ID = xid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO platforms (id, user_id, name, url, kind, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.URL, string(p.Kind), p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating platform: %w", err)
	}
	return nil
}

func (s *PlatformStore) GetByID(ctx context.Context, userID, id string) (*model.Platform, error) {
	var p model.Platform
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, url, kind, notes, created_at, updated_at
		 FROM platforms WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.URL, &p.Kind, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("platform", id)
		}
		return nil, fmt.Errorf("sqlite: getting platform %s: %w", id, err)
	}
	return &p, nil
}

// List returns the user's platforms in alphabetical order.
func (s *PlatformStore) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Platform, error) {
	limit, offset := limitOffset(opts.Limit, opts.Offset)
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, name, url, kind, notes, created_at, updated_at
		 FROM platforms WHERE user_id = ?
		 ORDER BY name COLLATE NOCASE
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing platforms: %w", err)
	}
	defer rows.Close()

	platforms := []model.Platform{}
	for rows.Next() {
		var p model.Platform
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.URL, &p.Kind, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning platform row: %w", err)
		}
		platforms = append(platforms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating platforms: %w", err)
	}
	return platforms, nil
}

func (s *PlatformStore) Update(ctx context.Context, p *model.Platform) error {
	p.UpdatedAt = time.Now()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE platforms SET name = ?, url = ?, kind = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		p.Name, p.URL, string(p.Kind), p.Notes, p.UpdatedAt, p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating platform %s: %w", p.ID, err)
	}
	return checkAffected(res, apperror.NotFound("platform", p.ID))
}

// Delete removes a platform. Its stored credential goes with it
// (ON DELETE CASCADE); reports keep existing with platform_id set to NULL.
func (s *PlatformStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM platforms WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting platform %s: %w", id, err)
	}
	return checkAffected(res, apperror.NotFound("platform", id))
}
