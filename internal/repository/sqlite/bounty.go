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

var _ repository.BountyRepository = (*BountyStore)(nil)

// BountyStore persists monetary bounty targets.
type BountyStore struct {
	conn *sql.DB
}

const bountyColumns = `id, user_id, title, target_amount, current_amount, deadline, notes, created_at, updated_at`

func scanBounty(sc rowScanner) (*model.Bounty, error) {
	var (
		b        model.Bounty
		deadline sql.NullTime
	)
	err := sc.Scan(&b.ID, &b.UserID, &b.Title, &b.TargetAmount, &b.CurrentAmount,
		&deadline, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Deadline = timePtr(deadline)
	return &b, nil
}

func (s *BountyStore) Create(ctx context.Context, b *model.Bounty) error {
	now := time.Now()
	b.ID = xid.New().String()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO bounties (`+bountyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Title, b.TargetAmount, b.CurrentAmount,
		nullTime(b.Deadline), b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating bounty: %w", err)
	}
	return nil
}

func (s *BountyStore) GetByID(ctx context.Context, userID, id string) (*model.Bounty, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+bountyColumns+` FROM bounties WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBounty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("bounty", id)
		}
		return nil, fmt.Errorf("sqlite: getting bounty %s: %w", id, err)
	}
	return b, nil
}

// List returns bounties with the nearest deadline first; open-ended
// targets come last.
func (s *BountyStore) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Bounty, error) {
	limit, offset := limitOffset(opts.Limit, opts.Offset)
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+bountyColumns+` FROM bounties WHERE user_id = ?
		 ORDER BY deadline IS NULL, deadline, created_at DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bounties: %w", err)
	}
	defer rows.Close()

	bounties := []model.Bounty{}
	for rows.Next() {
		b, err := scanBounty(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning bounty row: %w", err)
		}
		bounties = append(bounties, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating bounties: %w", err)
	}
	return bounties, nil
}

func (s *BountyStore) Update(ctx context.Context, b *model.Bounty) error {
	b.UpdatedAt = time.Now()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE bounties
		 SET title = ?, target_amount = ?, current_amount = ?, deadline = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		b.Title, b.TargetAmount, b.CurrentAmount, nullTime(b.Deadline), b.Notes, b.UpdatedAt,
		b.ID, b.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating bounty %s: %w", b.ID, err)
	}
	return checkAffected(res, apperror.NotFound("bounty", b.ID))
}

func (s *BountyStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM bounties WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting bounty %s: %w", id, err)
	}
	return checkAffected(res, apperror.NotFound("bounty", id))
}
