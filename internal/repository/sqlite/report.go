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

var _ repository.ReportRepository = (*ReportStore)(nil)

// ReportStore persists submitted vulnerability reports.
//
// bounty_amount is a TEXT column: model.Money implements sql.Scanner and
// driver.Valuer through shopspring/decimal, so amounts round-trip exactly.
type ReportStore struct {
	conn *sql.DB
}

const reportColumns = `id, user_id, platform_id, title, severity, status, bounty_amount,
	submitted_at, url, description, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(sc rowScanner) (*model.Report, error) {
	var (
		r         model.Report
		submitted sql.NullTime
	)
	err := sc.Scan(&r.ID, &r.UserID, &r.PlatformID, &r.Title, &r.Severity, &r.Status,
		&r.BountyAmount, &submitted, &r.URL, &r.Description, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.SubmittedAt = timePtr(submitted)
	return &r, nil
}

func (s *ReportStore) Create(ctx context.Context, r *model.Report) error {
	now := time.Now()
	r.ID = xid.New().String()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO reports (`+reportColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.PlatformID, r.Title, string(r.Severity), string(r.Status),
		r.BountyAmount, nullTime(r.SubmittedAt), r.URL, r.Description, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating report: %w", err)
	}
	return nil
}

func (s *ReportStore) GetByID(ctx context.Context, userID, id string) (*model.Report, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("report", id)
		}
		return nil, fmt.Errorf("sqlite: getting report %s: %w", id, err)
	}
	return r, nil
}

// List returns the user's reports, most recently submitted first. Drafts
// (no submitted_at) sort after submitted reports, newest draft first.
func (s *ReportStore) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Report, error) {
	limit, offset := limitOffset(opts.Limit, opts.Offset)
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE user_id = ?
		 ORDER BY submitted_at IS NULL, submitted_at DESC, created_at DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reports: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning report row: %w", err)
		}
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reports: %w", err)
	}
	return reports, nil
}

func (s *ReportStore) Update(ctx context.Context, r *model.Report) error {
	r.UpdatedAt = time.Now()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE reports
		 SET platform_id = ?, title = ?, severity = ?, status = ?, bounty_amount = ?,
		     submitted_at = ?, url = ?, description = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		r.PlatformID, r.Title, string(r.Severity), string(r.Status), r.BountyAmount,
		nullTime(r.SubmittedAt), r.URL, r.Description, r.UpdatedAt, r.ID, r.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating report %s: %w", r.ID, err)
	}
	return checkAffected(res, apperror.NotFound("report", r.ID))
}

func (s *ReportStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM reports WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting report %s: %w", id, err)
	}
	return checkAffected(res, apperror.NotFound("report", id))
}
