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

var _ repository.ChecklistRepository = (*ChecklistStore)(nil)

// ChecklistStore persists checklists together with their items.
//
// Items have no user_id column; ownership is always checked through the
// parent checklist. Queries never nest while a *sql.Rows is open, because
// the in-memory test database has a single connection.
type ChecklistStore struct {
	conn *sql.DB
}

func (s *ChecklistStore) Create(ctx context.Context, c *model.Checklist) error {
	now := time.Now()
	c.ID = xid.New().String()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Items = []model.ChecklistItem{}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO checklists (id, user_id, title, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, c.Category, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating checklist: %w", err)
	}
	return nil
}

// GetByID returns the checklist with its items ordered by position.
func (s *ChecklistStore) GetByID(ctx context.Context, userID, id string) (*model.Checklist, error) {
	var c model.Checklist
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, category, created_at, updated_at
		 FROM checklists WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&c.ID, &c.UserID, &c.Title, &c.Category, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("checklist", id)
		}
		return nil, fmt.Errorf("sqlite: getting checklist %s: %w", id, err)
	}

	items, err := s.itemsFor(ctx, userID, map[string]bool{c.ID: true})
	if err != nil {
		return nil, err
	}
	c.Items = items[c.ID]
	if c.Items == nil {
		c.Items = []model.ChecklistItem{}
	}
	return &c, nil
}

func (s *ChecklistStore) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Checklist, error) {
	limit, offset := limitOffset(opts.Limit, opts.Offset)
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, title, category, created_at, updated_at
		 FROM checklists WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing checklists: %w", err)
	}

	checklists := []model.Checklist{}
	for rows.Next() {
		var c model.Checklist
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Category, &c.CreatedAt, &c.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite: scanning checklist row: %w", err)
		}
		checklists = append(checklists, c)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("sqlite: iterating checklists: %w", err)
	}
	if len(checklists) == 0 {
		return checklists, nil
	}

	wanted := make(map[string]bool, len(checklists))
	for _, c := range checklists {
		wanted[c.ID] = true
	}
	items, err := s.itemsFor(ctx, userID, wanted)
	if err != nil {
		return nil, err
	}
	for i := range checklists {
		checklists[i].Items = items[checklists[i].ID]
		if checklists[i].Items == nil {
			checklists[i].Items = []model.ChecklistItem{}
		}
	}
	return checklists, nil
}

// itemsFor loads the items of the user's checklists and groups them by
// checklist ID, keeping only the checklists in wanted.
func (s *ChecklistStore) itemsFor(ctx context.Context, userID string, wanted map[string]bool) (map[string][]model.ChecklistItem, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT i.id, i.checklist_id, i.text, i.done, i.position, i.created_at
		 FROM checklist_items i
		 JOIN checklists c ON c.id = i.checklist_id
		 WHERE c.user_id = ?
		 ORDER BY i.position, i.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing checklist items: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]model.ChecklistItem)
	for rows.Next() {
		var it model.ChecklistItem
		if err := rows.Scan(&it.ID, &it.ChecklistID, &it.Text, &it.Done, &it.Position, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning checklist item row: %w", err)
		}
		if wanted[it.ChecklistID] {
			grouped[it.ChecklistID] = append(grouped[it.ChecklistID], it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating checklist items: %w", err)
	}
	return grouped, nil
}

// Update changes the checklist's own fields. Items are managed through
// AddItem, ToggleItem and DeleteItem.
func (s *ChecklistStore) Update(ctx context.Context, c *model.Checklist) error {
	c.UpdatedAt = time.Now()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE checklists SET title = ?, category = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		c.Title, c.Category, c.UpdatedAt, c.ID, c.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating checklist %s: %w", c.ID, err)
	}
	return checkAffected(res, apperror.NotFound("checklist", c.ID))
}

func (s *ChecklistStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM checklists WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting checklist %s: %w", id, err)
	}
	return checkAffected(res, apperror.NotFound("checklist", id))
}

// AddItem appends an item to the end of its checklist. The ownership check
// and the position lookup run in one transaction so concurrent appends
// can't pick the same position.
func (s *ChecklistStore) AddItem(ctx context.Context, userID string, item *model.ChecklistItem) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var owned int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM checklists WHERE id = ? AND user_id = ?`,
		item.ChecklistID, userID,
	).Scan(&owned)
	if err != nil {
		return fmt.Errorf("sqlite: checking checklist %s: %w", item.ChecklistID, err)
	}
	if owned == 0 {
		return apperror.NotFound("checklist", item.ChecklistID)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM checklist_items WHERE checklist_id = ?`,
		item.ChecklistID,
	).Scan(&item.Position)
	if err != nil {
		return fmt.Errorf("sqlite: finding next item position: %w", err)
	}

	item.ID = xid.New().String()
	item.CreatedAt = time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO checklist_items (id, checklist_id, text, done, position, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.ChecklistID, item.Text, item.Done, item.Position, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding checklist item: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE checklists SET updated_at = ? WHERE id = ?`, item.CreatedAt, item.ChecklistID,
	); err != nil {
		return fmt.Errorf("sqlite: touching checklist %s: %w", item.ChecklistID, err)
	}

	return tx.Commit()
}

// ToggleItem flips an item's done flag and returns the updated item.
func (s *ChecklistStore) ToggleItem(ctx context.Context, userID, checklistID, itemID string) (*model.ChecklistItem, error) {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE checklist_items SET done = NOT done
		 WHERE id = ? AND checklist_id = ?
		   AND checklist_id IN (SELECT id FROM checklists WHERE user_id = ?)`,
		itemID, checklistID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: toggling checklist item %s: %w", itemID, err)
	}
	if err := checkAffected(res, apperror.NotFound("checklist item", itemID)); err != nil {
		return nil, err
	}

	var it model.ChecklistItem
	err = s.conn.QueryRowContext(ctx,
		`SELECT id, checklist_id, text, done, position, created_at
		 FROM checklist_items WHERE id = ?`,
		itemID,
	).Scan(&it.ID, &it.ChecklistID, &it.Text, &it.Done, &it.Position, &it.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading checklist item %s: %w", itemID, err)
	}
	return &it, nil
}

func (s *ChecklistStore) DeleteItem(ctx context.Context, userID, checklistID, itemID string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM checklist_items
		 WHERE id = ? AND checklist_id = ?
		   AND checklist_id IN (SELECT id FROM checklists WHERE user_id = ?)`,
		itemID, checklistID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting checklist item %s: %w", itemID, err)
	}
	return checkAffected(res, apperror.NotFound("checklist item", itemID))
}
