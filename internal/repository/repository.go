// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage implements them; tests use in-memory
// fakes.
//
// Every method takes the owning userID: rows belonging to another user are
// reported as apperror.ErrNotFound, never as ErrForbidden, so IDs of other
// users' records can't be probed.
package repository

import (
	"context"

	"github.com/sakif/bounty-tracker/internal/model"
)

// ListOptions paginates list queries. A Limit <= 0 returns every row.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// EnsureLocal creates the single local-mode user if it doesn't exist.
	EnsureLocal(ctx context.Context, id, login string) error
}

type PlatformRepository interface {
	Create(ctx context.Context, p *model.Platform) error
	GetByID(ctx context.Context, userID, id string) (*model.Platform, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]model.Platform, error)
	Update(ctx context.Context, p *model.Platform) error
	Delete(ctx context.Context, userID, id string) error
}

type ReportRepository interface {
	Create(ctx context.Context, r *model.Report) error
	GetByID(ctx context.Context, userID, id string) (*model.Report, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]model.Report, error)
	Update(ctx context.Context, r *model.Report) error
	Delete(ctx context.Context, userID, id string) error
}

type BountyRepository interface {
	Create(ctx context.Context, b *model.Bounty) error
	GetByID(ctx context.Context, userID, id string) (*model.Bounty, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]model.Bounty, error)
	Update(ctx context.Context, b *model.Bounty) error
	Delete(ctx context.Context, userID, id string) error
}

type ChecklistRepository interface {
	Create(ctx context.Context, c *model.Checklist) error
	GetByID(ctx context.Context, userID, id string) (*model.Checklist, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]model.Checklist, error)
	Update(ctx context.Context, c *model.Checklist) error
	Delete(ctx context.Context, userID, id string) error

	AddItem(ctx context.Context, userID string, item *model.ChecklistItem) error
	ToggleItem(ctx context.Context, userID, checklistID, itemID string) (*model.ChecklistItem, error)
	DeleteItem(ctx context.Context, userID, checklistID, itemID string) error
}

type TipRepository interface {
	Create(ctx context.Context, t *model.Tip) error
	GetByID(ctx context.Context, userID, id string) (*model.Tip, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]model.Tip, error)
	Update(ctx context.Context, t *model.Tip) error
	Delete(ctx context.Context, userID, id string) error
}

type ReadingRepository interface {
	Create(ctx context.Context, item *model.ReadingItem) error
	GetByID(ctx context.Context, userID, id string) (*model.ReadingItem, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]model.ReadingItem, error)
	Update(ctx context.Context, item *model.ReadingItem) error
	SetRead(ctx context.Context, userID, id string, read bool) error
	Delete(ctx context.Context, userID, id string) error
}

// CredentialRepository stores one credential per (user, platform).
type CredentialRepository interface {
	Upsert(ctx context.Context, c *model.Credential) error
	Get(ctx context.Context, userID, platformID string) (*model.Credential, error)
	Delete(ctx context.Context, userID, platformID string) error
}
