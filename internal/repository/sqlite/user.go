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

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore persists user accounts.
type UserStore struct {
	conn *sql.DB
}

// Create inserts a new user. It fails on a duplicate github_id.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (id, github_id, login, email, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.GitHubID, user.Login, user.Email, user.AvatarURL,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (githubID=%d): %w", user.GitHubID, err)
	}
	return nil
}

// Upsert inserts or updates a user based on their GitHub ID.
//
// An existing user KEEPS their internal ID and created_at; only the profile
// fields (login, email, avatar) are refreshed. The caller's struct is
// filled with the canonical ID and timestamps.
func (s *UserStore) Upsert(ctx context.Context, user *model.User) error {
	existing, err := s.GetByGitHubID(ctx, user.GitHubID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	if existing == nil {
		return s.Create(ctx, user)
	}

	user.ID = existing.ID
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	_, err = s.conn.ExecContext(ctx,
		`UPDATE users SET login = ?, email = ?, avatar_url = ?, updated_at = ?
		 WHERE id = ?`,
		user.Login, user.Email, user.AvatarURL, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	return nil
}

// EnsureLocal creates the local-mode user row if it is missing. The local
// user has github_id 0, which no real GitHub account can have.
func (s *UserStore) EnsureLocal(ctx context.Context, id, login string) error {
	now := time.Now()
	_, err := s.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, github_id, login, created_at, updated_at)
		 VALUES (?, 0, ?, ?, ?)`,
		id, login, now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: ensuring local user %s: %w", id, err)
	}
	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.getOne(ctx, "id = ?", id, id)
}

// GetByGitHubID retrieves a user by their GitHub account ID.
func (s *UserStore) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	return s.getOne(ctx, "github_id = ?", githubID, fmt.Sprint(githubID))
}

func (s *UserStore) getOne(ctx context.Context, where string, arg any, label string) (*model.User, error) {
	var u model.User
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, github_id, login, email, avatar_url, created_at, updated_at
		 FROM users WHERE `+where,
		arg,
	).Scan(&u.ID, &u.GitHubID, &u.Login, &u.Email, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", label)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", label, err)
	}
	return &u, nil
}
