package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

var _ repository.CredentialRepository = (*CredentialStore)(nil)

// CredentialStore persists sealed platform credentials. It only ever
// handles ciphertext; sealing happens in the service layer.
type CredentialStore struct {
	conn *sql.DB
}

// Upsert stores the credential for (UserID, PlatformID), replacing any
// previous one. created_at survives a replacement.
func (s *CredentialStore) Upsert(ctx context.Context, c *model.Credential) error {
	now := time.Now()
	c.UpdatedAt = now
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO platform_credentials (user_id, platform_id, username, sealed_blob, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, platform_id) DO UPDATE SET
		   username    = excluded.username,
		   sealed_blob = excluded.sealed_blob,
		   updated_at  = excluded.updated_at`,
		c.UserID, c.PlatformID, c.Username, c.SealedBlob, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: storing credential for platform %s: %w", c.PlatformID, err)
	}
	return nil
}

// Get returns apperror.ErrNotFound when no credential is stored.
func (s *CredentialStore) Get(ctx context.Context, userID, platformID string) (*model.Credential, error) {
	var c model.Credential
	err := s.conn.QueryRowContext(ctx,
		`SELECT user_id, platform_id, username, sealed_blob, created_at, updated_at
		 FROM platform_credentials WHERE user_id = ? AND platform_id = ?`,
		userID, platformID,
	).Scan(&c.UserID, &c.PlatformID, &c.Username, &c.SealedBlob, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("credential", platformID)
		}
		return nil, fmt.Errorf("sqlite: getting credential for platform %s: %w", platformID, err)
	}
	return &c, nil
}

func (s *CredentialStore) Delete(ctx context.Context, userID, platformID string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM platform_credentials WHERE user_id = ? AND platform_id = ?`,
		userID, platformID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting credential for platform %s: %w", platformID, err)
	}
	return checkAffected(res, apperror.NotFound("credential", platformID))
}
