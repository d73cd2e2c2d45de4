package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/hackerone"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
	"github.com/sakif/bounty-tracker/internal/secret"
)

// CredentialService stores platform API credentials and hands them back to
// the sync. The API token only exists in plaintext in memory: it is sealed
// before it reaches the repository and never returned over HTTP.
type CredentialService struct {
	creds     repository.CredentialRepository
	platforms repository.PlatformRepository
	sealer    *secret.Sealer
	logger    *slog.Logger
}

func NewCredentialService(
	creds repository.CredentialRepository,
	platforms repository.PlatformRepository,
	sealer *secret.Sealer,
	logger *slog.Logger,
) *CredentialService {
	return &CredentialService{creds: creds, platforms: platforms, sealer: sealer, logger: logger}
}

// sealingAAD ties a sealed blob to its row. A blob copied onto another
// user's or platform's row fails to open.
func sealingAAD(userID, platformID string) []byte {
	return []byte(userID + "/" + platformID)
}

// Save seals apiToken and upserts the credential for the platform.
func (s *CredentialService) Save(ctx context.Context, userID, platformID, username, apiToken string) (*model.CredentialStatus, error) {
	platformID, err := requireID("platform", platformID)
	if err != nil {
		return nil, err
	}
	if username, err = requiredText("username", "username", username, MaxNameLength); err != nil {
		return nil, err
	}
	apiToken = strings.TrimSpace(apiToken)
	if apiToken == "" {
		return nil, apperror.ValidationFailed("api_token", "api token is required")
	}
	if _, err := s.platforms.GetByID(ctx, userID, platformID); err != nil {
		return nil, err
	}

	blob, err := json.Marshal(model.CredentialBlob{APIToken: apiToken})
	if err != nil {
		return nil, fmt.Errorf("encoding credential blob: %w", err)
	}
	sealed, err := s.sealer.Seal(blob, sealingAAD(userID, platformID))
	if err != nil {
		return nil, fmt.Errorf("sealing credential: %w", err)
	}

	c := &model.Credential{
		UserID:     userID,
		PlatformID: platformID,
		Username:   username,
		SealedBlob: sealed,
	}
	if err := s.creds.Upsert(ctx, c); err != nil {
		return nil, fmt.Errorf("storing credential: %w", err)
	}

	s.logger.Info("platform credential saved",
		slog.String("platformID", platformID),
		slog.String("username", username),
	)
	return &model.CredentialStatus{
		PlatformID: platformID,
		Configured: true,
		Username:   c.Username,
		UpdatedAt:  c.UpdatedAt,
	}, nil
}

// Status reports whether a credential is stored, without the token.
func (s *CredentialService) Status(ctx context.Context, userID, platformID string) (*model.CredentialStatus, error) {
	platformID, err := requireID("platform", platformID)
	if err != nil {
		return nil, err
	}
	if _, err := s.platforms.GetByID(ctx, userID, platformID); err != nil {
		return nil, err
	}

	c, err := s.creds.Get(ctx, userID, platformID)
	if errors.Is(err, apperror.ErrNotFound) {
		return &model.CredentialStatus{PlatformID: platformID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading credential: %w", err)
	}
	return &model.CredentialStatus{
		PlatformID: platformID,
		Configured: true,
		Username:   c.Username,
		UpdatedAt:  c.UpdatedAt,
	}, nil
}

func (s *CredentialService) Delete(ctx context.Context, userID, platformID string) error {
	platformID, err := requireID("platform", platformID)
	if err != nil {
		return err
	}
	if err := s.creds.Delete(ctx, userID, platformID); err != nil {
		return err
	}
	s.logger.Info("platform credential deleted", slog.String("platformID", platformID))
	return nil
}

// Resolve returns the usable credentials for a platform. It returns
// ErrNotFound when none are stored and ErrInvalidCredentials when the
// stored blob can't be opened or lacks a username or token. It has no
// side effects.
func (s *CredentialService) Resolve(ctx context.Context, userID, platformID string) (hackerone.Credentials, error) {
	c, err := s.creds.Get(ctx, userID, platformID)
	if err != nil {
		return hackerone.Credentials{}, err
	}

	plain, err := s.sealer.Open(c.SealedBlob, sealingAAD(userID, platformID))
	if err != nil {
		s.logger.Warn("stored credential could not be opened",
			slog.String("platformID", platformID),
			slog.String("error", err.Error()),
		)
		return hackerone.Credentials{}, apperror.InvalidCredentials("stored credential could not be decrypted")
	}

	var blob model.CredentialBlob
	if err := json.Unmarshal(plain, &blob); err != nil {
		return hackerone.Credentials{}, apperror.InvalidCredentials("stored credential is malformed")
	}
	if strings.TrimSpace(blob.APIToken) == "" {
		return hackerone.Credentials{}, apperror.InvalidCredentials("stored credential has no api token")
	}
	if strings.TrimSpace(c.Username) == "" {
		return hackerone.Credentials{}, apperror.InvalidCredentials("stored credential has no username")
	}
	return hackerone.Credentials{Username: c.Username, Token: blob.APIToken}, nil
}
