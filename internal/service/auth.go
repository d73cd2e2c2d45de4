package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/bounty-tracker/internal/auth"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// AuthService turns a GitHub login into a local user and a session token.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                                 ↘ TokenService (JWT)
//
// tokens is nil in local mode; only EnsureLocalUser and GetUserByID are
// used then.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// AuthResult bundles the user and the issued JWT so the handler can set
// the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// LoginOrRegisterGitHub upserts the user on github_id and issues a token.
// The first login creates the user; later logins refresh login, email and
// avatar but keep the internal ID, so owned records stay attached.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, errors.New("service/auth: GitHub user must not be nil")
	}
	if s.tokens == nil {
		return nil, errors.New("service/auth: login is disabled in local mode")
	}

	user := &model.User{
		GitHubID:  ghUser.ID,
		Login:     ghUser.Login,
		Email:     ghUser.Email,
		AvatarURL: ghUser.AvatarURL,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", user.Login),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// EnsureLocalUser creates the local-mode user on startup. Records need an
// owning users row because of the foreign keys.
func (s *AuthService) EnsureLocalUser(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("service/auth: local user ID must not be empty")
	}
	if err := s.users.EnsureLocal(ctx, id, id); err != nil {
		return fmt.Errorf("service/auth: %w", err)
	}
	s.logger.Info("running in local single-user mode", slog.String("userID", id))
	return nil
}

// GetUserByID backs GET /api/me.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, errors.New("service/auth: user ID must not be empty")
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}
