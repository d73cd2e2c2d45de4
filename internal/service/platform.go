package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// PlatformInput is the editable part of a platform. Update replaces all
// of it.
type PlatformInput struct {
	Name  string
	URL   string
	Kind  model.PlatformKind
	Notes string
}

type PlatformService struct {
	repo   repository.PlatformRepository
	logger *slog.Logger
}

func NewPlatformService(repo repository.PlatformRepository, logger *slog.Logger) *PlatformService {
	return &PlatformService{repo: repo, logger: logger}
}

func (in PlatformInput) validate() (PlatformInput, error) {
	var err error
	if in.Name, err = requiredText("name", "platform name", in.Name, MaxNameLength); err != nil {
		return in, err
	}
	if in.URL, err = optionalURL("url", in.URL); err != nil {
		return in, err
	}
	if in.Notes, err = optionalText("notes", "notes", in.Notes, MaxTextLength); err != nil {
		return in, err
	}
	if in.Kind == "" {
		in.Kind = model.PlatformOther
	}
	if !in.Kind.IsValid() {
		return in, apperror.ValidationFailed("kind", fmt.Sprintf("unknown platform kind %q", in.Kind))
	}
	return in, nil
}

func (s *PlatformService) Create(ctx context.Context, userID string, in PlatformInput) (*model.Platform, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	p := &model.Platform{UserID: userID, Name: in.Name, URL: in.URL, Kind: in.Kind, Notes: in.Notes}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating platform: %w", err)
	}
	s.logger.Info("platform created", slog.String("id", p.ID), slog.String("kind", string(p.Kind)))
	return p, nil
}

func (s *PlatformService) Get(ctx context.Context, userID, id string) (*model.Platform, error) {
	id, err := requireID("platform", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *PlatformService) List(ctx context.Context, userID string, limit, offset int) ([]model.Platform, error) {
	platforms, err := s.repo.List(ctx, userID, listOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("listing platforms: %w", err)
	}
	return platforms, nil
}

func (s *PlatformService) Update(ctx context.Context, userID, id string, in PlatformInput) (*model.Platform, error) {
	id, err := requireID("platform", id)
	if err != nil {
		return nil, err
	}
	if in, err = in.validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	p.Name, p.URL, p.Kind, p.Notes = in.Name, in.URL, in.Kind, in.Notes
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating platform: %w", err)
	}
	return p, nil
}

// Delete also removes the platform's stored credential; reports that
// pointed at it are kept without a platform.
func (s *PlatformService) Delete(ctx context.Context, userID, id string) error {
	id, err := requireID("platform", id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("platform deleted", slog.String("id", id))
	return nil
}
