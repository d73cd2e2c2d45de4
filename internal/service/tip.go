package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// TipInput is the editable part of a tip. Content is markdown and is
// stored as given apart from trimming.
type TipInput struct {
	Title    string
	Content  string
	Category string
}

type TipService struct {
	repo   repository.TipRepository
	logger *slog.Logger
}

func NewTipService(repo repository.TipRepository, logger *slog.Logger) *TipService {
	return &TipService{repo: repo, logger: logger}
}

func (in TipInput) validate() (TipInput, error) {
	var err error
	if in.Title, err = requiredText("title", "title", in.Title, MaxTitleLength); err != nil {
		return in, err
	}
	if in.Content, err = optionalText("content", "content", in.Content, MaxTextLength); err != nil {
		return in, err
	}
	if in.Category, err = optionalText("category", "category", in.Category, MaxNameLength); err != nil {
		return in, err
	}
	return in, nil
}

func (s *TipService) Create(ctx context.Context, userID string, in TipInput) (*model.Tip, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	t := &model.Tip{UserID: userID, Title: in.Title, Content: in.Content, Category: in.Category}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating tip: %w", err)
	}
	return t, nil
}

func (s *TipService) Get(ctx context.Context, userID, id string) (*model.Tip, error) {
	id, err := requireID("tip", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *TipService) List(ctx context.Context, userID string, limit, offset int) ([]model.Tip, error) {
	tips, err := s.repo.List(ctx, userID, listOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("listing tips: %w", err)
	}
	return tips, nil
}

func (s *TipService) Update(ctx context.Context, userID, id string, in TipInput) (*model.Tip, error) {
	id, err := requireID("tip", id)
	if err != nil {
		return nil, err
	}
	if in, err = in.validate(); err != nil {
		return nil, err
	}
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.Title, t.Content, t.Category = in.Title, in.Content, in.Category
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("updating tip: %w", err)
	}
	return t, nil
}

func (s *TipService) Delete(ctx context.Context, userID, id string) error {
	id, err := requireID("tip", id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, id)
}
