package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// ReadingInput is the editable part of a reading list entry.
type ReadingInput struct {
	Title    string
	URL      string
	Category string
	Notes    string
	IsRead   bool
}

type ReadingService struct {
	repo   repository.ReadingRepository
	logger *slog.Logger
}

func NewReadingService(repo repository.ReadingRepository, logger *slog.Logger) *ReadingService {
	return &ReadingService{repo: repo, logger: logger}
}

func (in ReadingInput) validate() (ReadingInput, error) {
	var err error
	if in.Title, err = requiredText("title", "title", in.Title, MaxTitleLength); err != nil {
		return in, err
	}
	if in.URL, err = optionalURL("url", in.URL); err != nil {
		return in, err
	}
	if in.Category, err = optionalText("category", "category", in.Category, MaxNameLength); err != nil {
		return in, err
	}
	if in.Notes, err = optionalText("notes", "notes", in.Notes, MaxTextLength); err != nil {
		return in, err
	}
	return in, nil
}

func (in ReadingInput) apply(it *model.ReadingItem) {
	it.Title, it.URL, it.Category, it.Notes, it.IsRead = in.Title, in.URL, in.Category, in.Notes, in.IsRead
}

func (s *ReadingService) Create(ctx context.Context, userID string, in ReadingInput) (*model.ReadingItem, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	it := &model.ReadingItem{UserID: userID}
	in.apply(it)
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("creating reading item: %w", err)
	}
	return it, nil
}

func (s *ReadingService) Get(ctx context.Context, userID, id string) (*model.ReadingItem, error) {
	id, err := requireID("reading item", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ReadingService) List(ctx context.Context, userID string, limit, offset int) ([]model.ReadingItem, error) {
	items, err := s.repo.List(ctx, userID, listOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("listing reading items: %w", err)
	}
	return items, nil
}

func (s *ReadingService) Update(ctx context.Context, userID, id string, in ReadingInput) (*model.ReadingItem, error) {
	id, err := requireID("reading item", id)
	if err != nil {
		return nil, err
	}
	if in, err = in.validate(); err != nil {
		return nil, err
	}
	it, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.apply(it)
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("updating reading item: %w", err)
	}
	return it, nil
}

// SetRead marks an entry read or unread and returns it.
func (s *ReadingService) SetRead(ctx context.Context, userID, id string, read bool) (*model.ReadingItem, error) {
	id, err := requireID("reading item", id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetRead(ctx, userID, id, read); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ReadingService) Delete(ctx context.Context, userID, id string) error {
	id, err := requireID("reading item", id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, id)
}
