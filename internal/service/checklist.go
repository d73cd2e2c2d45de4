package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// ChecklistInput describes a checklist. Items are only read by Create;
// afterwards they are edited one at a time.
type ChecklistInput struct {
	Title    string
	Category string
	Items    []string
}

type ChecklistService struct {
	repo   repository.ChecklistRepository
	logger *slog.Logger
}

func NewChecklistService(repo repository.ChecklistRepository, logger *slog.Logger) *ChecklistService {
	return &ChecklistService{repo: repo, logger: logger}
}

func (in ChecklistInput) validate() (ChecklistInput, error) {
	var err error
	if in.Title, err = requiredText("title", "title", in.Title, MaxTitleLength); err != nil {
		return in, err
	}
	if in.Category, err = optionalText("category", "category", in.Category, MaxNameLength); err != nil {
		return in, err
	}
	for i, text := range in.Items {
		if in.Items[i], err = requiredText("items", "item text", text, MaxTitleLength); err != nil {
			return in, err
		}
	}
	return in, nil
}

// Create stores the checklist and its initial items in order.
func (s *ChecklistService) Create(ctx context.Context, userID string, in ChecklistInput) (*model.Checklist, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	c := &model.Checklist{UserID: userID, Title: in.Title, Category: in.Category}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating checklist: %w", err)
	}
	for _, text := range in.Items {
		item := &model.ChecklistItem{ChecklistID: c.ID, Text: text}
		if err := s.repo.AddItem(ctx, userID, item); err != nil {
			return nil, fmt.Errorf("adding checklist item: %w", err)
		}
		c.Items = append(c.Items, *item)
	}

	s.logger.Info("checklist created", slog.String("id", c.ID), slog.Int("items", len(c.Items)))
	return c, nil
}

func (s *ChecklistService) Get(ctx context.Context, userID, id string) (*model.Checklist, error) {
	id, err := requireID("checklist", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ChecklistService) List(ctx context.Context, userID string, limit, offset int) ([]model.Checklist, error) {
	lists, err := s.repo.List(ctx, userID, listOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("listing checklists: %w", err)
	}
	return lists, nil
}

// Update renames or recategorises a checklist. in.Items is ignored.
func (s *ChecklistService) Update(ctx context.Context, userID, id string, in ChecklistInput) (*model.Checklist, error) {
	id, err := requireID("checklist", id)
	if err != nil {
		return nil, err
	}
	in.Items = nil
	if in, err = in.validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.Title, c.Category = in.Title, in.Category
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("updating checklist: %w", err)
	}
	return c, nil
}

func (s *ChecklistService) Delete(ctx context.Context, userID, id string) error {
	id, err := requireID("checklist", id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, id)
}

// AddItem appends an item at the end of the checklist.
func (s *ChecklistService) AddItem(ctx context.Context, userID, checklistID, text string) (*model.ChecklistItem, error) {
	checklistID, err := requireID("checklist", checklistID)
	if err != nil {
		return nil, err
	}
	if text, err = requiredText("text", "item text", text, MaxTitleLength); err != nil {
		return nil, err
	}

	item := &model.ChecklistItem{ChecklistID: checklistID, Text: text}
	if err := s.repo.AddItem(ctx, userID, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ChecklistService) ToggleItem(ctx context.Context, userID, checklistID, itemID string) (*model.ChecklistItem, error) {
	if _, err := requireID("checklist", checklistID); err != nil {
		return nil, err
	}
	if _, err := requireID("item", itemID); err != nil {
		return nil, err
	}
	return s.repo.ToggleItem(ctx, userID, checklistID, itemID)
}

func (s *ChecklistService) DeleteItem(ctx context.Context, userID, checklistID, itemID string) error {
	if _, err := requireID("checklist", checklistID); err != nil {
		return err
	}
	if _, err := requireID("item", itemID); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, userID, checklistID, itemID)
}
