package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// BountyInput is the editable part of a bounty target.
type BountyInput struct {
	Title         string
	TargetAmount  model.Money
	CurrentAmount model.Money
	Deadline      *time.Time
	Notes         string
}

type BountyService struct {
	repo   repository.BountyRepository
	now    func() time.Time
	logger *slog.Logger
}

func NewBountyService(repo repository.BountyRepository, logger *slog.Logger) *BountyService {
	return &BountyService{repo: repo, now: time.Now, logger: logger}
}

func (in BountyInput) validate() (BountyInput, error) {
	var err error
	if in.Title, err = requiredText("title", "title", in.Title, MaxTitleLength); err != nil {
		return in, err
	}
	if in.Notes, err = optionalText("notes", "notes", in.Notes, MaxTextLength); err != nil {
		return in, err
	}
	if !in.TargetAmount.IsPositive() {
		return in, apperror.ValidationFailed("targetAmount", "target amount must be positive")
	}
	if in.CurrentAmount.IsNegative() {
		return in, apperror.ValidationFailed("currentAmount", "current amount must not be negative")
	}
	return in, nil
}

func (in BountyInput) apply(b *model.Bounty) {
	b.Title = in.Title
	b.TargetAmount = in.TargetAmount
	b.CurrentAmount = in.CurrentAmount
	b.Deadline = in.Deadline
	b.Notes = in.Notes
}

func (s *BountyService) Create(ctx context.Context, userID string, in BountyInput) (*model.Bounty, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	b := &model.Bounty{UserID: userID}
	in.apply(b)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("creating bounty: %w", err)
	}
	s.logger.Info("bounty target created", slog.String("id", b.ID), slog.String("target", b.TargetAmount.String()))
	return b, nil
}

func (s *BountyService) Get(ctx context.Context, userID, id string) (*model.Bounty, error) {
	id, err := requireID("bounty", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

func (s *BountyService) List(ctx context.Context, userID string, limit, offset int) ([]model.Bounty, error) {
	bounties, err := s.repo.List(ctx, userID, listOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("listing bounties: %w", err)
	}
	return bounties, nil
}

func (s *BountyService) Update(ctx context.Context, userID, id string, in BountyInput) (*model.Bounty, error) {
	id, err := requireID("bounty", id)
	if err != nil {
		return nil, err
	}
	if in, err = in.validate(); err != nil {
		return nil, err
	}
	b, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.apply(b)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("updating bounty: %w", err)
	}
	return b, nil
}

func (s *BountyService) Delete(ctx context.Context, userID, id string) error {
	id, err := requireID("bounty", id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, id)
}

// Progress computes the bounty's progress as of now.
func (s *BountyService) Progress(ctx context.Context, userID, id string) (*model.BountyProgress, error) {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	p := ComputeProgress(*b, s.now())
	return &p, nil
}

var hundred = decimal.NewFromInt(100)

// ComputeProgress derives progress at time now:
//
//   - Percent is current/target as a percentage, capped at 100 and
//     rounded to two decimals.
//   - Remaining is target-current, never below zero.
//   - Overdue means the deadline has passed and the target isn't reached.
//   - TimeLeft is zero once the deadline has passed. DaysLeft rounds up,
//     so anything under a day left is 1; it turns negative after the
//     deadline.
func ComputeProgress(b model.Bounty, now time.Time) model.BountyProgress {
	p := model.BountyProgress{BountyID: b.ID}

	target, current := b.TargetAmount.Decimal, b.CurrentAmount.Decimal
	p.Completed = current.GreaterThanOrEqual(target)

	if target.IsPositive() {
		pct := current.Div(target).Mul(hundred)
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		p.Percent = pct.Round(2).InexactFloat64()
	}

	remaining := target.Sub(current)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	p.Remaining = model.NewMoney(remaining)

	if b.Deadline == nil {
		return p
	}
	p.HasDue = true

	left := b.Deadline.Sub(now)
	p.DaysLeft = int(math.Ceil(left.Hours() / 24))
	if left <= 0 {
		p.Overdue = !p.Completed
		return p
	}
	p.TimeLeft = model.Countdown{
		Days:    int(left / (24 * time.Hour)),
		Hours:   int(left % (24 * time.Hour) / time.Hour),
		Minutes: int(left % time.Hour / time.Minute),
	}
	return p
}
