package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// ReportInput is the editable part of a report. A nil or empty PlatformID
// leaves the report unattached.
type ReportInput struct {
	PlatformID   *string
	Title        string
	Severity     model.Severity
	Status       model.ReportStatus
	BountyAmount model.Money
	SubmittedAt  *time.Time
	URL          string
	Description  string
}

type ReportService struct {
	repo      repository.ReportRepository
	platforms repository.PlatformRepository
	logger    *slog.Logger
}

func NewReportService(repo repository.ReportRepository, platforms repository.PlatformRepository, logger *slog.Logger) *ReportService {
	return &ReportService{repo: repo, platforms: platforms, logger: logger}
}

func (s *ReportService) validate(ctx context.Context, userID string, in ReportInput) (ReportInput, error) {
	var err error
	if in.Title, err = requiredText("title", "title", in.Title, MaxTitleLength); err != nil {
		return in, err
	}
	if in.URL, err = optionalURL("url", in.URL); err != nil {
		return in, err
	}
	if in.Description, err = optionalText("description", "description", in.Description, MaxTextLength); err != nil {
		return in, err
	}

	if in.Severity == "" {
		in.Severity = model.SeverityNone
	}
	if !in.Severity.IsValid() {
		return in, apperror.ValidationFailed("severity", fmt.Sprintf("unknown severity %q", in.Severity))
	}
	if in.Status == "" {
		in.Status = model.StatusNew
	}
	if !in.Status.IsValid() {
		return in, apperror.ValidationFailed("status", fmt.Sprintf("unknown status %q", in.Status))
	}
	if in.BountyAmount.IsNegative() {
		return in, apperror.ValidationFailed("bountyAmount", "bounty amount must not be negative")
	}

	if in.PlatformID != nil && strings.TrimSpace(*in.PlatformID) == "" {
		in.PlatformID = nil
	}
	if in.PlatformID != nil {
		if _, err := s.platforms.GetByID(ctx, userID, *in.PlatformID); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return in, apperror.ValidationFailed("platformId", "platform does not exist")
			}
			return in, fmt.Errorf("checking platform: %w", err)
		}
	}
	return in, nil
}

func (in ReportInput) apply(r *model.Report) {
	r.PlatformID = in.PlatformID
	r.Title = in.Title
	r.Severity = in.Severity
	r.Status = in.Status
	r.BountyAmount = in.BountyAmount
	r.SubmittedAt = in.SubmittedAt
	r.URL = in.URL
	r.Description = in.Description
}

func (s *ReportService) Create(ctx context.Context, userID string, in ReportInput) (*model.Report, error) {
	in, err := s.validate(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	r := &model.Report{UserID: userID}
	in.apply(r)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}
	s.logger.Info("report created",
		slog.String("id", r.ID),
		slog.String("severity", string(r.Severity)),
		slog.String("status", string(r.Status)),
	)
	return r, nil
}

func (s *ReportService) Get(ctx context.Context, userID, id string) (*model.Report, error) {
	id, err := requireID("report", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID, id)
}

// List returns the reports matching f, paginated after filtering.
func (s *ReportService) List(ctx context.Context, userID string, f model.ReportFilter, limit, offset int) ([]model.Report, error) {
	all, err := s.repo.List(ctx, userID, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	filtered := FilterReports(all, f)
	opts := listOptions(limit, offset)
	if opts.Offset >= len(filtered) {
		return []model.Report{}, nil
	}
	filtered = filtered[opts.Offset:]
	if len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}
	return filtered, nil
}

func (s *ReportService) Update(ctx context.Context, userID, id string, in ReportInput) (*model.Report, error) {
	id, err := requireID("report", id)
	if err != nil {
		return nil, err
	}
	if in, err = s.validate(ctx, userID, in); err != nil {
		return nil, err
	}

	r, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.apply(r)
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("updating report: %w", err)
	}
	return r, nil
}

func (s *ReportService) Delete(ctx context.Context, userID, id string) error {
	id, err := requireID("report", id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, id)
}

// Stats aggregates every report of the user.
func (s *ReportService) Stats(ctx context.Context, userID string) (model.ReportStats, error) {
	all, err := s.repo.List(ctx, userID, repository.ListOptions{})
	if err != nil {
		return model.ReportStats{}, fmt.Errorf("listing reports: %w", err)
	}
	return ComputeReportStats(all), nil
}

// FilterReports keeps the reports matching every non-zero field of f. The
// query matches title or description, case-insensitively. Order is kept.
func FilterReports(reports []model.Report, f model.ReportFilter) []model.Report {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]model.Report, 0, len(reports))
	for _, r := range reports {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Severity != "" && r.Severity != f.Severity {
			continue
		}
		if f.PlatformID != "" && (r.PlatformID == nil || *r.PlatformID != f.PlatformID) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Title), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ComputeReportStats counts reports per status and severity and sums the
// bounty amounts. Every known status and severity is present in the maps,
// zero if unused.
func ComputeReportStats(reports []model.Report) model.ReportStats {
	stats := model.ReportStats{
		Total:      len(reports),
		ByStatus:   make(map[model.ReportStatus]int, len(model.ReportStatuses)),
		BySeverity: make(map[model.Severity]int, len(model.Severities)),
	}
	for _, st := range model.ReportStatuses {
		stats.ByStatus[st] = 0
	}
	for _, sv := range model.Severities {
		stats.BySeverity[sv] = 0
	}

	earned := model.Money{}
	for _, r := range reports {
		stats.ByStatus[r.Status]++
		stats.BySeverity[r.Severity]++
		earned = model.NewMoney(earned.Add(r.BountyAmount.Decimal))
	}
	stats.TotalEarned = earned
	return stats
}
