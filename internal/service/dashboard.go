package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// DashboardRepos groups the read access the overview needs.
type DashboardRepos struct {
	Platforms  repository.PlatformRepository
	Reports    repository.ReportRepository
	Bounties   repository.BountyRepository
	Checklists repository.ChecklistRepository
	Tips       repository.TipRepository
	Reading    repository.ReadingRepository
}

type DashboardService struct {
	repos  DashboardRepos
	now    func() time.Time
	logger *slog.Logger
}

func NewDashboardService(repos DashboardRepos, logger *slog.Logger) *DashboardService {
	return &DashboardService{repos: repos, now: time.Now, logger: logger}
}

// Overview aggregates every record of the user. Active bounties are the
// ones not yet completed, in the repository's deadline order.
// ChecklistProgress is done items over all items across checklists.
func (s *DashboardService) Overview(ctx context.Context, userID string) (*model.Dashboard, error) {
	all := repository.ListOptions{}

	platforms, err := s.repos.Platforms.List(ctx, userID, all)
	if err != nil {
		return nil, fmt.Errorf("dashboard platforms: %w", err)
	}
	reports, err := s.repos.Reports.List(ctx, userID, all)
	if err != nil {
		return nil, fmt.Errorf("dashboard reports: %w", err)
	}
	bounties, err := s.repos.Bounties.List(ctx, userID, all)
	if err != nil {
		return nil, fmt.Errorf("dashboard bounties: %w", err)
	}
	checklists, err := s.repos.Checklists.List(ctx, userID, all)
	if err != nil {
		return nil, fmt.Errorf("dashboard checklists: %w", err)
	}
	tips, err := s.repos.Tips.List(ctx, userID, all)
	if err != nil {
		return nil, fmt.Errorf("dashboard tips: %w", err)
	}
	reading, err := s.repos.Reading.List(ctx, userID, all)
	if err != nil {
		return nil, fmt.Errorf("dashboard reading list: %w", err)
	}

	d := &model.Dashboard{
		Platforms:      len(platforms),
		Reports:        ComputeReportStats(reports),
		ActiveBounties: []model.BountyProgress{},
		Checklists:     len(checklists),
		Tips:           len(tips),
	}

	now := s.now()
	for _, b := range bounties {
		if p := ComputeProgress(b, now); !p.Completed {
			d.ActiveBounties = append(d.ActiveBounties, p)
		}
	}

	var items, done int
	for _, c := range checklists {
		for _, it := range c.Items {
			items++
			if it.Done {
				done++
			}
		}
	}
	if items > 0 {
		d.ChecklistProgress = math.Round(float64(done)*10000/float64(items)) / 100
	}

	for _, it := range reading {
		if !it.IsRead {
			d.UnreadReadingItems++
		}
	}
	return d, nil
}
