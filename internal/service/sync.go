package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/hackerone"
	"github.com/sakif/bounty-tracker/internal/model"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// CredentialResolver is the part of CredentialService the sync needs.
type CredentialResolver interface {
	Resolve(ctx context.Context, userID, platformID string) (hackerone.Credentials, error)
}

// ProfileAPI is the remote side of the sync. *hackerone.Client implements it.
type ProfileAPI interface {
	Profile(ctx context.Context, creds hackerone.Credentials) (*hackerone.Profile, error)
	Balance(ctx context.Context, creds hackerone.Credentials) (*decimal.Decimal, error)
	Reports(ctx context.Context, creds hackerone.Credentials) ([]hackerone.RawReport, error)
}

var _ ProfileAPI = (*hackerone.Client)(nil)

// SyncState is a step of one sync run.
//
//	Idle → CredentialsResolved → ProfileFetched → Completed
//	  ↘           ↘                    ↘
//	                 Aborted
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncCredentialsResolved
	SyncProfileFetched
	SyncCompleted
	SyncAborted
)

func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncCredentialsResolved:
		return "credentials_resolved"
	case SyncProfileFetched:
		return "profile_fetched"
	case SyncCompleted:
		return "completed"
	case SyncAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// SyncService pulls a profile summary from an external platform. Nothing is
// persisted or cached; every call hits the API.
type SyncService struct {
	platforms repository.PlatformRepository
	creds     CredentialResolver
	api       ProfileAPI
	logger    *slog.Logger
}

func NewSyncService(platforms repository.PlatformRepository, creds CredentialResolver, api ProfileAPI, logger *slog.Logger) *SyncService {
	return &SyncService{platforms: platforms, creds: creds, api: api, logger: logger}
}

// syncRun tracks the state of a single Sync call.
type syncRun struct {
	state  SyncState
	logger *slog.Logger
}

func (r *syncRun) advance(next SyncState) {
	r.logger.Debug("sync state", slog.String("from", r.state.String()), slog.String("to", next.String()))
	r.state = next
}

func (r *syncRun) abort(err error) error {
	r.logger.Info("sync aborted", slog.String("state", r.state.String()), slog.String("reason", err.Error()))
	r.state = SyncAborted
	return err
}

// Sync authenticates against the platform's API and folds profile,
// balance and reports into a summary.
//
// The profile call is required and goes first: any failure there aborts
// the run before the other two calls are made. Balance and reports are
// then fetched concurrently; a failure of either is logged and the
// summary is built without it. No call is retried.
func (s *SyncService) Sync(ctx context.Context, userID, platformID string) (*model.ExternalProfileSummary, error) {
	platformID, err := requireID("platform", platformID)
	if err != nil {
		return nil, err
	}
	run := &syncRun{
		state:  SyncIdle,
		logger: s.logger.With(slog.String("platformID", platformID)),
	}

	platform, err := s.platforms.GetByID(ctx, userID, platformID)
	if err != nil {
		return nil, run.abort(err)
	}
	if platform.Kind != model.PlatformHackerOne {
		return nil, run.abort(apperror.ValidationFailed("platformId",
			fmt.Sprintf("sync is not supported for %s platforms", platform.Kind)))
	}

	creds, err := s.creds.Resolve(ctx, userID, platformID)
	if err != nil {
		return nil, run.abort(err)
	}
	run.advance(SyncCredentialsResolved)

	profile := hackerone.Call(true, func() (*hackerone.Profile, error) {
		return s.api.Profile(ctx, creds)
	})
	if profile.Outcome == hackerone.HardFailed {
		return nil, run.abort(profile.Reason)
	}
	run.advance(SyncProfileFetched)

	var (
		wg      sync.WaitGroup
		balance hackerone.Result[*decimal.Decimal]
		reports hackerone.Result[[]hackerone.RawReport]
	)
	wg.Go(func() {
		balance = hackerone.Call(false, func() (*decimal.Decimal, error) {
			return s.api.Balance(ctx, creds)
		})
	})
	wg.Go(func() {
		reports = hackerone.Call(false, func() ([]hackerone.RawReport, error) {
			return s.api.Reports(ctx, creds)
		})
	})
	wg.Wait()

	if balance.Outcome == hackerone.SoftFailed {
		s.softFailure(platform, "balance", balance.Reason)
	}
	if reports.Outcome == hackerone.SoftFailed {
		s.softFailure(platform, "reports", reports.Reason)
	}

	summary := hackerone.Normalize(creds.Username, *profile.Value, balance.Value, reports.Value)
	run.advance(SyncCompleted)

	s.logger.Info("platform synced",
		slog.String("platformID", platform.ID),
		slog.String("username", summary.UserInfo.Username),
		slog.Int("reports", summary.Reports.TotalCount),
		slog.String("balance", balance.Outcome.String()),
		slog.String("reportsOutcome", reports.Outcome.String()),
	)
	return &summary, nil
}

func (s *SyncService) softFailure(p *model.Platform, endpoint string, reason error) {
	s.logger.Warn("optional sync call failed",
		slog.String("platformID", p.ID),
		slog.String("platform", p.Name),
		slog.String("endpoint", endpoint),
		slog.String("reason", reason.Error()),
	)
}
