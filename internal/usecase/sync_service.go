package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/farellandr/goalfeed/internal/domain/league"
	"github.com/farellandr/goalfeed/internal/domain/match"
	"github.com/farellandr/goalfeed/internal/platform/logging"
)

const (
	statusAttemptDelay = 150 * time.Millisecond
	teamFetchDelay     = 200 * time.Millisecond
	finishedLookback   = 30 * 24 * time.Hour
)

// SportsProvider abstracts the upstream football data source.
type SportsProvider interface {
	LiveMatches(ctx context.Context) ([]match.Match, error)
	TeamMatchesByStatus(ctx context.Context, teamID int64, status string) ([]match.Match, error)
	TeamFinishedMatches(ctx context.Context, teamID int64, from, to time.Time) ([]match.Match, error)
	Competitions(ctx context.Context) ([]league.League, error)
}

// SyncResult reports one sync pass. Synced counts records fetched from the
// provider; Stored counts records durably written. The two differ when some
// records lack a provider id or when persistence fails, in which case
// StoreErr carries the failure and Records still holds the fetched data.
type SyncResult struct {
	Records  []match.Match
	Synced   int
	Stored   int
	StoreErr error
}

// SleepFunc pauses between provider requests. Injectable so tests do not
// wait out real pacing delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type SyncService struct {
	provider SportsProvider
	matches  match.Repository
	leagues  league.Repository
	teamIDs  []int64
	logger   *logging.Logger
	sleep    SleepFunc
	now      func() time.Time
}

type SyncServiceOption func(*SyncService)

// WithSyncSleep replaces the pacing sleep between provider requests.
func WithSyncSleep(sleep SleepFunc) SyncServiceOption {
	return func(s *SyncService) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithSyncClock replaces the wall clock.
func WithSyncClock(now func() time.Time) SyncServiceOption {
	return func(s *SyncService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSyncService(
	provider SportsProvider,
	matches match.Repository,
	leagues league.Repository,
	teamIDs []int64,
	logger *logging.Logger,
	opts ...SyncServiceOption,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	s := &SyncService{
		provider: provider,
		matches:  matches,
		leagues:  leagues,
		teamIDs:  append([]int64(nil), teamIDs...),
		logger:   logger,
		sleep:    defaultSleep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SyncLive fetches every currently live match in one global query and caches
// the result. A provider failure here is fatal for the pass since there is
// nothing partial to keep.
func (s *SyncService) SyncLive(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncLive")
	defer span.End()

	records, err := s.provider.LiveMatches(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("sync live matches: %w", err)
	}

	result := s.persist(ctx, records)
	s.logger.InfoContext(ctx, "live match sync finished", "synced", result.Synced, "stored", result.Stored)
	return result, nil
}

// SyncUpcoming walks the configured team roster. For each team it asks for
// SCHEDULED matches first and falls back to TIMED only when the first attempt
// returns nothing; the two result sets are never merged. Matches already in
// the past and duplicate provider ids across teams are dropped.
func (s *SyncService) SyncUpcoming(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncUpcoming")
	defer span.End()

	now := s.now().UTC()
	seen := make(map[int64]struct{}, 64)
	records := make([]match.Match, 0, 64)

	for i, teamID := range s.teamIDs {
		if i > 0 {
			if err := s.sleep(ctx, teamFetchDelay); err != nil {
				return SyncResult{}, err
			}
		}

		fetched, err := s.fetchUpcomingForTeam(ctx, teamID)
		if err != nil {
			if ctx.Err() != nil {
				return SyncResult{}, ctx.Err()
			}
			s.logger.WarnContext(ctx, "skip team after upcoming fetch failure", "team_id", teamID, "error", err)
			continue
		}

		for _, item := range fetched {
			if !item.MatchTime.After(now) {
				continue
			}
			if item.ProviderID != nil {
				if _, dup := seen[*item.ProviderID]; dup {
					continue
				}
				seen[*item.ProviderID] = struct{}{}
			}
			records = append(records, item)
		}
	}

	result := s.persist(ctx, records)
	s.logger.InfoContext(ctx, "upcoming match sync finished",
		"teams", len(s.teamIDs), "synced", result.Synced, "stored", result.Stored)
	return result, nil
}

func (s *SyncService) fetchUpcomingForTeam(ctx context.Context, teamID int64) ([]match.Match, error) {
	statuses := []string{match.StatusScheduled, match.StatusTimed}
	var lastErr error
	for i, status := range statuses {
		if i > 0 {
			if err := s.sleep(ctx, statusAttemptDelay); err != nil {
				return nil, err
			}
		}

		fetched, err := s.provider.TeamMatchesByStatus(ctx, teamID, status)
		if err != nil {
			lastErr = err
			continue
		}
		if len(fetched) > 0 {
			return fetched, nil
		}
	}

	return nil, lastErr
}

// SyncFinished fetches each roster team's finished matches over the past
// thirty days, deduplicated across teams by provider id.
func (s *SyncService) SyncFinished(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncFinished")
	defer span.End()

	now := s.now().UTC()
	from := now.Add(-finishedLookback)
	seen := make(map[int64]struct{}, 64)
	records := make([]match.Match, 0, 64)

	for i, teamID := range s.teamIDs {
		if i > 0 {
			if err := s.sleep(ctx, teamFetchDelay); err != nil {
				return SyncResult{}, err
			}
		}

		fetched, err := s.provider.TeamFinishedMatches(ctx, teamID, from, now)
		if err != nil {
			if ctx.Err() != nil {
				return SyncResult{}, ctx.Err()
			}
			s.logger.WarnContext(ctx, "skip team after finished fetch failure", "team_id", teamID, "error", err)
			continue
		}

		for _, item := range fetched {
			if item.ProviderID != nil {
				if _, dup := seen[*item.ProviderID]; dup {
					continue
				}
				seen[*item.ProviderID] = struct{}{}
			}
			records = append(records, item)
		}
	}

	result := s.persist(ctx, records)
	s.logger.InfoContext(ctx, "finished match sync finished",
		"teams", len(s.teamIDs), "synced", result.Synced, "stored", result.Stored)
	return result, nil
}

// SyncLeagues refreshes the league catalogue from the provider.
func (s *SyncService) SyncLeagues(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncLeagues")
	defer span.End()

	fetched, err := s.provider.Competitions(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync leagues: %w", err)
	}

	if err := s.leagues.UpsertByProviderID(ctx, fetched); err != nil {
		return 0, fmt.Errorf("store leagues: %w", err)
	}

	s.logger.InfoContext(ctx, "league sync finished", "count", len(fetched))
	return len(fetched), nil
}

// persist writes every record that carries a provider id. Records without one
// stay in the result set, and a storage failure is reported through StoreErr
// rather than an error return; callers always get the full provider snapshot.
func (s *SyncService) persist(ctx context.Context, records []match.Match) SyncResult {
	result := SyncResult{
		Records: records,
		Synced:  len(records),
	}

	storable := make([]match.Match, 0, len(records))
	for _, item := range records {
		if item.ProviderID != nil {
			storable = append(storable, item)
		}
	}
	if skipped := len(records) - len(storable); skipped > 0 {
		s.logger.WarnContext(ctx, "skipping records without provider id", "count", skipped)
	}
	if len(storable) == 0 {
		return result
	}

	if err := s.matches.UpsertByProviderID(ctx, storable); err != nil {
		s.logger.ErrorContext(ctx, "store matches failed", "count", len(storable), "error", err)
		result.StoreErr = err
		return result
	}

	result.Stored = len(storable)
	return result
}
