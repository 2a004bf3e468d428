package usecase

import (
	"context"
	"fmt"

	"github.com/farellandr/goalfeed/internal/domain/league"
	"github.com/farellandr/goalfeed/internal/platform/cache"
	"github.com/farellandr/goalfeed/internal/platform/logging"
)

const activeLeaguesCacheKey = "leagues:active"

// LeagueService serves the league catalogue with a short read-through cache.
type LeagueService struct {
	leagues league.Repository
	cache   *cache.Store
	logger  *logging.Logger
}

// NewLeagueService builds the service. A nil cache disables caching.
func NewLeagueService(leagues league.Repository, store *cache.Store, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeagueService{
		leagues: leagues,
		cache:   store,
		logger:  logger,
	}
}

// ActiveLeagues lists active leagues ordered by name.
func (s *LeagueService) ActiveLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ActiveLeagues")
	defer span.End()

	if s.cache == nil {
		return s.loadActive(ctx)
	}

	out, err := s.cache.GetOrLoad(ctx, activeLeaguesCacheKey, func(ctx context.Context) (any, error) {
		return s.loadActive(ctx)
	})
	if err != nil {
		return nil, err
	}

	items, ok := out.([]league.League)
	if !ok {
		return nil, fmt.Errorf("unexpected cached league payload type %T", out)
	}

	return items, nil
}

// InvalidateCache drops the cached league list, e.g. after a sync.
func (s *LeagueService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, activeLeaguesCacheKey)
}

func (s *LeagueService) loadActive(ctx context.Context) ([]league.League, error) {
	out, err := s.leagues.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active leagues: %w", err)
	}
	return out, nil
}
