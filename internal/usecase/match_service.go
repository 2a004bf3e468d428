package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/farellandr/goalfeed/internal/domain/match"
	"github.com/farellandr/goalfeed/internal/platform/logging"
)

const (
	defaultUpcomingLimit = 50
	defaultFinishedLimit = 20
	dateQueryLayout      = "2006-01-02"
)

// MatchService serves read paths over the cached match store.
type MatchService struct {
	matches match.Repository
	logger  *logging.Logger
	now     func() time.Time
}

func NewMatchService(matches match.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matches: matches,
		logger:  logger,
		now:     time.Now,
	}
}

// LiveMatches lists everything currently in play, most recent kickoff first.
func (s *MatchService) LiveMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.LiveMatches")
	defer span.End()

	out, err := s.matches.ListByStatuses(ctx, match.LiveStatuses(), true, 0)
	if err != nil {
		return nil, fmt.Errorf("list live matches: %w", err)
	}

	return out, nil
}

// UpcomingMatches lists matches that have not kicked off yet plus anything
// already in play, soonest first. A non-positive limit falls back to the
// default page size.
func (s *MatchService) UpcomingMatches(ctx context.Context, limit int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.UpcomingMatches")
	defer span.End()

	if limit <= 0 {
		limit = defaultUpcomingLimit
	}

	out, err := s.matches.ListUpcoming(ctx, s.now().UTC(), match.UpcomingStatuses(), limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming matches: %w", err)
	}

	return out, nil
}

// FinishedMatches lists the most recently completed matches.
func (s *MatchService) FinishedMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.FinishedMatches")
	defer span.End()

	out, err := s.matches.ListByStatuses(ctx, []string{match.StatusFinished}, true, defaultFinishedLimit)
	if err != nil {
		return nil, fmt.Errorf("list finished matches: %w", err)
	}

	return out, nil
}

// MatchesByDate lists every match inside one UTC calendar day. The date comes
// in as YYYY-MM-DD.
func (s *MatchService) MatchesByDate(ctx context.Context, date string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.MatchesByDate")
	defer span.End()

	day, err := time.ParseInLocation(dateQueryLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrInvalidInput)
	}

	from := day
	to := day.Add(24*time.Hour - time.Nanosecond)
	out, err := s.matches.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list matches by date: %w", err)
	}

	return out, nil
}

// MatchesByLeague lists a league's matches, most recent first.
func (s *MatchService) MatchesByLeague(ctx context.Context, leagueID int64) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.MatchesByLeague")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}

	out, err := s.matches.ListByLeagueID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list matches by league: %w", err)
	}

	return out, nil
}

// MatchByID loads one match by its internal id.
func (s *MatchService) MatchByID(ctx context.Context, id int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.MatchByID")
	defer span.End()

	if id <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	item, found, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !found {
		return match.Match{}, fmt.Errorf("%w: match %d", ErrNotFound, id)
	}

	return item, nil
}
