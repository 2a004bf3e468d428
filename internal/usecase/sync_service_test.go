package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farellandr/goalfeed/internal/domain/league"
	"github.com/farellandr/goalfeed/internal/domain/match"
	"github.com/farellandr/goalfeed/internal/infrastructure/repository/memory"
	"github.com/farellandr/goalfeed/internal/platform/logging"
)

type providerCall struct {
	teamID int64
	status string
}

type stubProvider struct {
	liveFn         func(ctx context.Context) ([]match.Match, error)
	teamByStatusFn func(ctx context.Context, teamID int64, status string) ([]match.Match, error)
	finishedFn     func(ctx context.Context, teamID int64, from, to time.Time) ([]match.Match, error)
	competitionsFn func(ctx context.Context) ([]league.League, error)

	calls []providerCall
}

func (p *stubProvider) LiveMatches(ctx context.Context) ([]match.Match, error) {
	if p.liveFn == nil {
		return nil, nil
	}
	return p.liveFn(ctx)
}

func (p *stubProvider) TeamMatchesByStatus(ctx context.Context, teamID int64, status string) ([]match.Match, error) {
	p.calls = append(p.calls, providerCall{teamID: teamID, status: status})
	if p.teamByStatusFn == nil {
		return nil, nil
	}
	return p.teamByStatusFn(ctx, teamID, status)
}

func (p *stubProvider) TeamFinishedMatches(ctx context.Context, teamID int64, from, to time.Time) ([]match.Match, error) {
	p.calls = append(p.calls, providerCall{teamID: teamID, status: match.StatusFinished})
	if p.finishedFn == nil {
		return nil, nil
	}
	return p.finishedFn(ctx, teamID, from, to)
}

func (p *stubProvider) Competitions(ctx context.Context) ([]league.League, error) {
	if p.competitionsFn == nil {
		return nil, nil
	}
	return p.competitionsFn(ctx)
}

type failingMatchRepo struct {
	match.Repository
	err error
}

func (r failingMatchRepo) UpsertByProviderID(context.Context, []match.Match) error {
	return r.err
}

func noSleep(context.Context, time.Duration) error { return nil }

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func upcomingMatch(providerID int64, kickoff time.Time) match.Match {
	id := providerID
	return match.Match{
		ProviderID: &id,
		HomeTeam:   match.Team{Name: "Home"},
		AwayTeam:   match.Team{Name: "Away"},
		Status:     match.StatusScheduled,
		MatchTime:  kickoff,
	}
}

func TestSyncUpcomingStatusFallback(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)

	provider := &stubProvider{}
	provider.teamByStatusFn = func(_ context.Context, teamID int64, status string) ([]match.Match, error) {
		// Team 10 answers on the first attempt, team 20 only on the fallback.
		switch {
		case teamID == 10 && status == match.StatusScheduled:
			return []match.Match{upcomingMatch(100, future)}, nil
		case teamID == 20 && status == match.StatusScheduled:
			return nil, nil
		case teamID == 20 && status == match.StatusTimed:
			return []match.Match{upcomingMatch(200, future)}, nil
		default:
			return nil, nil
		}
	}

	repo := memory.NewMatchRepository()
	svc := NewSyncService(provider, repo, memory.NewLeagueRepository(), []int64{10, 20}, logging.NewNop(),
		WithSyncSleep(noSleep), WithSyncClock(fixedClock(now)))

	result, err := svc.SyncUpcoming(context.Background())
	if err != nil {
		t.Fatalf("SyncUpcoming() error = %v", err)
	}

	if result.Synced != 2 || result.Stored != 2 {
		t.Errorf("result = synced %d stored %d, want 2/2", result.Synced, result.Stored)
	}

	wantCalls := []providerCall{
		{teamID: 10, status: match.StatusScheduled},
		{teamID: 20, status: match.StatusScheduled},
		{teamID: 20, status: match.StatusTimed},
	}
	if len(provider.calls) != len(wantCalls) {
		t.Fatalf("provider calls = %v, want %v", provider.calls, wantCalls)
	}
	for i, want := range wantCalls {
		if provider.calls[i] != want {
			t.Errorf("call[%d] = %v, want %v", i, provider.calls[i], want)
		}
	}
}

func TestSyncUpcomingDeduplicatesAcrossTeams(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	shared := upcomingMatch(555, now.Add(24*time.Hour))

	provider := &stubProvider{
		teamByStatusFn: func(_ context.Context, _ int64, status string) ([]match.Match, error) {
			if status == match.StatusScheduled {
				return []match.Match{shared}, nil
			}
			return nil, nil
		},
	}

	repo := memory.NewMatchRepository()
	svc := NewSyncService(provider, repo, memory.NewLeagueRepository(), []int64{10, 20}, logging.NewNop(),
		WithSyncSleep(noSleep), WithSyncClock(fixedClock(now)))

	result, err := svc.SyncUpcoming(context.Background())
	if err != nil {
		t.Fatalf("SyncUpcoming() error = %v", err)
	}

	if result.Synced != 1 {
		t.Errorf("Synced = %d, want 1 after dedupe", result.Synced)
	}
	if repo.Count() != 1 {
		t.Errorf("stored rows = %d, want 1", repo.Count())
	}
}

func TestSyncUpcomingDropsNonFutureMatches(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		teamByStatusFn: func(_ context.Context, _ int64, status string) ([]match.Match, error) {
			if status != match.StatusScheduled {
				return nil, nil
			}
			return []match.Match{
				upcomingMatch(1, now.Add(-time.Hour)),
				upcomingMatch(2, now),
				upcomingMatch(3, now.Add(time.Hour)),
			}, nil
		},
	}

	svc := NewSyncService(provider, memory.NewMatchRepository(), memory.NewLeagueRepository(), []int64{10}, logging.NewNop(),
		WithSyncSleep(noSleep), WithSyncClock(fixedClock(now)))

	result, err := svc.SyncUpcoming(context.Background())
	if err != nil {
		t.Fatalf("SyncUpcoming() error = %v", err)
	}

	if result.Synced != 1 {
		t.Fatalf("Synced = %d, want only the strictly future match", result.Synced)
	}
	if result.Records[0].ProviderID == nil || *result.Records[0].ProviderID != 3 {
		t.Errorf("kept record = %v, want provider id 3", result.Records[0].ProviderID)
	}
}

func TestSyncUpcomingContinuesAfterTeamFailure(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		teamByStatusFn: func(_ context.Context, teamID int64, status string) ([]match.Match, error) {
			if teamID == 10 {
				return nil, errors.New("provider exploded")
			}
			if status == match.StatusScheduled {
				return []match.Match{upcomingMatch(7, now.Add(time.Hour))}, nil
			}
			return nil, nil
		},
	}

	svc := NewSyncService(provider, memory.NewMatchRepository(), memory.NewLeagueRepository(), []int64{10, 20}, logging.NewNop(),
		WithSyncSleep(noSleep), WithSyncClock(fixedClock(now)))

	result, err := svc.SyncUpcoming(context.Background())
	if err != nil {
		t.Fatalf("SyncUpcoming() error = %v, want team failures swallowed", err)
	}
	if result.Synced != 1 {
		t.Errorf("Synced = %d, want the healthy team's match", result.Synced)
	}
}

func TestSyncLiveStoreFailureStillReturnsRecords(t *testing.T) {
	t.Parallel()

	live := upcomingMatch(99, time.Now().Add(-time.Hour))
	live.Status = match.StatusLive
	provider := &stubProvider{
		liveFn: func(context.Context) ([]match.Match, error) {
			return []match.Match{live}, nil
		},
	}

	storeErr := errors.New("db is down")
	svc := NewSyncService(provider, failingMatchRepo{err: storeErr}, memory.NewLeagueRepository(), nil, logging.NewNop(),
		WithSyncSleep(noSleep))

	result, err := svc.SyncLive(context.Background())
	if err != nil {
		t.Fatalf("SyncLive() error = %v, want store failure to be non-fatal", err)
	}

	if len(result.Records) != 1 || result.Synced != 1 {
		t.Errorf("records = %d synced = %d, want 1/1", len(result.Records), result.Synced)
	}
	if result.Stored != 0 {
		t.Errorf("Stored = %d, want 0 on store failure", result.Stored)
	}
	if !errors.Is(result.StoreErr, storeErr) {
		t.Errorf("StoreErr = %v, want wrapped %v", result.StoreErr, storeErr)
	}
}

func TestSyncLiveSkipsRecordsWithoutProviderID(t *testing.T) {
	t.Parallel()

	withID := upcomingMatch(1, time.Now())
	withID.Status = match.StatusLive
	withoutID := match.Match{
		HomeTeam:  match.Team{Name: "Ghost FC"},
		AwayTeam:  match.Team{Name: "Unknown"},
		Status:    match.StatusLive,
		MatchTime: time.Now(),
	}

	provider := &stubProvider{
		liveFn: func(context.Context) ([]match.Match, error) {
			return []match.Match{withID, withoutID}, nil
		},
	}

	repo := memory.NewMatchRepository()
	svc := NewSyncService(provider, repo, memory.NewLeagueRepository(), nil, logging.NewNop(), WithSyncSleep(noSleep))

	result, err := svc.SyncLive(context.Background())
	if err != nil {
		t.Fatalf("SyncLive() error = %v", err)
	}

	if result.Synced != 2 {
		t.Errorf("Synced = %d, want both records in the response", result.Synced)
	}
	if result.Stored != 1 {
		t.Errorf("Stored = %d, want only the identified record persisted", result.Stored)
	}
	if repo.Count() != 1 {
		t.Errorf("stored rows = %d, want 1", repo.Count())
	}
}

func TestSyncLiveUpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	first := upcomingMatch(42, time.Now())
	first.Status = match.StatusLive
	first.Score = match.Score{Home: 0, Away: 0}

	second := first
	second.Score = match.Score{Home: 1, Away: 0}

	responses := [][]match.Match{{first}, {second}}
	call := 0
	provider := &stubProvider{
		liveFn: func(context.Context) ([]match.Match, error) {
			out := responses[call]
			call++
			return out, nil
		},
	}

	repo := memory.NewMatchRepository()
	svc := NewSyncService(provider, repo, memory.NewLeagueRepository(), nil, logging.NewNop(), WithSyncSleep(noSleep))

	for i := 0; i < 2; i++ {
		if _, err := svc.SyncLive(context.Background()); err != nil {
			t.Fatalf("SyncLive() pass %d error = %v", i, err)
		}
	}

	if repo.Count() != 1 {
		t.Fatalf("stored rows = %d, want 1 row updated in place", repo.Count())
	}

	stored, err := repo.ListByStatuses(context.Background(), match.LiveStatuses(), true, 0)
	if err != nil {
		t.Fatalf("ListByStatuses() error = %v", err)
	}
	if stored[0].Score.Home != 1 {
		t.Errorf("score after second pass = %d, want overwritten to 1", stored[0].Score.Home)
	}
}

func TestSyncFinishedDeduplicatesAcrossTeams(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	finished := upcomingMatch(77, now.Add(-24*time.Hour))
	finished.Status = match.StatusFinished

	var windows []time.Duration
	provider := &stubProvider{
		finishedFn: func(_ context.Context, _ int64, from, to time.Time) ([]match.Match, error) {
			windows = append(windows, to.Sub(from))
			return []match.Match{finished}, nil
		},
	}

	repo := memory.NewMatchRepository()
	svc := NewSyncService(provider, repo, memory.NewLeagueRepository(), []int64{10, 20}, logging.NewNop(),
		WithSyncSleep(noSleep), WithSyncClock(fixedClock(now)))

	result, err := svc.SyncFinished(context.Background())
	if err != nil {
		t.Fatalf("SyncFinished() error = %v", err)
	}

	if result.Synced != 1 || repo.Count() != 1 {
		t.Errorf("synced = %d stored rows = %d, want 1/1", result.Synced, repo.Count())
	}
	for _, window := range windows {
		if window != 30*24*time.Hour {
			t.Errorf("lookback window = %v, want 30 days", window)
		}
	}
}

func TestSyncLeagues(t *testing.T) {
	t.Parallel()

	id := int64(2021)
	provider := &stubProvider{
		competitionsFn: func(context.Context) ([]league.League, error) {
			return []league.League{{ProviderID: &id, Name: "Premier League", Active: true}}, nil
		},
	}

	repo := memory.NewLeagueRepository()
	svc := NewSyncService(provider, memory.NewMatchRepository(), repo, nil, logging.NewNop(), WithSyncSleep(noSleep))

	count, err := svc.SyncLeagues(context.Background())
	if err != nil {
		t.Fatalf("SyncLeagues() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	stored, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(stored) != 1 || stored[0].Name != "Premier League" {
		t.Errorf("stored = %+v, want the synced league", stored)
	}
}

func TestSyncLiveProviderFailureIsFatal(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		liveFn: func(context.Context) ([]match.Match, error) {
			return nil, errors.New("timeout")
		},
	}

	svc := NewSyncService(provider, memory.NewMatchRepository(), memory.NewLeagueRepository(), nil, logging.NewNop(), WithSyncSleep(noSleep))

	if _, err := svc.SyncLive(context.Background()); err == nil {
		t.Fatal("SyncLive() error = nil, want provider failure surfaced")
	}
}
