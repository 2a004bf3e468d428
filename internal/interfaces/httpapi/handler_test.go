package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farellandr/goalfeed/internal/domain/league"
	"github.com/farellandr/goalfeed/internal/domain/match"
	"github.com/farellandr/goalfeed/internal/infrastructure/repository/memory"
	"github.com/farellandr/goalfeed/internal/platform/cache"
	"github.com/farellandr/goalfeed/internal/platform/logging"
	"github.com/farellandr/goalfeed/internal/usecase"
)

type stubSyncRunner struct {
	liveResult     usecase.SyncResult
	upcomingResult usecase.SyncResult
	leagueCount    int
	err            error
}

func (s *stubSyncRunner) SyncLive(context.Context) (usecase.SyncResult, error) {
	return s.liveResult, s.err
}

func (s *stubSyncRunner) SyncUpcoming(context.Context) (usecase.SyncResult, error) {
	return s.upcomingResult, s.err
}

func (s *stubSyncRunner) SyncLeagues(context.Context) (int, error) {
	return s.leagueCount, s.err
}

type fixture struct {
	matches *memory.MatchRepository
	leagues *memory.LeagueRepository
	syncer  *stubSyncRunner
	router  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	matches := memory.NewMatchRepository()
	leagues := memory.NewLeagueRepository()
	syncer := &stubSyncRunner{}

	handler := NewHandler(
		usecase.NewMatchService(matches, logging.NewNop()),
		usecase.NewLeagueService(leagues, cache.NewStore(time.Minute), logging.NewNop()),
		syncer,
		logging.NewNop(),
	)
	router := NewRouter(handler, logging.NewNop(), []string{"http://localhost:3000"})

	return &fixture{matches: matches, leagues: leagues, syncer: syncer, router: router}
}

func (f *fixture) seedMatch(t *testing.T, providerID int64, status string, kickoff time.Time) {
	t.Helper()

	id := providerID
	item := match.Match{
		ProviderID: &id,
		HomeTeam:   match.Team{Name: "Home"},
		AwayTeam:   match.Team{Name: "Away"},
		Status:     status,
		MatchTime:  kickoff,
	}
	if err := f.matches.UpsertByProviderID(context.Background(), []match.Match{item}); err != nil {
		t.Fatalf("seed match: %v", err)
	}
}

func (f *fixture) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["status"] != "ok" {
		t.Errorf("body = %v, want status ok", body)
	}
}

func TestListLiveMatchesRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	now := time.Now().UTC()
	f.seedMatch(t, 1, match.StatusLive, now)
	f.seedMatch(t, 2, match.StatusScheduled, now.Add(time.Hour))

	rec := f.do(t, http.MethodGet, "/api/matches/live")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody[[]map[string]any](t, rec)
	if len(body) != 1 {
		t.Fatalf("len = %d, want only the live match", len(body))
	}
	if body[0]["apiId"] != float64(1) {
		t.Errorf("apiId = %v, want 1", body[0]["apiId"])
	}
}

func TestListUpcomingMatchesValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	for _, target := range []string{
		"/api/matches/upcoming?limit=abc",
		"/api/matches/upcoming?limit=0",
		"/api/matches/upcoming?limit=-3",
	} {
		rec := f.do(t, http.MethodGet, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, rec.Code)
		}
	}

	rec := f.do(t, http.MethodGet, "/api/matches/upcoming")
	if rec.Code != http.StatusOK {
		t.Errorf("default limit status = %d, want 200", rec.Code)
	}
}

func TestListMatchesByDateRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedMatch(t, 1, match.StatusScheduled, time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC))

	rec := f.do(t, http.MethodGet, "/api/matches/by-date?date=2026-09-05")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody[[]map[string]any](t, rec); len(body) != 1 {
		t.Errorf("len = %d, want 1", len(body))
	}

	for _, target := range []string{
		"/api/matches/by-date",
		"/api/matches/by-date?date=05-09-2026",
	} {
		rec := f.do(t, http.MethodGet, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestGetMatchByIDRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedMatch(t, 10, match.StatusScheduled, time.Now())

	rec := f.do(t, http.MethodGet, "/api/matches/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/matches/999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing id status = %d, want 404", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["message"] != "Match not found" {
		t.Errorf("message = %q, want %q", body["message"], "Match not found")
	}

	rec = f.do(t, http.MethodGet, "/api/matches/abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d, want 400", rec.Code)
	}
}

func TestSyncMatchesRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.syncer.liveResult = usecase.SyncResult{Synced: 3}
	f.syncer.upcomingResult = usecase.SyncResult{Synced: 12}

	rec := f.do(t, http.MethodPost, "/api/matches/sync")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody[map[string]any](t, rec)
	if body["message"] != "Match data synced successfully" {
		t.Errorf("message = %v", body["message"])
	}
	if body["liveMatches"] != float64(3) || body["upcomingMatches"] != float64(12) {
		t.Errorf("counts = %v/%v, want 3/12", body["liveMatches"], body["upcomingMatches"])
	}
}

func TestSyncMatchesRouteProviderDown(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.syncer.err = usecase.ErrDependencyUnavailable

	rec := f.do(t, http.MethodPost, "/api/matches/sync")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestLeagueRoutes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := int64(2021)
	if err := f.leagues.UpsertByProviderID(context.Background(), []league.League{
		{ProviderID: &id, Name: "Premier League", Active: true},
	}); err != nil {
		t.Fatalf("seed league: %v", err)
	}

	rec := f.do(t, http.MethodGet, "/api/leagues")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody[[]map[string]any](t, rec); len(body) != 1 {
		t.Errorf("len = %d, want 1", len(body))
	}

	f.syncer.leagueCount = 5
	rec = f.do(t, http.MethodPost, "/api/leagues/sync")
	if rec.Code != http.StatusOK {
		t.Fatalf("sync status = %d, want 200", rec.Code)
	}
	body := decodeBody[map[string]any](t, rec)
	if body["count"] != float64(5) {
		t.Errorf("count = %v, want 5", body["count"])
	}
}

func TestListMatchesByLeagueRoute(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	leagueID := int64(2014)
	providerID := int64(77)
	item := match.Match{
		ProviderID: &providerID,
		HomeTeam:   match.Team{Name: "Home"},
		AwayTeam:   match.Team{Name: "Away"},
		Status:     match.StatusFinished,
		MatchTime:  time.Now().Add(-time.Hour),
		League:     match.LeagueRef{ID: &leagueID, Name: "La Liga"},
	}
	if err := f.matches.UpsertByProviderID(context.Background(), []match.Match{item}); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	rec := f.do(t, http.MethodGet, "/api/matches/league/2014")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody[[]map[string]any](t, rec); len(body) != 1 {
		t.Errorf("len = %d, want 1", len(body))
	}

	rec = f.do(t, http.MethodGet, "/api/matches/league/abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric league status = %d, want 400", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/matches/live", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/matches/live", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allow origin %q for unknown origin", got)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: usecase.ErrInvalidInput, want: http.StatusBadRequest},
		{err: usecase.ErrNotFound, want: http.StatusNotFound},
		{err: usecase.ErrDependencyUnavailable, want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := httpStatusFor(tt.err); got != tt.want {
			t.Errorf("httpStatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
