package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/farellandr/goalfeed/internal/platform/logging"
	"github.com/farellandr/goalfeed/internal/usecase"
)

// SyncRunner triggers on-demand sync passes from the HTTP surface.
type SyncRunner interface {
	SyncLive(ctx context.Context) (usecase.SyncResult, error)
	SyncUpcoming(ctx context.Context) (usecase.SyncResult, error)
	SyncLeagues(ctx context.Context) (int, error)
}

type Handler struct {
	matchService  *usecase.MatchService
	leagueService *usecase.LeagueService
	syncer        SyncRunner
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	leagueService *usecase.LeagueService,
	syncer SyncRunner,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:  matchService,
		leagueService: leagueService,
		syncer:        syncer,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok", "message": "service healthy"})
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveMatches")
	defer span.End()

	out, err := h.matchService.LiveMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, out)
}

type upcomingQuery struct {
	Limit int `validate:"omitempty,min=1,max=500"`
}

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingMatches")
	defer span.End()

	query := upcomingQuery{}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		query.Limit = limit
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.matchService.UpcomingMatches(ctx, query.Limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list upcoming matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListFinishedMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFinishedMatches")
	defer span.End()

	out, err := h.matchService.FinishedMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list finished matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, out)
}

type dateQuery struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

func (h *Handler) ListMatchesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByDate")
	defer span.End()

	query := dateQuery{Date: strings.TrimSpace(r.URL.Query().Get("date"))}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: date must be provided as YYYY-MM-DD", usecase.ErrInvalidInput))
		return
	}

	out, err := h.matchService.MatchesByDate(ctx, query.Date)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches by date failed", "date", query.Date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListMatchesByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByLeague")
	defer span.End()

	leagueID, err := strconv.ParseInt(r.PathValue("leagueID"), 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: league id must be numeric", usecase.ErrInvalidInput))
		return
	}

	out, err := h.matchService.MatchesByLeague(ctx, leagueID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches by league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatchByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchByID")
	defer span.End()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: match id must be numeric", usecase.ErrInvalidInput))
		return
	}

	item, err := h.matchService.MatchByID(ctx, id)
	if err != nil {
		if usecase.IsNotFound(err) {
			writeMessage(ctx, w, http.StatusNotFound, "Match not found")
			return
		}
		h.logger.ErrorContext(ctx, "get match failed", "match_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, item)
}

type syncMatchesResponse struct {
	Message         string `json:"message"`
	LiveMatches     int    `json:"liveMatches"`
	UpcomingMatches int    `json:"upcomingMatches"`
}

func (h *Handler) SyncMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncMatches")
	defer span.End()

	live, err := h.syncer.SyncLive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "on-demand live sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	upcoming, err := h.syncer.SyncUpcoming(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "on-demand upcoming sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, syncMatchesResponse{
		Message:         "Match data synced successfully",
		LiveMatches:     live.Synced,
		UpcomingMatches: upcoming.Synced,
	})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	out, err := h.leagueService.ActiveLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, out)
}

type syncLeaguesResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (h *Handler) SyncLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncLeagues")
	defer span.End()

	count, err := h.syncer.SyncLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "on-demand league sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.leagueService.InvalidateCache(ctx)

	writeJSON(ctx, w, http.StatusOK, syncLeaguesResponse{
		Message: "Leagues synced successfully",
		Count:   count,
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err.Error())
	}
	return nil
}
