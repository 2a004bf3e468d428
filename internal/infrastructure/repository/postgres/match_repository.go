package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/farellandr/goalfeed/internal/domain/match"
	qb "github.com/farellandr/goalfeed/internal/platform/querybuilder"
)

const matchUpsertSuffix = `ON CONFLICT (provider_id) WHERE provider_id IS NOT NULL
DO UPDATE SET
    home_team_id = EXCLUDED.home_team_id,
    home_team_name = EXCLUDED.home_team_name,
    home_team_logo = EXCLUDED.home_team_logo,
    away_team_id = EXCLUDED.away_team_id,
    away_team_name = EXCLUDED.away_team_name,
    away_team_logo = EXCLUDED.away_team_logo,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    match_time = EXCLUDED.match_time,
    league_id = EXCLUDED.league_id,
    league_name = EXCLUDED.league_name,
    league_country = EXCLUDED.league_country,
    league_logo = EXCLUDED.league_logo,
    minute = EXCLUDED.minute,
    venue = EXCLUDED.venue,
    updated_at = EXCLUDED.updated_at`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) UpsertByProviderID(ctx context.Context, matches []match.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, item := range matches {
		if item.ProviderID == nil {
			return fmt.Errorf("upsert match: provider id is required")
		}

		query, args, err := qb.InsertModel("matches", matchToInsertModel(item, now), matchUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match provider_id=%d: %w", *item.ProviderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matches: %w", err)
	}

	return nil
}

func (r *MatchRepository) ListByStatuses(ctx context.Context, statuses []string, orderDesc bool, limit int) ([]match.Match, error) {
	order := "match_time ASC"
	if orderDesc {
		order = "match_time DESC"
	}

	builder := qb.Select("*").From("matches").
		Where(qb.In("status", toAnySlice(statuses))).
		OrderBy(order)
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by status query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListUpcoming(ctx context.Context, from time.Time, statuses []string, limit int) ([]match.Match, error) {
	builder := qb.Select("*").From("matches").
		Where(
			qb.Gte("match_time", from.UTC()),
			qb.In("status", toAnySlice(statuses)),
		).
		OrderBy("match_time ASC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Gte("match_time", from.UTC()),
			qb.Lte("match_time", to.UTC()),
		).
		OrderBy("match_time ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by date query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListByLeagueID(ctx context.Context, leagueID int64) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("match_time DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by league query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return matchFromTableModel(row), true, nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromTableModel(row))
	}

	return out, nil
}

func toAnySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value)
	}
	return out
}
