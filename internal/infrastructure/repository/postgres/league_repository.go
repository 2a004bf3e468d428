package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/farellandr/goalfeed/internal/domain/league"
	qb "github.com/farellandr/goalfeed/internal/platform/querybuilder"
)

const leagueUpsertSuffix = `ON CONFLICT (provider_id) WHERE provider_id IS NOT NULL
DO UPDATE SET
    name = EXCLUDED.name,
    country = EXCLUDED.country,
    logo_url = EXCLUDED.logo_url,
    flag_url = EXCLUDED.flag_url,
    season = EXCLUDED.season,
    active = EXCLUDED.active,
    updated_at = EXCLUDED.updated_at`

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) UpsertByProviderID(ctx context.Context, leagues []league.League) error {
	if len(leagues) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert leagues: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, item := range leagues {
		if item.ProviderID == nil {
			return fmt.Errorf("upsert league: provider id is required")
		}

		query, args, err := qb.InsertModel("leagues", leagueToInsertModel(item, now), leagueUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert league query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert league provider_id=%d: %w", *item.ProviderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert leagues: %w", err)
	}

	return nil
}

func (r *LeagueRepository) ListActive(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("active", true)).
		OrderBy("name ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromTableModel(row))
	}

	return out, nil
}
