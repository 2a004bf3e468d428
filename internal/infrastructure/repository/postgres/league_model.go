package postgres

import (
	"database/sql"
	"time"

	"github.com/farellandr/goalfeed/internal/domain/league"
)

type leagueTableModel struct {
	ID         int64         `db:"id"`
	ProviderID sql.NullInt64 `db:"provider_id"`
	Name       string        `db:"name"`
	Country    string        `db:"country"`
	LogoURL    string        `db:"logo_url"`
	FlagURL    string        `db:"flag_url"`
	Season     sql.NullInt64 `db:"season"`
	Active     bool          `db:"active"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

type leagueInsertModel struct {
	ProviderID sql.NullInt64 `db:"provider_id"`
	Name       string        `db:"name"`
	Country    string        `db:"country"`
	LogoURL    string        `db:"logo_url"`
	FlagURL    string        `db:"flag_url"`
	Season     sql.NullInt64 `db:"season"`
	Active     bool          `db:"active"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

func leagueToInsertModel(item league.League, now time.Time) leagueInsertModel {
	return leagueInsertModel{
		ProviderID: ptrToNullInt64(item.ProviderID),
		Name:       item.Name,
		Country:    item.Country,
		LogoURL:    item.LogoURL,
		FlagURL:    item.FlagURL,
		Season:     intPtrToNullInt64(item.Season),
		Active:     item.Active,
		UpdatedAt:  now.UTC(),
	}
}

func leagueFromTableModel(row leagueTableModel) league.League {
	return league.League{
		ID:         row.ID,
		ProviderID: nullInt64ToPtr(row.ProviderID),
		Name:       row.Name,
		Country:    row.Country,
		LogoURL:    row.LogoURL,
		FlagURL:    row.FlagURL,
		Season:     nullInt64ToIntPtr(row.Season),
		Active:     row.Active,
	}
}
