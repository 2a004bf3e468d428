package postgres

import (
	"database/sql"
	"time"

	"github.com/farellandr/goalfeed/internal/domain/match"
)

type matchTableModel struct {
	ID            int64          `db:"id"`
	ProviderID    sql.NullInt64  `db:"provider_id"`
	HomeTeamID    sql.NullInt64  `db:"home_team_id"`
	HomeTeamName  string         `db:"home_team_name"`
	HomeTeamLogo  string         `db:"home_team_logo"`
	AwayTeamID    sql.NullInt64  `db:"away_team_id"`
	AwayTeamName  string         `db:"away_team_name"`
	AwayTeamLogo  string         `db:"away_team_logo"`
	HomeScore     int            `db:"home_score"`
	AwayScore     int            `db:"away_score"`
	Status        string         `db:"status"`
	MatchTime     time.Time      `db:"match_time"`
	LeagueID      sql.NullInt64  `db:"league_id"`
	LeagueName    string         `db:"league_name"`
	LeagueCountry string         `db:"league_country"`
	LeagueLogo    string         `db:"league_logo"`
	Minute        sql.NullInt64  `db:"minute"`
	Venue         sql.NullString `db:"venue"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	ProviderID    sql.NullInt64  `db:"provider_id"`
	HomeTeamID    sql.NullInt64  `db:"home_team_id"`
	HomeTeamName  string         `db:"home_team_name"`
	HomeTeamLogo  string         `db:"home_team_logo"`
	AwayTeamID    sql.NullInt64  `db:"away_team_id"`
	AwayTeamName  string         `db:"away_team_name"`
	AwayTeamLogo  string         `db:"away_team_logo"`
	HomeScore     int            `db:"home_score"`
	AwayScore     int            `db:"away_score"`
	Status        string         `db:"status"`
	MatchTime     time.Time      `db:"match_time"`
	LeagueID      sql.NullInt64  `db:"league_id"`
	LeagueName    string         `db:"league_name"`
	LeagueCountry string         `db:"league_country"`
	LeagueLogo    string         `db:"league_logo"`
	Minute        sql.NullInt64  `db:"minute"`
	Venue         sql.NullString `db:"venue"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func matchToInsertModel(item match.Match, now time.Time) matchInsertModel {
	return matchInsertModel{
		ProviderID:    ptrToNullInt64(item.ProviderID),
		HomeTeamID:    ptrToNullInt64(item.HomeTeam.ID),
		HomeTeamName:  item.HomeTeam.Name,
		HomeTeamLogo:  item.HomeTeam.LogoURL,
		AwayTeamID:    ptrToNullInt64(item.AwayTeam.ID),
		AwayTeamName:  item.AwayTeam.Name,
		AwayTeamLogo:  item.AwayTeam.LogoURL,
		HomeScore:     item.Score.Home,
		AwayScore:     item.Score.Away,
		Status:        item.Status,
		MatchTime:     item.MatchTime.UTC(),
		LeagueID:      ptrToNullInt64(item.League.ID),
		LeagueName:    item.League.Name,
		LeagueCountry: item.League.Country,
		LeagueLogo:    item.League.LogoURL,
		Minute:        intPtrToNullInt64(item.Minute),
		Venue:         ptrToNullString(item.Venue),
		UpdatedAt:     now.UTC(),
	}
}

func matchFromTableModel(row matchTableModel) match.Match {
	return match.Match{
		ID:         row.ID,
		ProviderID: nullInt64ToPtr(row.ProviderID),
		HomeTeam: match.Team{
			ID:      nullInt64ToPtr(row.HomeTeamID),
			Name:    row.HomeTeamName,
			LogoURL: row.HomeTeamLogo,
		},
		AwayTeam: match.Team{
			ID:      nullInt64ToPtr(row.AwayTeamID),
			Name:    row.AwayTeamName,
			LogoURL: row.AwayTeamLogo,
		},
		Score: match.Score{
			Home: row.HomeScore,
			Away: row.AwayScore,
		},
		Status:    row.Status,
		MatchTime: row.MatchTime,
		League: match.LeagueRef{
			ID:      nullInt64ToPtr(row.LeagueID),
			Name:    row.LeagueName,
			Country: row.LeagueCountry,
			LogoURL: row.LeagueLogo,
		},
		Minute:    nullInt64ToIntPtr(row.Minute),
		Venue:     nullStringToPtr(row.Venue),
		UpdatedAt: row.UpdatedAt,
	}
}
