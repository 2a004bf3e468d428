package footballdata

import (
	"strings"
	"time"

	"github.com/farellandr/goalfeed/internal/domain/league"
	"github.com/farellandr/goalfeed/internal/domain/match"
)

const (
	unknownTeamName    = "Unknown"
	unknownLeagueName  = "Unknown League"
	teamLogoFallback   = "https://via.placeholder.com/24"
	leagueLogoFallback = "https://via.placeholder.com/16"
)

func normalizeMatches(payloads []matchPayload) []match.Match {
	out := make([]match.Match, 0, len(payloads))
	for _, item := range payloads {
		out = append(out, normalizeMatch(item))
	}
	return out
}

func normalizeMatch(item matchPayload) match.Match {
	var providerID *int64
	if item.ID > 0 {
		id := item.ID
		providerID = &id
	}

	return match.Match{
		ProviderID: providerID,
		HomeTeam:   normalizeTeam(item.HomeTeam),
		AwayTeam:   normalizeTeam(item.AwayTeam),
		Score:      normalizeScore(item.Score),
		Status:     match.NormalizeStatus(item.Status),
		MatchTime:  normalizeMatchTime(item),
		League:     normalizeLeagueRef(item),
		Minute:     item.Minute,
		Venue:      trimToPtr(item.Venue),
	}
}

func normalizeTeam(item teamPayload) match.Team {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		name = unknownTeamName
	}

	logo := strings.TrimSpace(item.Crest)
	if logo == "" {
		logo = strings.TrimSpace(item.Logo)
	}
	if logo == "" {
		logo = teamLogoFallback
	}

	return match.Team{
		ID:      item.ID,
		Name:    name,
		LogoURL: logo,
	}
}

// normalizeScore prefers the full-time breakdown over the flat legacy fields
// and falls back to 0-0 when the provider reports neither.
func normalizeScore(item scorePayload) match.Score {
	if item.FullTime != nil && (item.FullTime.Home != nil || item.FullTime.Away != nil) {
		return match.Score{
			Home: intOrZero(item.FullTime.Home),
			Away: intOrZero(item.FullTime.Away),
		}
	}
	if item.Home != nil || item.Away != nil {
		return match.Score{
			Home: intOrZero(item.Home),
			Away: intOrZero(item.Away),
		}
	}
	return match.Score{}
}

func normalizeLeagueRef(item matchPayload) match.LeagueRef {
	var id *int64
	name := ""
	logo := ""
	country := strings.TrimSpace(item.Area.Name)

	if item.Competition != nil {
		id = item.Competition.ID
		name = strings.TrimSpace(item.Competition.Name)
		logo = strings.TrimSpace(item.Competition.Emblem)
		if country == "" {
			country = strings.TrimSpace(item.Competition.Area.Name)
		}
	}
	if id == nil {
		id = item.CompetitionID
	}
	if name == "" {
		name = unknownLeagueName
	}
	if logo == "" {
		logo = leagueLogoFallback
	}

	return match.LeagueRef{
		ID:      id,
		Name:    name,
		Country: country,
		LogoURL: logo,
	}
}

func normalizeMatchTime(item matchPayload) time.Time {
	if parsed := parseProviderTime(item.UTCDate); !parsed.IsZero() {
		return parsed
	}
	if parsed := parseProviderTime(item.Date); !parsed.IsZero() {
		return parsed
	}
	return time.Time{}
}

func parseProviderTime(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		dateLayout,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func normalizeCompetitions(payloads []competitionDetail) []league.League {
	out := make([]league.League, 0, len(payloads))
	for _, item := range payloads {
		if item.ID <= 0 {
			continue
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = unknownLeagueName
		}
		logo := strings.TrimSpace(item.Emblem)
		if logo == "" {
			logo = leagueLogoFallback
		}

		id := item.ID
		out = append(out, league.League{
			ProviderID: &id,
			Name:       name,
			Country:    strings.TrimSpace(item.Area.Name),
			LogoURL:    logo,
			FlagURL:    strings.TrimSpace(item.Area.Flag),
			Season:     seasonYear(item.CurrentSeason),
			Active:     true,
		})
	}
	return out
}

// seasonYear reports the year the current season started, when known.
func seasonYear(season *seasonPayload) *int {
	if season == nil {
		return nil
	}
	start := parseProviderTime(season.StartDate)
	if start.IsZero() {
		return nil
	}
	year := start.Year()
	return &year
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func trimToPtr(v string) *string {
	value := strings.TrimSpace(v)
	if value == "" {
		return nil
	}
	return &value
}
