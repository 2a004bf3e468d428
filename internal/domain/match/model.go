package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusLive      = "LIVE"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
	StatusSuspended = "SUSPENDED"
)

// Statuses the provider can assign; anything else is rejected at the store.
var KnownStatuses = []string{
	StatusScheduled,
	StatusTimed,
	StatusLive,
	StatusInPlay,
	StatusPaused,
	StatusFinished,
	StatusPostponed,
	StatusCancelled,
	StatusSuspended,
}

// Team is one side of a match as mirrored from the provider.
type Team struct {
	ID      *int64 `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo"`
}

// Score is the current full-time score, zeroed until the provider reports one.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// LeagueRef is the competition a match belongs to, embedded on the match
// record so list queries never need a join.
type LeagueRef struct {
	ID      *int64 `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	LogoURL string `json:"logo"`
}

// Match is the canonical, storage-ready shape of one match. Every field is a
// mutable mirror of upstream truth and may be overwritten on any sync.
type Match struct {
	ID         int64     `json:"id"`
	ProviderID *int64    `json:"apiId"`
	HomeTeam   Team      `json:"homeTeam"`
	AwayTeam   Team      `json:"awayTeam"`
	Score      Score     `json:"score"`
	Status     string    `json:"status"`
	MatchTime  time.Time `json:"matchDate"`
	League     LeagueRef `json:"league"`
	Minute     *int      `json:"minute"`
	Venue      *string   `json:"venue"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsKnownStatus(status string) bool {
	normalized := NormalizeStatus(status)
	for _, known := range KnownStatuses {
		if normalized == known {
			return true
		}
	}
	return false
}

// LiveStatuses covers everything shown on the live board, pauses included.
func LiveStatuses() []string {
	return []string{StatusLive, StatusInPlay, StatusPaused}
}

// UpcomingStatuses covers future fixtures plus matches already underway.
func UpcomingStatuses() []string {
	return []string{StatusScheduled, StatusTimed, StatusLive, StatusInPlay, StatusPaused}
}
