package match

import (
	"context"
	"time"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	// UpsertByProviderID writes one row per match keyed by provider id,
	// overwriting every field on conflict. Matches without a provider id
	// must be rejected by the caller before reaching here.
	UpsertByProviderID(ctx context.Context, matches []Match) error

	ListByStatuses(ctx context.Context, statuses []string, orderDesc bool, limit int) ([]Match, error)
	ListUpcoming(ctx context.Context, from time.Time, statuses []string, limit int) ([]Match, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Match, error)
	ListByLeagueID(ctx context.Context, leagueID int64) ([]Match, error)
	GetByID(ctx context.Context, id int64) (Match, bool, error)
}
