package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/farellandr/goalfeed/internal/domain/match"
)

// MatchRepository is an in-memory match store with the same upsert semantics
// as the Postgres implementation. Used by tests and local development.
type MatchRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		nextID: 1,
		items:  make(map[int64]match.Match),
	}
}

func (r *MatchRepository) UpsertByProviderID(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range matches {
		if item.ProviderID == nil {
			return fmt.Errorf("upsert match: provider id is required")
		}

		item.UpdatedAt = time.Now().UTC()
		if existingID, ok := r.findByProviderID(*item.ProviderID); ok {
			item.ID = existingID
			r.items[existingID] = item
			continue
		}

		item.ID = r.nextID
		r.nextID++
		r.items[item.ID] = item
	}

	return nil
}

func (r *MatchRepository) ListByStatuses(_ context.Context, statuses []string, orderDesc bool, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := statusSet(statuses)
	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if _, ok := wanted[item.Status]; ok {
			out = append(out, item)
		}
	}

	sortByMatchTime(out, orderDesc)
	return capSlice(out, limit), nil
}

func (r *MatchRepository) ListUpcoming(_ context.Context, from time.Time, statuses []string, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := statusSet(statuses)
	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if item.MatchTime.Before(from) {
			continue
		}
		if _, ok := wanted[item.Status]; ok {
			out = append(out, item)
		}
	}

	sortByMatchTime(out, false)
	return capSlice(out, limit), nil
}

func (r *MatchRepository) ListByDateRange(_ context.Context, from, to time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if item.MatchTime.Before(from) || item.MatchTime.After(to) {
			continue
		}
		out = append(out, item)
	}

	sortByMatchTime(out, false)
	return out, nil
}

func (r *MatchRepository) ListByLeagueID(_ context.Context, leagueID int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if item.League.ID != nil && *item.League.ID == leagueID {
			out = append(out, item)
		}
	}

	sortByMatchTime(out, true)
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

// Count reports the number of stored matches.
func (r *MatchRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *MatchRepository) findByProviderID(providerID int64) (int64, bool) {
	for id, item := range r.items {
		if item.ProviderID != nil && *item.ProviderID == providerID {
			return id, true
		}
	}
	return 0, false
}

func statusSet(statuses []string) map[string]struct{} {
	out := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		out[status] = struct{}{}
	}
	return out
}

func sortByMatchTime(items []match.Match, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].MatchTime.Equal(items[j].MatchTime) {
			if desc {
				return items[i].MatchTime.After(items[j].MatchTime)
			}
			return items[i].MatchTime.Before(items[j].MatchTime)
		}
		return items[i].ID < items[j].ID
	})
}

func capSlice(items []match.Match, limit int) []match.Match {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
