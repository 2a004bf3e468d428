package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/farellandr/goalfeed/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]league.League
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		nextID: 1,
		items:  make(map[int64]league.League),
	}
}

func (r *LeagueRepository) UpsertByProviderID(_ context.Context, leagues []league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range leagues {
		if item.ProviderID == nil {
			return fmt.Errorf("upsert league: provider id is required")
		}

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

func (r *LeagueRepository) ListActive(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.items))
	for _, item := range r.items {
		if item.Active {
			out = append(out, item)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *LeagueRepository) findByProviderID(providerID int64) (int64, bool) {
	for id, item := range r.items {
		if item.ProviderID != nil && *item.ProviderID == providerID {
			return id, true
		}
	}
	return 0, false
}
