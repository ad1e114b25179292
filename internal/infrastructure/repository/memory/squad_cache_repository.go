package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/squad"
)

type SquadCacheRepository struct {
	mu    sync.RWMutex
	items map[squad.Key]squad.Squad
}

func NewSquadCacheRepository() *SquadCacheRepository {
	return &SquadCacheRepository{items: make(map[squad.Key]squad.Squad)}
}

func (r *SquadCacheRepository) Get(_ context.Context, key squad.Key) (squad.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[key]
	if !ok {
		return squad.Squad{}, false, nil
	}
	item.Players = append([]squad.Player{}, item.Players...)
	return item, true, nil
}

func (r *SquadCacheRepository) Upsert(_ context.Context, item squad.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.Players = append([]squad.Player{}, item.Players...)
	r.items[item.Key()] = item
	return nil
}

func (r *SquadCacheRepository) ListKeys(_ context.Context) ([]squad.Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]squad.Key, 0, len(r.items))
	for key := range r.items {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].SeasonID < out[j].SeasonID
	})
	return out, nil
}
