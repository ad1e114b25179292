package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
)

type FixtureCacheRepository struct {
	mu       sync.RWMutex
	snapshot *fixture.Snapshot
}

func NewFixtureCacheRepository() *FixtureCacheRepository {
	return &FixtureCacheRepository{}
}

func (r *FixtureCacheRepository) LatestSnapshot(_ context.Context) (fixture.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return fixture.Snapshot{}, false, nil
	}
	return fixture.Snapshot{
		Fixtures:  append([]fixture.Fixture{}, r.snapshot.Fixtures...),
		FetchedAt: r.snapshot.FetchedAt,
	}, true, nil
}

func (r *FixtureCacheRepository) SaveSnapshot(_ context.Context, snapshot fixture.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := fixture.Snapshot{
		Fixtures:  append([]fixture.Fixture{}, snapshot.Fixtures...),
		FetchedAt: snapshot.FetchedAt,
	}
	r.snapshot = &copied
	return nil
}
