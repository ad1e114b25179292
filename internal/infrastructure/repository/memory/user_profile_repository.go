package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/userprofile"
)

type UserProfileRepository struct {
	mu    sync.RWMutex
	items map[string]userprofile.Profile
}

func NewUserProfileRepository(profiles ...userprofile.Profile) *UserProfileRepository {
	r := &UserProfileRepository{items: make(map[string]userprofile.Profile, len(profiles))}
	for _, p := range profiles {
		r.items[p.UserID] = p
	}
	return r
}

func (r *UserProfileRepository) Put(profile userprofile.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[profile.UserID] = profile
}

func (r *UserProfileRepository) ListByIDs(_ context.Context, userIDs []string) (map[string]userprofile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]userprofile.Profile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := r.items[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
