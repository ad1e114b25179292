package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/lockoverride"
)

type LockOverrideRepository struct {
	mu       sync.RWMutex
	override lockoverride.Override
}

func NewLockOverrideRepository() *LockOverrideRepository {
	return &LockOverrideRepository{}
}

func (r *LockOverrideRepository) Get(_ context.Context) (lockoverride.Override, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.override, nil
}

func (r *LockOverrideRepository) Set(_ context.Context, enabled bool, at time.Time) (lockoverride.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = lockoverride.Override{Enabled: enabled, UpdatedAt: at.UTC()}
	return r.override, nil
}
