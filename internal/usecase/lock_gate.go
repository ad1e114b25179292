package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/lockoverride"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

type LockStatus struct {
	OverrideEnabled bool                  `json:"override_enabled"`
	DerivedState    lockoverride.State    `json:"derived_state"`
	EffectiveState  lockoverride.State    `json:"effective_state"`
	FixtureStartsAt *time.Time            `json:"fixture_starts_at,omitempty"`
	UpdatedAt       *time.Time            `json:"override_updated_at,omitempty"`
	CheckedAt       time.Time             `json:"checked_at"`
	Override        lockoverride.Override `json:"-"`
}

// LockGate decides whether selections for a fixture are still open.
// The override row is read from storage on every decision.
type LockGate struct {
	repo   lockoverride.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewLockGate(repo lockoverride.Repository, logger *logging.Logger) *LockGate {
	if logger == nil {
		logger = logging.Default()
	}
	return &LockGate{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Status reports the override and the lock state for a fixture starting at
// start. A zero start is reported as unknown and never locks.
func (g *LockGate) Status(ctx context.Context, start time.Time) (LockStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockGate.Status")
	defer span.End()

	override, err := g.repo.Get(ctx)
	if err != nil {
		return LockStatus{}, fmt.Errorf("read lock override: %w", err)
	}

	now := g.now().UTC()
	status := LockStatus{
		OverrideEnabled: override.Enabled,
		DerivedState:    lockoverride.DerivedState(start, now),
		EffectiveState:  lockoverride.EffectiveState(override.Enabled, start, now),
		CheckedAt:       now,
		Override:        override,
	}
	if !start.IsZero() {
		s := start.UTC()
		status.FixtureStartsAt = &s
	}
	if !override.UpdatedAt.IsZero() {
		u := override.UpdatedAt.UTC()
		status.UpdatedAt = &u
	}
	return status, nil
}

// CheckOpen returns selection.ErrLocked when a submission for a fixture
// starting at start must be refused.
func (g *LockGate) CheckOpen(ctx context.Context, start time.Time) error {
	status, err := g.Status(ctx, start)
	if err != nil {
		return err
	}
	if status.EffectiveState == lockoverride.StateLocked {
		return selection.ErrLocked
	}
	return nil
}

// ForceUnlock keeps selections open regardless of fixture start times.
func (g *LockGate) ForceUnlock(ctx context.Context) (lockoverride.Override, error) {
	return g.setOverride(ctx, true)
}

// ForceLock clears the override so start times decide again.
func (g *LockGate) ForceLock(ctx context.Context) (lockoverride.Override, error) {
	return g.setOverride(ctx, false)
}

func (g *LockGate) setOverride(ctx context.Context, enabled bool) (lockoverride.Override, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LockGate.setOverride")
	defer span.End()

	override, err := g.repo.Set(ctx, enabled, g.now().UTC())
	if err != nil {
		return lockoverride.Override{}, fmt.Errorf("set lock override: %w", err)
	}
	g.logger.InfoContext(ctx, "selection lock override updated", "enabled", override.Enabled)
	return override, nil
}
