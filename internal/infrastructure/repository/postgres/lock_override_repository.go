package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/lockoverride"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

// lockOverrideRowID is the primary key of the only row in selection_lock_override.
const lockOverrideRowID = 1

type lockOverrideTableModel struct {
	ID        int       `db:"id"`
	Enabled   bool      `db:"enabled"`
	UpdatedAt time.Time `db:"updated_at"`
}

type LockOverrideRepository struct {
	db *sqlx.DB
}

func NewLockOverrideRepository(db *sqlx.DB) *LockOverrideRepository {
	return &LockOverrideRepository{db: db}
}

func (r *LockOverrideRepository) Get(ctx context.Context) (lockoverride.Override, error) {
	query, args, err := qb.Select("id", "enabled", "updated_at").From("selection_lock_override").
		Where(qb.Eq("id", lockOverrideRowID)).
		ToSQL()
	if err != nil {
		return lockoverride.Override{}, fmt.Errorf("build get lock override query: %w", err)
	}

	var row lockOverrideTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lockoverride.Override{}, nil
		}
		return lockoverride.Override{}, fmt.Errorf("get lock override: %w", err)
	}
	return lockoverride.Override{Enabled: row.Enabled, UpdatedAt: row.UpdatedAt.UTC()}, nil
}

func (r *LockOverrideRepository) Set(ctx context.Context, enabled bool, at time.Time) (lockoverride.Override, error) {
	query, args, err := qb.InsertInto("selection_lock_override").
		Columns("id", "enabled", "updated_at").
		Values(lockOverrideRowID, enabled, at.UTC()).
		OnConflict("id").
		DoUpdate([]string{"enabled", "updated_at"}).
		Returning("id", "enabled", "updated_at").
		ToSQL()
	if err != nil {
		return lockoverride.Override{}, fmt.Errorf("build set lock override query: %w", err)
	}

	var row lockOverrideTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return lockoverride.Override{}, fmt.Errorf("set lock override enabled=%t: %w", enabled, err)
	}
	return lockoverride.Override{Enabled: row.Enabled, UpdatedAt: row.UpdatedAt.UTC()}, nil
}
