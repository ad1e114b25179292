package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

// fixtureCacheKey names the single snapshot row; the table is keyed so other
// fixture ranges can be cached alongside later.
const fixtureCacheKey = "fixtures"

type fixtureCacheTableModel struct {
	CacheKey  string    `db:"cache_key"`
	Payload   []byte    `db:"payload"`
	FetchedAt time.Time `db:"fetched_at"`
}

type FixtureCacheRepository struct {
	db *sqlx.DB
}

func NewFixtureCacheRepository(db *sqlx.DB) *FixtureCacheRepository {
	return &FixtureCacheRepository{db: db}
}

func (r *FixtureCacheRepository) LatestSnapshot(ctx context.Context) (fixture.Snapshot, bool, error) {
	query, args, err := qb.Select("cache_key", "payload", "fetched_at").From("fixture_cache").
		Where(qb.Eq("cache_key", fixtureCacheKey)).
		ToSQL()
	if err != nil {
		return fixture.Snapshot{}, false, fmt.Errorf("build get fixture cache query: %w", err)
	}

	var row fixtureCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Snapshot{}, false, nil
		}
		return fixture.Snapshot{}, false, fmt.Errorf("get fixture cache: %w", err)
	}

	var fixtures []fixture.Fixture
	if err := sonic.Unmarshal(row.Payload, &fixtures); err != nil {
		return fixture.Snapshot{}, false, fmt.Errorf("decode fixture cache payload: %w", err)
	}
	if fixtures == nil {
		fixtures = []fixture.Fixture{}
	}
	return fixture.Snapshot{Fixtures: fixtures, FetchedAt: row.FetchedAt.UTC()}, true, nil
}

func (r *FixtureCacheRepository) SaveSnapshot(ctx context.Context, snapshot fixture.Snapshot) error {
	fixtures := snapshot.Fixtures
	if fixtures == nil {
		fixtures = []fixture.Fixture{}
	}
	payload, err := sonic.Marshal(fixtures)
	if err != nil {
		return fmt.Errorf("encode fixture cache payload: %w", err)
	}

	query, args, err := qb.InsertInto("fixture_cache").
		Columns("cache_key", "payload", "fetched_at").
		Values(fixtureCacheKey, string(payload), snapshot.FetchedAt.UTC()).
		OnConflict("cache_key").
		DoUpdate([]string{"payload", "fetched_at"}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build save fixture cache query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save fixture cache: %w", err)
	}
	return nil
}
