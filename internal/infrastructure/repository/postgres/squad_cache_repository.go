package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/squad"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

type squadCacheTableModel struct {
	TeamID    int64     `db:"team_id"`
	SeasonID  int64     `db:"season_id"`
	TeamName  string    `db:"team_name"`
	Payload   []byte    `db:"payload"`
	FetchedAt time.Time `db:"fetched_at"`
}

type SquadCacheRepository struct {
	db *sqlx.DB
}

func NewSquadCacheRepository(db *sqlx.DB) *SquadCacheRepository {
	return &SquadCacheRepository{db: db}
}

func (r *SquadCacheRepository) Get(ctx context.Context, key squad.Key) (squad.Squad, bool, error) {
	query, args, err := qb.Select("team_id", "season_id", "team_name", "payload", "fetched_at").From("squad_cache").
		Where(
			qb.Eq("team_id", key.TeamID),
			qb.Eq("season_id", key.SeasonID),
		).
		ToSQL()
	if err != nil {
		return squad.Squad{}, false, fmt.Errorf("build get squad cache query: %w", err)
	}

	var row squadCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return squad.Squad{}, false, nil
		}
		return squad.Squad{}, false, fmt.Errorf("get squad cache team=%d season=%d: %w", key.TeamID, key.SeasonID, err)
	}

	var players []squad.Player
	if err := sonic.Unmarshal(row.Payload, &players); err != nil {
		return squad.Squad{}, false, fmt.Errorf("decode squad cache payload: %w", err)
	}
	if players == nil {
		players = []squad.Player{}
	}
	return squad.Squad{
		TeamID:    row.TeamID,
		SeasonID:  row.SeasonID,
		TeamName:  row.TeamName,
		Players:   players,
		FetchedAt: row.FetchedAt.UTC(),
	}, true, nil
}

func (r *SquadCacheRepository) Upsert(ctx context.Context, item squad.Squad) error {
	players := item.Players
	if players == nil {
		players = []squad.Player{}
	}
	payload, err := sonic.Marshal(players)
	if err != nil {
		return fmt.Errorf("encode squad cache payload: %w", err)
	}

	query, args, err := qb.InsertInto("squad_cache").
		Columns("team_id", "season_id", "team_name", "payload", "fetched_at").
		Values(item.TeamID, item.SeasonID, item.TeamName, string(payload), item.FetchedAt.UTC()).
		OnConflict("team_id", "season_id").
		DoUpdate([]string{"team_name", "payload", "fetched_at"}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert squad cache query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert squad cache team=%d season=%d: %w", item.TeamID, item.SeasonID, err)
	}
	return nil
}

func (r *SquadCacheRepository) ListKeys(ctx context.Context) ([]squad.Key, error) {
	query, args, err := qb.Select("team_id", "season_id").From("squad_cache").
		OrderBy("team_id", "season_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list squad cache keys query: %w", err)
	}

	var rows []squadCacheTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select squad cache keys: %w", err)
	}
	out := make([]squad.Key, 0, len(rows))
	for _, row := range rows {
		out = append(out, squad.Key{TeamID: row.TeamID, SeasonID: row.SeasonID})
	}
	return out, nil
}
