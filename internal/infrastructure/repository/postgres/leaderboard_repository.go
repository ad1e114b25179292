package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

type leaderboardTable struct {
	name      string
	keyColumn string
}

var leaderboardTables = map[leaderboard.WindowKind]leaderboardTable{
	leaderboard.KindLeague: {name: "league_leaderboard"},
	leaderboard.KindWeekly: {name: "weekly_leaderboard", keyColumn: "week_start"},
	leaderboard.KindDaily:  {name: "daily_leaderboard", keyColumn: "day"},
}

type leaderboardRowModel struct {
	UserID    string        `db:"user_id"`
	UserName  string        `db:"user_name"`
	Score     int           `db:"score"`
	Rank      sql.NullInt64 `db:"rank"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func tableFor(kind leaderboard.WindowKind) (leaderboardTable, error) {
	table, ok := leaderboardTables[kind]
	if !ok {
		return leaderboardTable{}, fmt.Errorf("unknown leaderboard window kind %q", kind)
	}
	return table, nil
}

// UpsertWindow writes every row of a window in one transaction. Existing rows
// for users not in rows are left untouched and rank is always stored as NULL.
func (r *LeaderboardRepository) UpsertWindow(ctx context.Context, window leaderboard.Window, rows []leaderboard.Row) error {
	if len(rows) == 0 {
		return nil
	}
	table, err := tableFor(window.Kind)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert %s leaderboard: %w", window, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, batch := range chunk(rows, maxRowsPerInsert) {
		query, args, err := buildLeaderboardUpsert(table, window, batch)
		if err != nil {
			return fmt.Errorf("build upsert %s leaderboard query: %w", window, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert %s leaderboard: %w", window, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert %s leaderboard tx: %w", window, err)
	}
	return nil
}

func buildLeaderboardUpsert(table leaderboardTable, window leaderboard.Window, rows []leaderboard.Row) (string, []any, error) {
	columns := []string{"user_id", "user_name", "score", "rank", "updated_at"}
	conflict := []string{"user_id"}
	if table.keyColumn != "" {
		columns = append([]string{table.keyColumn}, columns...)
		conflict = []string{table.keyColumn, "user_id"}
	}

	builder := qb.InsertInto(table.name).Columns(columns...)
	for _, row := range rows {
		values := []any{row.UserID, row.UserName, row.Score, nil, row.UpdatedAt.UTC()}
		if table.keyColumn != "" {
			values = append([]any{window.Key}, values...)
		}
		builder.Values(values...)
	}
	// Unchanged rows keep their updated_at so a re-run leaves the table as it was.
	return builder.
		OnConflict(conflict...).
		DoUpdate([]string{"user_name", "score", "rank", "updated_at"}).
		UpdateWhere(fmt.Sprintf("(%[1]s.user_name, %[1]s.score) IS DISTINCT FROM (EXCLUDED.user_name, EXCLUDED.score)", table.name)).
		ToSQL()
}

func (r *LeaderboardRepository) ListWindow(ctx context.Context, window leaderboard.Window) ([]leaderboard.Row, error) {
	table, err := tableFor(window.Kind)
	if err != nil {
		return nil, err
	}

	builder := qb.Select("user_id", "user_name", "score", "rank", "updated_at").From(table.name)
	if table.keyColumn != "" {
		builder = builder.Where(qb.Eq(table.keyColumn, window.Key))
	}
	query, args, err := builder.OrderBy("score DESC", "user_id ASC").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list %s leaderboard query: %w", window, err)
	}

	var rows []leaderboardRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s leaderboard: %w", window, err)
	}

	out := make([]leaderboard.Row, 0, len(rows))
	for _, row := range rows {
		item := leaderboard.Row{
			Window:    window,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Score:     row.Score,
			UpdatedAt: row.UpdatedAt.UTC(),
		}
		if row.Rank.Valid {
			rank := int(row.Rank.Int64)
			item.Rank = &rank
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *LeaderboardRepository) ListWindowKeys(ctx context.Context, kind leaderboard.WindowKind) ([]string, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	if table.keyColumn == "" {
		return []string{leaderboard.LeagueKey}, nil
	}

	query, args, err := qb.SelectDistinct(fmt.Sprintf("to_char(%s, 'YYYY-MM-DD') AS window_key", table.keyColumn)).
		From(table.name).
		OrderBy("window_key DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list %s keys query: %w", kind, err)
	}

	keys := make([]string, 0)
	if err := r.db.SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("select %s keys: %w", kind, err)
	}
	return keys, nil
}
