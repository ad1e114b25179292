package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

type SelectionRepository struct {
	db *sqlx.DB
}

func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

func (r *SelectionRepository) ListAll(ctx context.Context) ([]selection.Selection, error) {
	query, args, err := qb.Select(selectionColumns...).From("player_selections").
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list selections query: %w", err)
	}

	var rows []selectionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select selections: %w", err)
	}

	out := make([]selection.Selection, 0, len(rows))
	for _, row := range rows {
		out = append(out, selectionFromRow(row))
	}
	return out, nil
}

func (r *SelectionRepository) GetByUserAndFixture(ctx context.Context, userID string, fixtureID int64) (selection.Selection, bool, error) {
	query, args, err := qb.Select(selectionColumns...).From("player_selections").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("fixture_id", fixtureID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return selection.Selection{}, false, fmt.Errorf("build get selection query: %w", err)
	}

	var row selectionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return selection.Selection{}, false, nil
		}
		return selection.Selection{}, false, fmt.Errorf("get selection user=%s fixture=%d: %w", userID, fixtureID, err)
	}
	return selectionFromRow(row), true, nil
}

// Create inserts a selection. The (user_id, fixture_id) unique key turns a
// concurrent duplicate into selection.ErrAlreadySubmitted.
func (r *SelectionRepository) Create(ctx context.Context, item selection.Selection) error {
	insertModel := selectionTableModel{
		ID:                item.ID,
		UserID:            item.UserID,
		FixtureID:         item.FixtureID,
		FixtureStartingAt: ptrToNullTime(item.FixtureStartsAt),
		TeamAPlayerIDs:    pq.Int64Array(item.TeamAIDs),
		TeamAPlayerNames:  pq.StringArray(nonNilStrings(item.TeamANames)),
		TeamBPlayerIDs:    pq.Int64Array(item.TeamBIDs),
		TeamBPlayerNames:  pq.StringArray(nonNilStrings(item.TeamBNames)),
		CreatedAt:         item.CreatedAt.UTC(),
	}
	builder, err := qb.InsertModel("player_selections", insertModel)
	if err != nil {
		return fmt.Errorf("build insert selection query: %w", err)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert selection query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return selection.ErrAlreadySubmitted
		}
		return fmt.Errorf("insert selection user=%s fixture=%d: %w", item.UserID, item.FixtureID, err)
	}
	return nil
}

func selectionFromRow(row selectionTableModel) selection.Selection {
	return selection.Selection{
		ID:              row.ID,
		UserID:          row.UserID,
		FixtureID:       row.FixtureID,
		FixtureStartsAt: nullTimeToPtr(row.FixtureStartingAt),
		TeamAIDs:        []int64(row.TeamAPlayerIDs),
		TeamANames:      []string(row.TeamAPlayerNames),
		TeamBIDs:        []int64(row.TeamBPlayerIDs),
		TeamBNames:      []string(row.TeamBPlayerNames),
		CreatedAt:       row.CreatedAt.UTC(),
	}
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
