package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/userprofile"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

type userTableModel struct {
	ID        string         `db:"id"`
	FirstName sql.NullString `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	Email     sql.NullString `db:"email"`
}

type UserProfileRepository struct {
	db *sqlx.DB
}

func NewUserProfileRepository(db *sqlx.DB) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

func (r *UserProfileRepository) ListByIDs(ctx context.Context, userIDs []string) (map[string]userprofile.Profile, error) {
	out := make(map[string]userprofile.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select("id", "first_name", "last_name", "email").From("users").
		Where(qb.InValues("id", userIDs)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = userprofile.Profile{
			UserID:    row.ID,
			FirstName: row.FirstName.String,
			LastName:  row.LastName.String,
			Email:     row.Email.String,
		}
	}
	return out, nil
}
