package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type selectionTableModel struct {
	ID                string         `db:"id"`
	UserID            string         `db:"user_id"`
	FixtureID         int64          `db:"fixture_id"`
	FixtureStartingAt sql.NullTime   `db:"fixture_starting_at"`
	TeamAPlayerIDs    pq.Int64Array  `db:"team_a_player_ids"`
	TeamAPlayerNames  pq.StringArray `db:"team_a_player_names"`
	TeamBPlayerIDs    pq.Int64Array  `db:"team_b_player_ids"`
	TeamBPlayerNames  pq.StringArray `db:"team_b_player_names"`
	CreatedAt         time.Time      `db:"created_at"`
}

var selectionColumns = []string{
	"id",
	"user_id",
	"fixture_id",
	"fixture_starting_at",
	"team_a_player_ids",
	"team_a_player_names",
	"team_b_player_ids",
	"team_b_player_names",
	"created_at",
}
