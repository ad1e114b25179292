package squad

import (
	"context"
	"time"
)

type Player struct {
	ID        int64  `json:"id"`
	FullName  string `json:"fullname"`
	Position  string `json:"position,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
}

type Key struct {
	TeamID   int64
	SeasonID int64
}

// Squad is one team's roster for a season as last fetched from the provider.
type Squad struct {
	TeamID    int64     `json:"team_id"`
	SeasonID  int64     `json:"season_id"`
	TeamName  string    `json:"team_name,omitempty"`
	Players   []Player  `json:"players"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (s Squad) Key() Key {
	return Key{TeamID: s.TeamID, SeasonID: s.SeasonID}
}

type CacheRepository interface {
	Get(ctx context.Context, key Key) (Squad, bool, error)
	Upsert(ctx context.Context, s Squad) error
	ListKeys(ctx context.Context) ([]Key, error)
}
