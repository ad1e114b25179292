package sportmonks

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

type fixturesEnvelope struct {
	Data []fixtureItem `json:"data"`
}

type fixtureEnvelope struct {
	Data fixtureItem `json:"data"`
}

type fixtureItem struct {
	ID            int64                   `json:"id"`
	LeagueID      int64                   `json:"league_id"`
	SeasonID      int64                   `json:"season_id"`
	Round         string                  `json:"round"`
	LocalTeamID   int64                   `json:"localteam_id"`
	VisitorTeamID int64                   `json:"visitorteam_id"`
	StartingAt    string                  `json:"starting_at"`
	Status        string                  `json:"status"`
	Live          bool                    `json:"live"`
	Note          string                  `json:"note"`
	LocalTeam     relation[teamItem]      `json:"localteam"`
	VisitorTeam   relation[teamItem]      `json:"visitorteam"`
	Batting       relation[[]battingItem] `json:"batting"`
	Bowling       relation[[]bowlingItem] `json:"bowling"`
}

type teamItem struct {
	ID        int64                   `json:"id"`
	Name      string                  `json:"name"`
	Code      string                  `json:"code"`
	ImagePath string                  `json:"image_path"`
	Squad     relation[[]squadPlayer] `json:"squad"`
}

type teamEnvelope struct {
	Data teamItem `json:"data"`
}

type squadPlayer struct {
	ID        int64                  `json:"id"`
	FullName  string                 `json:"fullname"`
	FirstName string                 `json:"firstname"`
	LastName  string                 `json:"lastname"`
	ImagePath string                 `json:"image_path"`
	Position  relation[positionItem] `json:"position"`
}

type positionItem struct {
	Name string `json:"name"`
}

type battingItem struct {
	PlayerID flexInt `json:"player_id"`
	Score    flexInt `json:"score"`
}

type bowlingItem struct {
	PlayerID flexInt `json:"player_id"`
	Wickets  flexInt `json:"wickets"`
}

// relation decodes an include that may arrive bare or wrapped in {"data": ...}.
type relation[T any] struct {
	Data T
	Set  bool
}

func (r *relation[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Set = false
		return nil
	}

	if trimmed[0] == '{' {
		var wrapped struct {
			Data *T `json:"data"`
		}
		if err := sonic.Unmarshal(trimmed, &wrapped); err == nil && wrapped.Data != nil {
			r.Data = *wrapped.Data
			r.Set = true
			return nil
		}
	}

	var direct T
	if err := sonic.Unmarshal(trimmed, &direct); err != nil {
		return err
	}
	r.Data = direct
	r.Set = true
	return nil
}

// flexInt accepts numbers, numeric strings and null. Anything else reads as zero.
type flexInt int64

func (v *flexInt) UnmarshalJSON(data []byte) error {
	var raw any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		*v = 0
		return nil
	}
	*v = flexInt(asFloat64(raw))
	return nil
}

func asFloat64(value any) float64 {
	switch typed := value.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}
