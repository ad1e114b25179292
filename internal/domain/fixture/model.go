package fixture

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when the provider has no fixture with the requested id.
var ErrNotFound = errors.New("fixture not found")

// Provider status values as reported by the cricket feed.
const (
	StatusNotStarted   = "NS"
	StatusFirstInnings = "1ST INNINGS"
	StatusSecondInns   = "2ND INNINGS"
	StatusThirdInnings = "3RD INNINGS"
	StatusFourthInns   = "4TH INNINGS"
	StatusInningsBreak = "INNINGS BREAK"
	StatusLunch        = "LUNCH"
	StatusTea          = "TEA"
	StatusDinner       = "DINNER"
	StatusDelayed      = "DELAYED"
	StatusInterrupted  = "INT."
	StatusFinished     = "FINISHED"
	StatusAbandoned    = "ABAN."
	StatusCancelled    = "CANCL."
	StatusPostponed    = "POSTP."
)

type TeamRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
}

// Fixture represents one scheduled match.
type Fixture struct {
	ID          int64     `json:"id"`
	LeagueID    int64     `json:"league_id"`
	SeasonID    int64     `json:"season_id"`
	Round       string    `json:"round,omitempty"`
	LocalTeam   TeamRef   `json:"localteam"`
	VisitorTeam TeamRef   `json:"visitorteam"`
	StartingAt  time.Time `json:"starting_at"`
	Status      string    `json:"status"`
	Live        bool      `json:"live"`
	Note        string    `json:"note,omitempty"`
}

// Snapshot is one cached provider response.
type Snapshot struct {
	Fixtures  []Fixture `json:"fixtures"`
	FetchedAt time.Time `json:"fetched_at"`
}

// StartTimes indexes fixture start times by id, skipping fixtures without one.
func StartTimes(fixtures []Fixture) map[int64]time.Time {
	out := make(map[int64]time.Time, len(fixtures))
	for _, f := range fixtures {
		if f.StartingAt.IsZero() {
			continue
		}
		out[f.ID] = f.StartingAt.UTC()
	}
	return out
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

func IsLiveInningsStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFirstInnings, StatusSecondInns, StatusThirdInnings, StatusFourthInns:
		return true
	default:
		return false
	}
}

func IsBreakStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusInningsBreak, StatusLunch, StatusTea, StatusDinner:
		return true
	default:
		return false
	}
}

func IsStumpsStatus(status string) bool {
	return strings.HasPrefix(NormalizeStatus(status), "STUMP")
}

func IsDelayedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusDelayed, StatusInterrupted:
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, StatusAbandoned, StatusCancelled, StatusPostponed:
		return true
	default:
		return false
	}
}
