package selection

import (
	"fmt"
	"strings"
	"time"
)

// PlayersPerSide is the number of picks required from each team.
const PlayersPerSide = 4

// Rejection is a submission failure with a fixed user-facing message.
type Rejection struct {
	Reason  string
	Message string
}

func (e *Rejection) Error() string {
	return e.Message
}

var (
	ErrLocked = &Rejection{
		Reason:  "selection_locked",
		Message: "Match has already started. Selections are closed.",
	}
	ErrAlreadySubmitted = &Rejection{
		Reason:  "selection_already_submitted",
		Message: "Selection already submitted. Selections cannot be changed.",
	}
	ErrInvalidSquad = &Rejection{
		Reason:  "invalid_selection",
		Message: fmt.Sprintf("Select exactly %d different players from each team.", PlayersPerSide),
	}
)

// Selection is one user's write-once pick for one fixture.
type Selection struct {
	ID              string
	UserID          string
	FixtureID       int64
	FixtureStartsAt *time.Time
	TeamAIDs        []int64
	TeamANames      []string
	TeamBIDs        []int64
	TeamBNames      []string
	CreatedAt       time.Time
}

// PlayerIDs returns both sides in submission order, team A first.
func (s Selection) PlayerIDs() []int64 {
	out := make([]int64, 0, len(s.TeamAIDs)+len(s.TeamBIDs))
	out = append(out, s.TeamAIDs...)
	out = append(out, s.TeamBIDs...)
	return out
}

// StartTime returns the stored fixture start, or the zero time when unknown.
func (s Selection) StartTime() time.Time {
	if s.FixtureStartsAt == nil {
		return time.Time{}
	}
	return s.FixtureStartsAt.UTC()
}

// ValidateSquads checks each side has exactly PlayersPerSide distinct positive ids.
// Names are optional but, when given, must line up with the ids.
func ValidateSquads(teamAIDs []int64, teamANames []string, teamBIDs []int64, teamBNames []string) error {
	if err := validateSide("team_a", teamAIDs, teamANames); err != nil {
		return err
	}
	return validateSide("team_b", teamBIDs, teamBNames)
}

func validateSide(side string, ids []int64, names []string) error {
	if len(ids) != PlayersPerSide {
		return fmt.Errorf("%w: %s has %d players", ErrInvalidSquad, side, len(ids))
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: %s has invalid player id %d", ErrInvalidSquad, side, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s has duplicate player %d", ErrInvalidSquad, side, id)
		}
		seen[id] = struct{}{}
	}
	if len(names) == 0 {
		return nil
	}
	if len(names) != len(ids) {
		return fmt.Errorf("%w: %s has %d names for %d players", ErrInvalidSquad, side, len(names), len(ids))
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: %s has an empty player name", ErrInvalidSquad, side)
		}
	}
	return nil
}
