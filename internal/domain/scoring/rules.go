package scoring

import (
	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/stats"
)

// Rules stores the point tiers. Run tiers are exclusive: only the highest reached applies.
type Rules struct {
	CenturyRuns       int
	CenturyPoints     int
	HalfCenturyRuns   int
	HalfCenturyPoints int
	PointsPerWicket   int
}

func DefaultRules() Rules {
	return Rules{
		CenturyRuns:       100,
		CenturyPoints:     150,
		HalfCenturyRuns:   50,
		HalfCenturyPoints: 50,
		PointsPerWicket:   30,
	}
}

func (r Rules) RunPoints(runs int) int {
	switch {
	case runs >= r.CenturyRuns:
		return r.CenturyPoints
	case runs >= r.HalfCenturyRuns:
		return r.HalfCenturyPoints
	default:
		return 0
	}
}

func (r Rules) WicketPoints(wickets int) int {
	if wickets <= 0 {
		return 0
	}
	return wickets * r.PointsPerWicket
}

func (r Rules) PlayerPoints(runs, wickets int) int {
	return r.RunPoints(runs) + r.WicketPoints(wickets)
}

// PlayerLine is the audit record for one selected player in one fixture.
type PlayerLine struct {
	FixtureID int64 `json:"fixture_id"`
	PlayerID  int64 `json:"player_id"`
	Runs      int   `json:"runs"`
	Wickets   int   `json:"wickets"`
	Points    int   `json:"points"`
}

// ScoreSelection totals the eight picks of a selection against its fixture's stats.
func (r Rules) ScoreSelection(sel selection.Selection, fs stats.FixtureStats) (int, []PlayerLine) {
	ids := sel.PlayerIDs()
	lines := make([]PlayerLine, 0, len(ids))
	total := 0
	for _, pid := range ids {
		runs := fs.RunsFor(pid)
		wickets := fs.WicketsFor(pid)
		points := r.PlayerPoints(runs, wickets)
		total += points
		lines = append(lines, PlayerLine{
			FixtureID: sel.FixtureID,
			PlayerID:  pid,
			Runs:      runs,
			Wickets:   wickets,
			Points:    points,
		})
	}
	return total, lines
}
