package stats

// Entry is one raw batting or bowling line from the provider.
type Entry struct {
	PlayerID int64
	Runs     int
	Wickets  int
}

// FixtureStats holds per-player totals for one fixture.
type FixtureStats struct {
	FixtureID     int64
	Runs          map[int64]int
	Wickets       map[int64]int
	BattingFailed bool
	BowlingFailed bool
}

func Empty(fixtureID int64) FixtureStats {
	return FixtureStats{
		FixtureID: fixtureID,
		Runs:      map[int64]int{},
		Wickets:   map[int64]int{},
	}
}

// Failed reports whether any provider call for the fixture failed.
func (s FixtureStats) Failed() bool {
	return s.BattingFailed || s.BowlingFailed
}

func (s FixtureStats) RunsFor(playerID int64) int {
	return s.Runs[playerID]
}

func (s FixtureStats) WicketsFor(playerID int64) int {
	return s.Wickets[playerID]
}

// SumRuns folds batting entries into player totals. Entries without a player are dropped.
func SumRuns(entries []Entry) map[int64]int {
	out := make(map[int64]int, len(entries))
	for _, e := range entries {
		if e.PlayerID <= 0 {
			continue
		}
		out[e.PlayerID] += e.Runs
	}
	return out
}

// SumWickets folds bowling entries into player totals.
func SumWickets(entries []Entry) map[int64]int {
	out := make(map[int64]int, len(entries))
	for _, e := range entries {
		if e.PlayerID <= 0 {
			continue
		}
		out[e.PlayerID] += e.Wickets
	}
	return out
}
