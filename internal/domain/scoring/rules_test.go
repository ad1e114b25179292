package scoring

import (
	"testing"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/stats"
)

func TestRunPoints_TiersAreExclusive(t *testing.T) {
	rules := DefaultRules()
	cases := map[int]int{
		0:   0,
		49:  0,
		50:  50,
		99:  50,
		100: 150,
		180: 150,
	}
	for runs, want := range cases {
		if got := rules.RunPoints(runs); got != want {
			t.Fatalf("RunPoints(%d) = %d, want %d", runs, got, want)
		}
	}
}

func TestPlayerPoints_CombinesRunsAndWickets(t *testing.T) {
	rules := DefaultRules()
	if got := rules.PlayerPoints(55, 2); got != 110 {
		t.Fatalf("expected 110, got %d", got)
	}
	if got := rules.PlayerPoints(10, -1); got != 0 {
		t.Fatalf("negative wickets must not subtract, got %d", got)
	}
}

func TestScoreSelection_ExampleFixture(t *testing.T) {
	rules := DefaultRules()
	sel := selection.Selection{
		FixtureID: 900,
		TeamAIDs:  []int64{1, 2, 3, 4},
		TeamBIDs:  []int64{5, 6, 7, 8},
	}
	fs := stats.Empty(900)
	fs.Runs[1] = 55
	fs.Runs[2] = 12
	fs.Wickets[6] = 2

	total, lines := rules.ScoreSelection(sel, fs)
	if total != 110 {
		t.Fatalf("expected 110, got %d", total)
	}
	if len(lines) != 8 {
		t.Fatalf("expected 8 breakdown lines, got %d", len(lines))
	}
	if lines[0].Runs != 55 || lines[0].Points != 50 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[5].Wickets != 2 || lines[5].Points != 60 {
		t.Fatalf("unexpected bowler line: %+v", lines[5])
	}
}

func TestScoreSelection_NoQualifyingStatsScoresZero(t *testing.T) {
	rules := DefaultRules()
	sel := selection.Selection{
		FixtureID: 1,
		TeamAIDs:  []int64{1, 2, 3, 4},
		TeamBIDs:  []int64{5, 6, 7, 8},
	}
	fs := stats.Empty(1)
	for pid := int64(1); pid <= 8; pid++ {
		fs.Runs[pid] = 49
	}

	if total, _ := rules.ScoreSelection(sel, fs); total != 0 {
		t.Fatalf("expected 0, got %d", total)
	}
}
