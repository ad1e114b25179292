package usecase

import (
	"sort"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/stats"
)

// UserBreakdown explains how one user's league score was built.
type UserBreakdown struct {
	UserName string               `json:"user_name"`
	Total    int                  `json:"total"`
	Lines    []scoring.PlayerLine `json:"lines"`
}

type aggregateInput struct {
	Selections       []selection.Selection
	Stats            map[int64]stats.FixtureStats
	StartTimes       map[int64]time.Time
	Rules            scoring.Rules
	IncludeZeroUsers bool
}

type aggregateOutput struct {
	// Scores holds per-window user totals; every window present gets written.
	Scores map[leaderboard.Window]map[string]int
	Debug  map[string]*UserBreakdown
	Users  []string
}

// aggregate scores every selection and folds the totals into league, weekly
// and daily windows. It does no I/O.
func aggregate(in aggregateInput) aggregateOutput {
	out := aggregateOutput{
		Scores: map[leaderboard.Window]map[string]int{
			leaderboard.LeagueWindow(): {},
		},
		Debug: make(map[string]*UserBreakdown),
	}

	for _, sel := range in.Selections {
		fs, ok := in.Stats[sel.FixtureID]
		if !ok {
			fs = stats.Empty(sel.FixtureID)
		}
		points, lines := in.Rules.ScoreSelection(sel, fs)

		debug, ok := out.Debug[sel.UserID]
		if !ok {
			debug = &UserBreakdown{Lines: []scoring.PlayerLine{}}
			out.Debug[sel.UserID] = debug
		}
		debug.Total += points
		debug.Lines = append(debug.Lines, lines...)

		start, ok := in.StartTimes[sel.FixtureID]
		if !ok {
			start = sel.StartTime()
		}
		for _, window := range leaderboard.WindowsFor(start) {
			users, ok := out.Scores[window]
			if !ok {
				users = make(map[string]int)
				out.Scores[window] = users
			}
			users[sel.UserID] += points
		}
	}

	out.Users = make([]string, 0, len(out.Debug))
	for userID := range out.Debug {
		out.Users = append(out.Users, userID)
	}
	sort.Strings(out.Users)

	if in.IncludeZeroUsers {
		for _, users := range out.Scores {
			for _, userID := range out.Users {
				if _, ok := users[userID]; !ok {
					users[userID] = 0
				}
			}
		}
	}

	return out
}

// rowsFor renders one window's totals as rows in user id order.
func rowsFor(window leaderboard.Window, users map[string]int, names map[string]string, now time.Time) []leaderboard.Row {
	rows := make([]leaderboard.Row, 0, len(users))
	for userID, score := range users {
		name := names[userID]
		if name == "" {
			name = userID
		}
		rows = append(rows, leaderboard.Row{
			Window:    window,
			UserID:    userID,
			UserName:  name,
			Score:     score,
			UpdatedAt: now,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows
}

func sortedWindows(scores map[leaderboard.Window]map[string]int) []leaderboard.Window {
	out := make([]leaderboard.Window, 0, len(scores))
	for window := range scores {
		out = append(out, window)
	}
	order := map[leaderboard.WindowKind]int{
		leaderboard.KindLeague: 0,
		leaderboard.KindWeekly: 1,
		leaderboard.KindDaily:  2,
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return order[out[i].Kind] < order[out[j].Kind]
		}
		return out[i].Key < out[j].Key
	})
	return out
}
