package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
)

type LeaderboardRepository struct {
	mu      sync.RWMutex
	windows map[leaderboard.Window]map[string]leaderboard.Row
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{windows: make(map[leaderboard.Window]map[string]leaderboard.Row)}
}

func (r *LeaderboardRepository) UpsertWindow(_ context.Context, window leaderboard.Window, rows []leaderboard.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.windows[window]
	if !ok {
		users = make(map[string]leaderboard.Row, len(rows))
		r.windows[window] = users
	}
	for _, row := range rows {
		if current, ok := users[row.UserID]; ok && current.UserName == row.UserName && current.Score == row.Score {
			continue
		}
		row.Window = window
		row.Rank = nil
		users[row.UserID] = row
	}
	return nil
}

func (r *LeaderboardRepository) ListWindow(_ context.Context, window leaderboard.Window) ([]leaderboard.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := r.windows[window]
	out := make([]leaderboard.Row, 0, len(users))
	for _, row := range users {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *LeaderboardRepository) ListWindowKeys(_ context.Context, kind leaderboard.WindowKind) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for window := range r.windows {
		if window.Kind == kind {
			out = append(out, window.Key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}
