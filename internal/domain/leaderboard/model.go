package leaderboard

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type WindowKind string

const (
	KindLeague WindowKind = "league"
	KindWeekly WindowKind = "weekly"
	KindDaily  WindowKind = "daily"
)

// LeagueKey identifies the single all-time window.
const LeagueKey = "all-time"

const dateLayout = "2006-01-02"

// Window identifies one aggregation scope.
type Window struct {
	Kind WindowKind `json:"kind"`
	Key  string     `json:"key"`
}

func (w Window) String() string {
	return string(w.Kind) + ":" + w.Key
}

func LeagueWindow() Window {
	return Window{Kind: KindLeague, Key: LeagueKey}
}

// WeekStart returns Sunday 00:00 UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	u := t.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func WeeklyWindow(t time.Time) Window {
	return Window{Kind: KindWeekly, Key: WeekStart(t).Format(dateLayout)}
}

func DailyWindow(t time.Time) Window {
	return Window{Kind: KindDaily, Key: t.UTC().Format(dateLayout)}
}

// WindowsFor lists every window a fixture starting at start contributes to.
// An unknown start only reaches the league window.
func WindowsFor(start time.Time) []Window {
	if start.IsZero() {
		return []Window{LeagueWindow()}
	}
	return []Window{LeagueWindow(), WeeklyWindow(start), DailyWindow(start)}
}

func ParseKind(raw string) (WindowKind, error) {
	switch WindowKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindLeague:
		return KindLeague, nil
	case KindWeekly:
		return KindWeekly, nil
	case KindDaily:
		return KindDaily, nil
	default:
		return "", fmt.Errorf("unknown leaderboard window %q", raw)
	}
}

// ParseWindow validates a key for the given kind. Weekly keys must be a Sunday.
func ParseWindow(kind WindowKind, key string) (Window, error) {
	key = strings.TrimSpace(key)
	switch kind {
	case KindLeague:
		return LeagueWindow(), nil
	case KindWeekly, KindDaily:
		day, err := time.Parse(dateLayout, key)
		if err != nil {
			return Window{}, fmt.Errorf("invalid %s key %q: expected YYYY-MM-DD", kind, key)
		}
		if kind == KindWeekly && day.Weekday() != time.Sunday {
			return Window{}, fmt.Errorf("invalid weekly key %q: week starts on Sunday", key)
		}
		return Window{Kind: kind, Key: key}, nil
	default:
		return Window{}, fmt.Errorf("unknown leaderboard window %q", kind)
	}
}

// Row is one user's aggregate score in one window. Rank is only set on read.
type Row struct {
	Window    Window
	UserID    string
	UserName  string
	Score     int
	Rank      *int
	UpdatedAt time.Time
}

// AssignRanks orders rows by score desc then user id asc and sets competition
// ranks, so tied scores share a rank and the next rank is skipped.
func AssignRanks(rows []Row) []Row {
	out := append([]Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})

	for i := range out {
		rank := i + 1
		if i > 0 && out[i].Score == out[i-1].Score {
			rank = *out[i-1].Rank
		}
		r := rank
		out[i].Rank = &r
	}
	return out
}
