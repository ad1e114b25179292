package leaderboard

import (
	"testing"
	"time"
)

func TestWeekStart_SundayBoundaries(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC), "2024-04-07"},
		{time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), "2024-04-07"},
		{time.Date(2024, 4, 13, 23, 59, 59, 0, time.UTC), "2024-04-07"},
		{time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC), "2024-04-14"},
	}
	for _, tc := range cases {
		if got := WeeklyWindow(tc.in).Key; got != tc.want {
			t.Fatalf("WeeklyWindow(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestWeekStart_UsesUTC(t *testing.T) {
	// Sunday 02:00 in UTC+5:30 is still Saturday in UTC.
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2024, 4, 14, 2, 0, 0, 0, loc)
	if got := WeeklyWindow(in).Key; got != "2024-04-07" {
		t.Fatalf("unexpected week key: %s", got)
	}
	if got := DailyWindow(in).Key; got != "2024-04-13" {
		t.Fatalf("unexpected day key: %s", got)
	}
}

func TestWindowsFor(t *testing.T) {
	start := time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC)
	got := WindowsFor(start)
	want := []Window{
		LeagueWindow(),
		{Kind: KindWeekly, Key: "2024-04-07"},
		{Kind: KindDaily, Key: "2024-04-10"},
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected windows: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("window %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if only := WindowsFor(time.Time{}); len(only) != 1 || only[0] != LeagueWindow() {
		t.Fatalf("unknown start should map to league only: %+v", only)
	}
}

func TestParseWindow(t *testing.T) {
	if _, err := ParseWindow(KindWeekly, "2024-04-08"); err == nil {
		t.Fatalf("expected error for non-Sunday week key")
	}
	if _, err := ParseWindow(KindDaily, "10/04/2024"); err == nil {
		t.Fatalf("expected error for malformed day key")
	}
	w, err := ParseWindow(KindLeague, "ignored")
	if err != nil || w != LeagueWindow() {
		t.Fatalf("unexpected league window: %+v %v", w, err)
	}
	if _, err := ParseKind("monthly"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestAssignRanks_ScoreDescThenUserID(t *testing.T) {
	rows := AssignRanks([]Row{
		{UserID: "c", Score: 50},
		{UserID: "b", Score: 110},
		{UserID: "a", Score: 50},
		{UserID: "d", Score: 0},
	})

	wantOrder := []string{"b", "a", "c", "d"}
	wantRank := []int{1, 2, 2, 4}
	for i := range rows {
		if rows[i].UserID != wantOrder[i] || *rows[i].Rank != wantRank[i] {
			t.Fatalf("row %d = %s rank %d, want %s rank %d", i, rows[i].UserID, *rows[i].Rank, wantOrder[i], wantRank[i])
		}
	}
}
