package app

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatDBQueryForTrace(t *testing.T) {
	got := formatDBQueryForTrace(" SELECT   user_id, score\nFROM league_leaderboard \t WHERE user_id = $1 ")
	want := "SELECT user_id, score FROM league_leaderboard WHERE user_id = $1"
	if got != want {
		t.Fatalf("unexpected formatted query: %q", got)
	}

	if got := formatDBQueryForTrace(" \n\t "); got != "" {
		t.Fatalf("expected blank query to stay empty, got %q", got)
	}
}

func TestFormatDBQueryForTrace_TruncatesOnRuneBoundary(t *testing.T) {
	// "é" is two bytes; the prefix puts one straddling the byte limit.
	prefix := "SELECT '" + strings.Repeat("a", tracedQueryLimit-9)
	query := prefix + strings.Repeat("é", 10) + "'"

	got := formatDBQueryForTrace(query)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated query to end with ellipsis, got %q", got)
	}
	body := strings.TrimSuffix(got, "...")
	if !utf8.ValidString(body) {
		t.Fatalf("truncated query is not valid utf-8: %q", body)
	}
	if len(body) > tracedQueryLimit {
		t.Fatalf("expected at most %d bytes, got %d", tracedQueryLimit, len(body))
	}
	if want := prefix; body != want {
		t.Fatalf("expected cut before the split rune, got %d bytes", len(body))
	}
}

func TestFormatDBQueryForTrace_ShortQueryUntouched(t *testing.T) {
	query := "SELECT 'ünïcode'"
	if got := formatDBQueryForTrace(query); got != query {
		t.Fatalf("unexpected formatted query: %q", got)
	}
}
