package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
)

func TestStatusCachePolicy_Freshness(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	policy := StatusCachePolicy{}

	cases := []struct {
		name string
		fx   fixture.Fixture
		want time.Duration
	}{
		{"finished", fixture.Fixture{Status: fixture.StatusFinished}, 24 * time.Hour},
		{"abandoned", fixture.Fixture{Status: "Aban."}, 24 * time.Hour},
		{"live innings", fixture.Fixture{Status: "2nd Innings"}, 2 * time.Minute},
		{"innings break", fixture.Fixture{Status: "Innings Break"}, 30 * time.Minute},
		{"stumps", fixture.Fixture{Status: "Stump Day 1"}, 5 * time.Hour},
		{"delayed", fixture.Fixture{Status: "Delayed"}, 15 * time.Minute},
		{"not started soon", fixture.Fixture{Status: "NS", StartingAt: now.Add(20 * time.Minute)}, 15 * time.Minute},
		{"not started later", fixture.Fixture{Status: "NS", StartingAt: now.Add(5 * time.Hour)}, 60 * time.Minute},
		{"not started long overdue", fixture.Fixture{Status: "NS", StartingAt: now.Add(-2 * time.Hour)}, 24 * time.Hour},
		{"empty status", fixture.Fixture{}, 60 * time.Minute},
	}

	for _, tc := range cases {
		got := policy.Freshness(fixture.Snapshot{Fixtures: []fixture.Fixture{tc.fx}}, now)
		if got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestStatusCachePolicy_SnapshotUsesMostVolatileFixture(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	snapshot := fixture.Snapshot{Fixtures: []fixture.Fixture{
		{Status: fixture.StatusFinished},
		{Status: "1st Innings"},
	}}

	if got := (StatusCachePolicy{}).Freshness(snapshot, now); got != 2*time.Minute {
		t.Fatalf("expected 2m, got %s", got)
	}
	if got := (StatusCachePolicy{Default: 10 * time.Minute}).Freshness(fixture.Snapshot{}, now); got != 10*time.Minute {
		t.Fatalf("expected default for empty snapshot, got %s", got)
	}
	if got := (FixedCachePolicy{TTL: 6 * time.Minute}).Freshness(snapshot, now); got != 6*time.Minute {
		t.Fatalf("expected fixed ttl, got %s", got)
	}
}
