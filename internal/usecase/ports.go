package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/squad"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/stats"
)

// FixtureProvider is the upstream sports-data feed.
type FixtureProvider interface {
	FetchFixtures(ctx context.Context, from, to time.Time) ([]fixture.Fixture, error)
	FetchFixture(ctx context.Context, fixtureID int64) (fixture.Fixture, error)
	FetchBatting(ctx context.Context, fixtureID int64) ([]stats.Entry, error)
	FetchBowling(ctx context.Context, fixtureID int64) ([]stats.Entry, error)
}

type SquadProvider interface {
	FetchSquad(ctx context.Context, teamID, seasonID int64) (squad.Squad, error)
}

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

// Metrics receives service-level observations. Implementations must be safe for concurrent use.
type Metrics interface {
	ObserveLeaderboardRun(result RunResult, elapsed time.Duration, err error)
	ObserveFixtureCache(outcome string)
	ObserveStatsFetch(fixtureID int64, failed bool)
	ObserveSelectionSubmission(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveLeaderboardRun(RunResult, time.Duration, error) {}
func (noopMetrics) ObserveFixtureCache(string)                            {}
func (noopMetrics) ObserveStatsFetch(int64, bool)                         {}
func (noopMetrics) ObserveSelectionSubmission(string)                     {}

func NewNoopMetrics() Metrics {
	return noopMetrics{}
}
