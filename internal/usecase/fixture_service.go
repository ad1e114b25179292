package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/stats"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/cache"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

// Where a fixture list was served from.
const (
	FixtureSourceCache    = "cache"
	FixtureSourceProvider = "provider"
	FixtureSourceStale    = "stale"
	FixtureSourceEmpty    = "empty"
)

const policyFallbackTTL = 6 * time.Minute

type FixtureServiceConfig struct {
	DaysBefore int
	DaysAfter  int
	Policy     CachePolicy
}

type FixturesResult struct {
	Fixtures  []fixture.Fixture `json:"fixtures"`
	FetchedAt time.Time         `json:"fetched_at"`
	Source    string            `json:"source"`
}

type FixtureService struct {
	cacheRepo  fixture.CacheRepository
	provider   FixtureProvider
	policy     CachePolicy
	daysBefore int
	daysAfter  int
	logger     *logging.Logger
	metrics    Metrics
	flight     resilience.Flight[fixture.Snapshot]
	starts     *cache.Store
	now        func() time.Time
}

func NewFixtureService(
	cacheRepo fixture.CacheRepository,
	provider FixtureProvider,
	cfg FixtureServiceConfig,
	metrics Metrics,
	logger *logging.Logger,
) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	policy := cfg.Policy
	if policy == nil {
		policy = FixedCachePolicy{TTL: policyFallbackTTL}
	}

	return &FixtureService{
		cacheRepo:  cacheRepo,
		provider:   provider,
		policy:     policy,
		daysBefore: cfg.DaysBefore,
		daysAfter:  cfg.DaysAfter,
		logger:     logger,
		metrics:    metrics,
		starts:     cache.NewStore(policyFallbackTTL),
		now:        time.Now,
	}
}

// GetFixtures serves the cached snapshot while it is fresh, otherwise fetches a
// new one. Upstream failures fall back to the stale snapshot or an empty list.
func (s *FixtureService) GetFixtures(ctx context.Context) (FixturesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetFixtures")
	defer span.End()

	now := s.now().UTC()
	cached, hasCached := s.latestSnapshot(ctx)
	if hasCached {
		entry := cache.NewEntry(cached, cached.FetchedAt, s.policy.Freshness(cached, now))
		if entry.Fresh(now) {
			s.metrics.ObserveFixtureCache(FixtureSourceCache)
			span.SetAttributes(attribute.String("fixtures.source", FixtureSourceCache))
			return FixturesResult{Fixtures: cached.Fixtures, FetchedAt: cached.FetchedAt, Source: FixtureSourceCache}, nil
		}
	}

	fresh, err := s.fetchAndStore(ctx, now)
	if err == nil {
		s.metrics.ObserveFixtureCache(FixtureSourceProvider)
		return FixturesResult{Fixtures: fresh.Fixtures, FetchedAt: fresh.FetchedAt, Source: FixtureSourceProvider}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return FixturesResult{}, ctxErr
	}

	if hasCached {
		s.logger.WarnContext(ctx, "serving stale fixtures after provider failure", "fetched_at", cached.FetchedAt, "error", err)
		s.metrics.ObserveFixtureCache(FixtureSourceStale)
		return FixturesResult{Fixtures: cached.Fixtures, FetchedAt: cached.FetchedAt, Source: FixtureSourceStale}, nil
	}

	s.logger.WarnContext(ctx, "no fixtures available after provider failure", "error", err)
	s.metrics.ObserveFixtureCache(FixtureSourceEmpty)
	return FixturesResult{Fixtures: []fixture.Fixture{}, Source: FixtureSourceEmpty}, nil
}

// Refresh forces a provider fetch regardless of cache age.
func (s *FixtureService) Refresh(ctx context.Context) (FixturesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Refresh")
	defer span.End()

	snapshot, err := s.fetchAndStore(ctx, s.now().UTC())
	if err != nil {
		return FixturesResult{}, err
	}
	return FixturesResult{Fixtures: snapshot.Fixtures, FetchedAt: snapshot.FetchedAt, Source: FixtureSourceProvider}, nil
}

// StartTimes indexes fixture start times from the latest cached snapshot
// without calling the provider.
func (s *FixtureService) StartTimes(ctx context.Context) map[int64]time.Time {
	snapshot, ok := s.latestSnapshot(ctx)
	if !ok {
		return map[int64]time.Time{}
	}
	return fixture.StartTimes(snapshot.Fixtures)
}

// ResolveStart finds a fixture's scheduled start from provider data: the
// current fixture list first, then a lookup by id for fixtures outside it.
func (s *FixtureService) ResolveStart(ctx context.Context, fixtureID int64) (time.Time, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ResolveStart")
	defer span.End()
	span.SetAttributes(attribute.Int64("fixture.id", fixtureID))

	result, err := s.GetFixtures(ctx)
	if err != nil {
		return time.Time{}, err
	}
	for _, f := range result.Fixtures {
		if f.ID == fixtureID && !f.StartingAt.IsZero() {
			return f.StartingAt.UTC(), nil
		}
	}

	key := strconv.FormatInt(fixtureID, 10)
	if cached, ok := s.starts.Get(ctx, key); ok {
		return cached.(time.Time), nil
	}

	found, err := s.provider.FetchFixture(ctx, fixtureID)
	switch {
	case errors.Is(err, fixture.ErrNotFound):
		return time.Time{}, fmt.Errorf("%w: fixture %d does not exist", ErrInvalidInput, fixtureID)
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return time.Time{}, ctxErr
		}
		s.logger.WarnContext(ctx, "resolve fixture start failed", "fixture_id", fixtureID, "error", err)
		return time.Time{}, fmt.Errorf("%w: start time of fixture %d is unavailable", ErrDependencyUnavailable, fixtureID)
	case found.StartingAt.IsZero():
		return time.Time{}, fmt.Errorf("%w: fixture %d has no scheduled start", ErrInvalidInput, fixtureID)
	}

	now := s.now().UTC()
	start := found.StartingAt.UTC()
	freshness := s.policy.Freshness(fixture.Snapshot{Fixtures: []fixture.Fixture{found}, FetchedAt: now}, now)
	if freshness > 0 {
		s.starts.SetWithTTL(ctx, key, start, freshness)
	}
	return start, nil
}

// GetFixtureStats fetches batting and bowling for one fixture. A failed call
// leaves its side empty and is flagged on the result instead of returned.
func (s *FixtureService) GetFixtureStats(ctx context.Context, fixtureID int64) stats.FixtureStats {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetFixtureStats")
	defer span.End()
	span.SetAttributes(attribute.Int64("fixture.id", fixtureID))

	out := stats.Empty(fixtureID)

	var (
		wg         sync.WaitGroup
		batting    []stats.Entry
		bowling    []stats.Entry
		battingErr error
		bowlingErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		batting, battingErr = s.provider.FetchBatting(ctx, fixtureID)
	}()
	go func() {
		defer wg.Done()
		bowling, bowlingErr = s.provider.FetchBowling(ctx, fixtureID)
	}()
	wg.Wait()

	if battingErr != nil {
		out.BattingFailed = true
		s.logger.WarnContext(ctx, "fetch batting stats failed", "fixture_id", fixtureID, "error", battingErr)
	} else {
		out.Runs = stats.SumRuns(batting)
	}
	if bowlingErr != nil {
		out.BowlingFailed = true
		s.logger.WarnContext(ctx, "fetch bowling stats failed", "fixture_id", fixtureID, "error", bowlingErr)
	} else {
		out.Wickets = stats.SumWickets(bowling)
	}

	s.metrics.ObserveStatsFetch(fixtureID, out.Failed())
	return out
}

func (s *FixtureService) latestSnapshot(ctx context.Context) (fixture.Snapshot, bool) {
	snapshot, ok, err := s.cacheRepo.LatestSnapshot(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "read fixture cache failed", "error", err)
		return fixture.Snapshot{}, false
	}
	return snapshot, ok
}

func (s *FixtureService) fetchAndStore(ctx context.Context, now time.Time) (fixture.Snapshot, error) {
	snapshot, _, err := s.flight.Do("fixtures", func() (fixture.Snapshot, error) {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		from := day.AddDate(0, 0, -s.daysBefore)
		to := day.AddDate(0, 0, s.daysAfter)

		fixtures, err := s.provider.FetchFixtures(ctx, from, to)
		if err != nil {
			return fixture.Snapshot{}, fmt.Errorf("fetch fixtures: %w", err)
		}
		if fixtures == nil {
			fixtures = []fixture.Fixture{}
		}

		snapshot := fixture.Snapshot{Fixtures: fixtures, FetchedAt: now}
		if err := s.cacheRepo.SaveSnapshot(ctx, snapshot); err != nil {
			return fixture.Snapshot{}, fmt.Errorf("save fixture snapshot: %w", err)
		}
		s.logger.InfoContext(ctx, "fixtures refreshed", "count", len(fixtures), "from", from.Format(time.DateOnly), "to", to.Format(time.DateOnly))
		return snapshot, nil
	})
	return snapshot, err
}
