package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/stats"
	fixturemock "github.com/riskibarqy/cricket-fantasy/internal/mocks/domain/fixture"
	usecasemock "github.com/riskibarqy/cricket-fantasy/internal/mocks/usecase"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func newTestFixtureService(t *testing.T, now time.Time) (*FixtureService, *fixturemock.CacheRepository, *usecasemock.FixtureProvider) {
	t.Helper()

	cacheRepo := fixturemock.NewCacheRepository(t)
	provider := usecasemock.NewFixtureProvider(t)
	svc := NewFixtureService(cacheRepo, provider, FixtureServiceConfig{
		DaysBefore: 1,
		DaysAfter:  2,
		Policy:     FixedCachePolicy{TTL: 6 * time.Minute},
	}, nil, logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc, cacheRepo, provider
}

func TestFixtureService_GetFixtures_ServesFreshCache(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	svc, cacheRepo, _ := newTestFixtureService(t, now)

	snapshot := fixture.Snapshot{
		Fixtures:  []fixture.Fixture{{ID: 1, StartingAt: now.Add(2 * time.Hour)}},
		FetchedAt: now.Add(-5 * time.Minute),
	}
	cacheRepo.On("LatestSnapshot", mock.Anything).Return(snapshot, true, nil).Once()

	got, err := svc.GetFixtures(context.Background())
	if err != nil {
		t.Fatalf("get fixtures: %v", err)
	}
	if got.Source != FixtureSourceCache || len(got.Fixtures) != 1 {
		t.Fatalf("expected cached fixtures, got source=%s count=%d", got.Source, len(got.Fixtures))
	}
}

func TestFixtureService_GetFixtures_RefetchesExpiredCache(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	svc, cacheRepo, provider := newTestFixtureService(t, now)

	stale := fixture.Snapshot{
		Fixtures:  []fixture.Fixture{{ID: 1}},
		FetchedAt: now.Add(-7 * time.Minute),
	}
	cacheRepo.On("LatestSnapshot", mock.Anything).Return(stale, true, nil).Once()

	wantFrom := time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)
	provider.On("FetchFixtures", mock.Anything, wantFrom, wantTo).
		Return([]fixture.Fixture{{ID: 1}, {ID: 2}}, nil).
		Once()
	cacheRepo.On("SaveSnapshot", mock.Anything, mock.MatchedBy(func(s fixture.Snapshot) bool {
		return len(s.Fixtures) == 2 && s.FetchedAt.Equal(now)
	})).Return(nil).Once()

	got, err := svc.GetFixtures(context.Background())
	if err != nil {
		t.Fatalf("get fixtures: %v", err)
	}
	if got.Source != FixtureSourceProvider || len(got.Fixtures) != 2 {
		t.Fatalf("expected provider fixtures, got source=%s count=%d", got.Source, len(got.Fixtures))
	}
}

func TestFixtureService_GetFixtures_DegradesOnProviderFailure(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

	t.Run("stale cache", func(t *testing.T) {
		svc, cacheRepo, provider := newTestFixtureService(t, now)
		stale := fixture.Snapshot{Fixtures: []fixture.Fixture{{ID: 9}}, FetchedAt: now.Add(-time.Hour)}
		cacheRepo.On("LatestSnapshot", mock.Anything).Return(stale, true, nil).Once()
		provider.On("FetchFixtures", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("upstream 503")).
			Once()

		got, err := svc.GetFixtures(context.Background())
		if err != nil {
			t.Fatalf("expected degraded result, got %v", err)
		}
		if got.Source != FixtureSourceStale || len(got.Fixtures) != 1 || got.Fixtures[0].ID != 9 {
			t.Fatalf("expected stale fixtures, got %+v", got)
		}
	})

	t.Run("no cache", func(t *testing.T) {
		svc, cacheRepo, provider := newTestFixtureService(t, now)
		cacheRepo.On("LatestSnapshot", mock.Anything).Return(fixture.Snapshot{}, false, nil).Once()
		provider.On("FetchFixtures", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("upstream 503")).
			Once()

		got, err := svc.GetFixtures(context.Background())
		if err != nil {
			t.Fatalf("expected degraded result, got %v", err)
		}
		if got.Source != FixtureSourceEmpty || got.Fixtures == nil || len(got.Fixtures) != 0 {
			t.Fatalf("expected empty fixtures, got %+v", got)
		}
	})
}

func TestFixtureService_Refresh_PropagatesProviderError(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	svc, _, provider := newTestFixtureService(t, now)
	provider.On("FetchFixtures", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom")).
		Once()

	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
}

func TestFixtureService_ResolveStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	svc, cacheRepo, provider := newTestFixtureService(t, now)
	listed := time.Date(2024, 4, 20, 14, 0, 0, 0, time.UTC)
	started := time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC)
	cacheRepo.On("LatestSnapshot", mock.Anything).Return(fixture.Snapshot{
		Fixtures:  []fixture.Fixture{{ID: 77, StartingAt: listed}},
		FetchedAt: now,
	}, true, nil)
	provider.On("FetchFixture", mock.Anything, int64(99)).Return(fixture.Fixture{ID: 99, StartingAt: started}, nil).Once()
	provider.On("FetchFixture", mock.Anything, int64(98)).Return(fixture.Fixture{}, fmt.Errorf("fetch fixture=98: %w", fixture.ErrNotFound)).Once()
	provider.On("FetchFixture", mock.Anything, int64(97)).Return(fixture.Fixture{}, errors.New("connection refused")).Once()
	provider.On("FetchFixture", mock.Anything, int64(96)).Return(fixture.Fixture{ID: 96}, nil).Once()

	got, err := svc.ResolveStart(context.Background(), 77)
	if err != nil || !got.Equal(listed) {
		t.Fatalf("unexpected listed start: %s err=%v", got, err)
	}

	for i := 0; i < 2; i++ {
		got, err = svc.ResolveStart(context.Background(), 99)
		if err != nil || !got.Equal(started) {
			t.Fatalf("unexpected provider start: %s err=%v", got, err)
		}
	}

	if _, err := svc.ResolveStart(context.Background(), 98); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown fixture, got %v", err)
	}
	if _, err := svc.ResolveStart(context.Background(), 97); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable on provider failure, got %v", err)
	}
	if _, err := svc.ResolveStart(context.Background(), 96); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for fixture without start, got %v", err)
	}
}

func TestFixtureService_GetFixtureStats_IsolatesSideFailure(t *testing.T) {
	t.Parallel()

	svc, _, provider := newTestFixtureService(t, time.Now())
	provider.On("FetchBatting", mock.Anything, int64(5)).
		Return([]stats.Entry{{PlayerID: 11, Runs: 30}, {PlayerID: 11, Runs: 25}, {PlayerID: 0, Runs: 99}}, nil).
		Once()
	provider.On("FetchBowling", mock.Anything, int64(5)).
		Return(nil, errors.New("timeout")).
		Once()

	got := svc.GetFixtureStats(context.Background(), 5)
	if got.RunsFor(11) != 55 {
		t.Fatalf("expected summed runs 55, got %d", got.RunsFor(11))
	}
	if len(got.Runs) != 1 {
		t.Fatalf("expected invalid player id dropped, got %+v", got.Runs)
	}
	if !got.BowlingFailed || got.BattingFailed || !got.Failed() {
		t.Fatalf("unexpected failure flags: %+v", got)
	}
	if got.Wickets == nil || len(got.Wickets) != 0 {
		t.Fatalf("expected empty wickets map, got %+v", got.Wickets)
	}
}
