package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/squad"
	squadmock "github.com/riskibarqy/cricket-fantasy/internal/mocks/domain/squad"
	usecasemock "github.com/riskibarqy/cricket-fantasy/internal/mocks/usecase"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestSquadService_GetSquad(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	key := squad.Key{TeamID: 10, SeasonID: 2024}

	t.Run("fresh cache", func(t *testing.T) {
		cacheRepo := squadmock.NewCacheRepository(t)
		provider := usecasemock.NewSquadProvider(t)
		svc := NewSquadService(cacheRepo, provider, SquadServiceConfig{TTL: 24 * time.Hour}, logging.NewNop())
		svc.now = func() time.Time { return now }

		cached := squad.Squad{TeamID: 10, SeasonID: 2024, Players: []squad.Player{{ID: 1}}, FetchedAt: now.Add(-23 * time.Hour)}
		cacheRepo.On("Get", mock.Anything, key).Return(cached, true, nil).Once()

		got, err := svc.GetSquad(context.Background(), 10, 2024)
		if err != nil || len(got.Players) != 1 {
			t.Fatalf("unexpected squad: %+v err=%v", got, err)
		}
	})

	t.Run("expired cache refetches", func(t *testing.T) {
		cacheRepo := squadmock.NewCacheRepository(t)
		provider := usecasemock.NewSquadProvider(t)
		svc := NewSquadService(cacheRepo, provider, SquadServiceConfig{TTL: 24 * time.Hour}, logging.NewNop())
		svc.now = func() time.Time { return now }

		cached := squad.Squad{TeamID: 10, SeasonID: 2024, FetchedAt: now.Add(-25 * time.Hour)}
		cacheRepo.On("Get", mock.Anything, key).Return(cached, true, nil).Once()
		provider.On("FetchSquad", mock.Anything, int64(10), int64(2024)).
			Return(squad.Squad{TeamName: "Mumbai", Players: []squad.Player{{ID: 1}, {ID: 2}}}, nil).
			Once()
		cacheRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(s squad.Squad) bool {
			return s.TeamID == 10 && s.SeasonID == 2024 && s.FetchedAt.Equal(now)
		})).Return(nil).Once()

		got, err := svc.GetSquad(context.Background(), 10, 2024)
		if err != nil || len(got.Players) != 2 {
			t.Fatalf("unexpected squad: %+v err=%v", got, err)
		}
	})

	t.Run("provider failure degrades to empty", func(t *testing.T) {
		cacheRepo := squadmock.NewCacheRepository(t)
		provider := usecasemock.NewSquadProvider(t)
		svc := NewSquadService(cacheRepo, provider, SquadServiceConfig{}, logging.NewNop())
		svc.now = func() time.Time { return now }

		cacheRepo.On("Get", mock.Anything, key).Return(squad.Squad{}, false, nil).Once()
		provider.On("FetchSquad", mock.Anything, int64(10), int64(2024)).Return(squad.Squad{}, errors.New("timeout")).Once()

		got, err := svc.GetSquad(context.Background(), 10, 2024)
		if err != nil {
			t.Fatalf("expected degraded squad, got %v", err)
		}
		if got.Players == nil || len(got.Players) != 0 {
			t.Fatalf("expected empty players, got %+v", got.Players)
		}
	})

	t.Run("invalid ids", func(t *testing.T) {
		svc := NewSquadService(squadmock.NewCacheRepository(t), usecasemock.NewSquadProvider(t), SquadServiceConfig{}, logging.NewNop())
		if _, err := svc.GetSquad(context.Background(), 0, 2024); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSquadService_RefreshAll_CountsFailures(t *testing.T) {
	t.Parallel()

	cacheRepo := squadmock.NewCacheRepository(t)
	provider := usecasemock.NewSquadProvider(t)
	svc := NewSquadService(cacheRepo, provider, SquadServiceConfig{RefreshWorkers: 2}, logging.NewNop())

	cacheRepo.On("ListKeys", mock.Anything).Return([]squad.Key{
		{TeamID: 1, SeasonID: 2024},
		{TeamID: 2, SeasonID: 2024},
		{TeamID: 3, SeasonID: 2024},
	}, nil).Once()
	provider.On("FetchSquad", mock.Anything, int64(1), int64(2024)).Return(squad.Squad{}, nil).Once()
	provider.On("FetchSquad", mock.Anything, int64(2), int64(2024)).Return(squad.Squad{}, errors.New("boom")).Once()
	provider.On("FetchSquad", mock.Anything, int64(3), int64(2024)).Return(squad.Squad{}, nil).Once()
	cacheRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil).Twice()

	result, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("refresh squads: %v", err)
	}
	if result.Refreshed != 2 || result.Failed != 1 {
		t.Fatalf("unexpected refresh result: %+v", result)
	}
}
