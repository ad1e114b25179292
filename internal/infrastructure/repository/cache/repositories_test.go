package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/userprofile"
	leaderboardmock "github.com/riskibarqy/cricket-fantasy/internal/mocks/domain/leaderboard"
	userprofilemock "github.com/riskibarqy/cricket-fantasy/internal/mocks/domain/userprofile"
	basecache "github.com/riskibarqy/cricket-fantasy/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestUserProfileRepository_LoadsOnlyMisses(t *testing.T) {
	ctx := context.Background()
	next := userprofilemock.NewRepository(t)
	repo := NewUserProfileRepository(next, basecache.NewStore(time.Minute))

	next.On("ListByIDs", mock.Anything, []string{"u1", "u2"}).
		Return(map[string]userprofile.Profile{"u1": {UserID: "u1", Email: "u1@example.com"}}, nil).
		Once()
	next.On("ListByIDs", mock.Anything, []string{"u3"}).
		Return(map[string]userprofile.Profile{}, nil).
		Once()

	got, err := repo.ListByIDs(ctx, []string{"u2", "u1"})
	if err != nil || len(got) != 1 || got["u1"].Email != "u1@example.com" {
		t.Fatalf("unexpected profiles: %+v err=%v", got, err)
	}

	got, err = repo.ListByIDs(ctx, []string{"u1", "u2", "u3"})
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected cached profiles: %+v err=%v", got, err)
	}
}

func TestLeaderboardRepository_UpsertInvalidatesWindow(t *testing.T) {
	ctx := context.Background()
	next := leaderboardmock.NewRepository(t)
	repo := NewLeaderboardRepository(next, basecache.NewStore(time.Minute))
	window := leaderboard.LeagueWindow()

	next.On("ListWindow", mock.Anything, window).Return([]leaderboard.Row{{UserID: "u1", Score: 10}}, nil).Once()
	next.On("UpsertWindow", mock.Anything, window, mock.Anything).Return(nil).Once()
	next.On("ListWindow", mock.Anything, window).Return([]leaderboard.Row{{UserID: "u1", Score: 40}}, nil).Once()

	first, _ := repo.ListWindow(ctx, window)
	cached, _ := repo.ListWindow(ctx, window)
	if first[0].Score != 10 || cached[0].Score != 10 {
		t.Fatalf("expected cached read, got %+v %+v", first, cached)
	}

	if err := repo.UpsertWindow(ctx, window, []leaderboard.Row{{UserID: "u1", Score: 40}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	after, _ := repo.ListWindow(ctx, window)
	if after[0].Score != 40 {
		t.Fatalf("expected fresh read after upsert, got %+v", after)
	}
}

func TestLeaderboardRepository_ReadRacingUpsertIsNotCached(t *testing.T) {
	ctx := context.Background()
	next := leaderboardmock.NewRepository(t)
	repo := NewLeaderboardRepository(next, basecache.NewStore(time.Minute))
	window := leaderboard.LeagueWindow()

	loading := make(chan struct{})
	release := make(chan struct{})
	next.On("ListWindow", mock.Anything, window).
		Run(func(mock.Arguments) {
			close(loading)
			<-release
		}).
		Return([]leaderboard.Row{{UserID: "u1", Score: 10}}, nil).
		Once()
	next.On("UpsertWindow", mock.Anything, window, mock.Anything).Return(nil).Once()
	next.On("ListWindow", mock.Anything, window).Return([]leaderboard.Row{{UserID: "u1", Score: 40}}, nil).Once()

	stale := make(chan []leaderboard.Row, 1)
	go func() {
		rows, _ := repo.ListWindow(ctx, window)
		stale <- rows
	}()

	<-loading
	if err := repo.UpsertWindow(ctx, window, []leaderboard.Row{{UserID: "u1", Score: 40}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	close(release)

	if rows := <-stale; rows[0].Score != 10 {
		t.Fatalf("expected in-flight read to see pre-upsert rows, got %+v", rows)
	}
	after, _ := repo.ListWindow(ctx, window)
	if after[0].Score != 40 {
		t.Fatalf("expected stale load to be discarded, got %+v", after)
	}
}
