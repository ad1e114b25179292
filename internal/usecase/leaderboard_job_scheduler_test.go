package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	usecasemock "github.com/riskibarqy/cricket-fantasy/internal/mocks/usecase"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestLeaderboardJobScheduler_Schedule(t *testing.T) {
	t.Parallel()

	queue := usecasemock.NewJobQueue(t)
	scheduler := NewLeaderboardJobScheduler(queue, 5*time.Minute, logging.NewNop())
	scheduler.now = func() time.Time { return time.Date(2024, 4, 10, 12, 3, 0, 0, time.UTC) }

	queue.On("Enqueue", mock.Anything, LeaderboardJobPath, mock.Anything, 10*time.Minute, "leaderboard-post-match-20240410T121000Z").
		Return(nil).
		Once()

	got, err := scheduler.Schedule(context.Background(), 10*time.Minute, "post match")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got.DispatchID != "leaderboard-post-match-20240410T121000Z" {
		t.Fatalf("unexpected dispatch id: %s", got.DispatchID)
	}
}

func TestLeaderboardJobScheduler_Schedule_Errors(t *testing.T) {
	t.Parallel()

	queue := usecasemock.NewJobQueue(t)
	scheduler := NewLeaderboardJobScheduler(queue, time.Minute, logging.NewNop())

	if _, err := scheduler.Schedule(context.Background(), -time.Second, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative delay, got %v", err)
	}

	queue.On("Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(ErrDependencyUnavailable).
		Once()
	if _, err := scheduler.Schedule(context.Background(), 0, ""); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
