package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

// LeaderboardJobPath is the internal route a queued run is delivered to.
const LeaderboardJobPath = "/v1/internal/jobs/leaderboard"

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type ScheduleResult struct {
	DispatchID  string    `json:"dispatch_id"`
	Path        string    `json:"path"`
	Delay       string    `json:"delay"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// LeaderboardJobScheduler queues delayed aggregation runs.
type LeaderboardJobScheduler struct {
	queue  JobQueue
	bucket time.Duration
	logger *logging.Logger
	now    func() time.Time
}

func NewLeaderboardJobScheduler(queue JobQueue, bucket time.Duration, logger *logging.Logger) *LeaderboardJobScheduler {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if bucket <= 0 {
		bucket = time.Minute
	}
	return &LeaderboardJobScheduler{
		queue:  queue,
		bucket: bucket,
		logger: logger,
		now:    time.Now,
	}
}

// Schedule enqueues a run after delay. Requests landing in the same bucket
// share a dispatch id so the queue drops duplicates.
func (s *LeaderboardJobScheduler) Schedule(ctx context.Context, delay time.Duration, reason string) (ScheduleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardJobScheduler.Schedule")
	defer span.End()

	if delay < 0 {
		return ScheduleResult{}, fmt.Errorf("%w: delay must not be negative", ErrInvalidInput)
	}

	now := s.now().UTC()
	at := now.Add(delay)
	dispatchID := dedupKey("leaderboard", reason, at, s.bucket)
	payload := map[string]any{
		"dispatch_id": dispatchID,
		"reason":      strings.TrimSpace(reason),
	}
	if err := s.queue.Enqueue(ctx, LeaderboardJobPath, payload, delay, dispatchID); err != nil {
		return ScheduleResult{}, fmt.Errorf("enqueue leaderboard job: %w", err)
	}

	s.logger.InfoContext(ctx, "leaderboard job scheduled", "dispatch_id", dispatchID, "delay", delay.String())
	return ScheduleResult{
		DispatchID:  dispatchID,
		Path:        LeaderboardJobPath,
		Delay:       delay.String(),
		ScheduledAt: at,
	}, nil
}

func dedupKey(prefix, scope string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	return sanitizeDedupSegment(prefix) + "-" + sanitizeDedupSegment(scope) + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
