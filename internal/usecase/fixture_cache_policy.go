package usecase

import (
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
)

// CachePolicy decides how long a fixture snapshot stays fresh.
type CachePolicy interface {
	Freshness(snapshot fixture.Snapshot, now time.Time) time.Duration
}

// FixedCachePolicy keeps every snapshot fresh for the same duration.
type FixedCachePolicy struct {
	TTL time.Duration
}

func (p FixedCachePolicy) Freshness(_ fixture.Snapshot, _ time.Time) time.Duration {
	return p.TTL
}

// StatusCachePolicy derives freshness from match state. A snapshot is only as
// fresh as its most volatile fixture.
type StatusCachePolicy struct {
	Default time.Duration
}

const (
	statusCacheFinished    = 24 * time.Hour
	statusCacheLive        = 2 * time.Minute
	statusCacheNearStart   = 15 * time.Minute
	statusCacheBreak       = 30 * time.Minute
	statusCacheStumps      = 5 * time.Hour
	statusCacheDelayed     = 15 * time.Minute
	statusCacheDefault     = 60 * time.Minute
	nearStartWindow        = 30 * time.Minute
	notStartedOverrunLimit = 60 * time.Minute
)

func (p StatusCachePolicy) Freshness(snapshot fixture.Snapshot, now time.Time) time.Duration {
	fallback := p.Default
	if fallback <= 0 {
		fallback = statusCacheDefault
	}
	if len(snapshot.Fixtures) == 0 {
		return fallback
	}

	out := time.Duration(0)
	for _, f := range snapshot.Fixtures {
		d := fixtureFreshness(f, now, fallback)
		if out == 0 || d < out {
			out = d
		}
	}
	return out
}

func fixtureFreshness(f fixture.Fixture, now time.Time, fallback time.Duration) time.Duration {
	status := fixture.NormalizeStatus(f.Status)
	switch {
	case fixture.IsFinishedStatus(status):
		return statusCacheFinished
	case fixture.IsLiveInningsStatus(status) || f.Live:
		return statusCacheLive
	case fixture.IsBreakStatus(status):
		return statusCacheBreak
	case fixture.IsStumpsStatus(status):
		return statusCacheStumps
	case fixture.IsDelayedStatus(status):
		return statusCacheDelayed
	case status == fixture.StatusNotStarted && !f.StartingAt.IsZero():
		untilStart := f.StartingAt.Sub(now)
		if untilStart <= -notStartedOverrunLimit {
			return statusCacheFinished
		}
		if untilStart <= nearStartWindow {
			return statusCacheNearStart
		}
		return fallback
	default:
		return fallback
	}
}
