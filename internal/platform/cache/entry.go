package cache

import "time"

// Entry is a cached payload with the time it was fetched and how long it stays fresh.
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
	Freshness time.Duration
}

func NewEntry[T any](value T, fetchedAt time.Time, freshness time.Duration) Entry[T] {
	return Entry[T]{Value: value, FetchedAt: fetchedAt, Freshness: freshness}
}

func (e Entry[T]) Age(now time.Time) time.Duration {
	if e.FetchedAt.IsZero() {
		return 0
	}
	return now.Sub(e.FetchedAt)
}

// Fresh reports whether the entry is younger than its freshness window.
// A zero FetchedAt is never fresh.
func (e Entry[T]) Fresh(now time.Time) bool {
	if e.FetchedAt.IsZero() || e.Freshness <= 0 {
		return false
	}
	return e.Age(now) < e.Freshness
}

func (e Entry[T]) ExpiresAt() time.Time {
	return e.FetchedAt.Add(e.Freshness)
}
