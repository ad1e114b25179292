package resilience

import "golang.org/x/sync/singleflight"

// Flight deduplicates concurrent calls for the same key and returns typed results.
type Flight[T any] struct {
	group singleflight.Group
}

// Do runs fn once per in-flight key. shared reports whether the result was
// handed to more than one caller.
func (f *Flight[T]) Do(key string, fn func() (T, error)) (T, bool, error) {
	out, err, shared := f.group.Do(key, func() (any, error) {
		return fn()
	})
	value, _ := out.(T)
	return value, shared, err
}

// Forget drops the in-flight entry so the next caller starts a fresh call.
func (f *Flight[T]) Forget(key string) {
	f.group.Forget(key)
}
