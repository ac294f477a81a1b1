package resilience

import "golang.org/x/sync/singleflight"

// Group deduplicates concurrent calls for the same key and hands every caller
// the one result.
type Group[T any] struct {
	group singleflight.Group
}

func (g *Group[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	out, err, shared := g.group.Do(key, func() (any, error) {
		return fn()
	})
	value, _ := out.(T)
	return value, err, shared
}
