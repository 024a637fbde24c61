package driven

import "time"

// Cache memoises results with a short TTL. Advisory only: the engine
// must behave identically with caching disabled (a nil Cache).
type Cache interface {
	// Get returns the cached value for key, or false if absent/expired.
	Get(key string) (any, bool)

	// Set stores value under key for the given TTL.
	Set(key string, value any, ttl time.Duration)

	// Invalidate drops every cached entry. Called after mutations so
	// stale results never outlive a document change by more than a TTL.
	Invalidate()
}
