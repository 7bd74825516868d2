package cache

import (
	"net/url"
	"time"
)

// Policy describes how a route is cached.
type Policy struct {
	TTL time.Duration
	Key KeyFunc
}

// NewPolicy returns a Policy. A nil key function selects SortedQueryKey.
func NewPolicy(ttl time.Duration, key KeyFunc) Policy {
	if key == nil {
		key = SortedQueryKey
	}
	return Policy{TTL: ttl, Key: key}
}

// KeyFor derives the cache key for u.
func (p Policy) KeyFor(u *url.URL) string {
	if p.Key == nil {
		return SortedQueryKey(u)
	}
	return p.Key(u)
}
