// Package cache provides the response cache used by the HTTP layer.
//
// A Backend stores raw bytes with a per-entry TTL. Two implementations are
// provided: RedisBackend, a shared remote cache, and LocalBackend, an
// in-process cache built on sturdyc. Service wraps a Backend for callers that
// cache structured values: it serializes them to JSON and absorbs every
// backend failure so caching never fails a request.
//
// A Policy pairs a TTL with a KeyFunc. The HTTP middleware applies a Policy
// per route, choosing SortedQueryKey or RawQueryKey as the key strategy.
package cache
