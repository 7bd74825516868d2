// Package middleware holds the HTTP middleware of the task API: request
// tracing and the two cache planes. CacheAside caches a route's structured
// result through the cache service; ResponseCache caches the raw response
// body in the cache backend.
package middleware
