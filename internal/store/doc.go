// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the task query logic, so the service and caching layers treat the store
// as a black box with known query semantics.
package store
