// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// defined in internal/store.
//
// TaskService implements sorted and grouped task retrieval plus the task
// write operations. Writes publish a task-changed event through an
// events.EventEmitter so that caches can be invalidated.
//
// Errors keep the store and domain sentinels in their chain; Kind classifies
// them for the delivery layer.
package service
