// Package events provides in-process publication of domain events.
//
// Services emit events without knowing which handlers will process them.
// The task service emits a TaskChanged event after every successful write,
// and the cache invalidator subscribes to it.
//
// The primary components are:
// - Event: a typed, timestamped envelope around a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
