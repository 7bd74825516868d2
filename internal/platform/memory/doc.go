// Package memory provides in-process implementations of the store
// interfaces. They keep insertion order as store order, enforce the
// task-to-user reference and cascade user deletes, and are safe for
// concurrent use. They back the service and end-to-end tests and can run
// the server without PostgreSQL.
package memory
