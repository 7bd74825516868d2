// Package testdb provides utilities for PostgreSQL integration tests.
// Tests that need a database call GetTestDBWithT, which skips the test when
// DATABASE_URL is unset, and isolate their writes with WithTx.
package testdb
