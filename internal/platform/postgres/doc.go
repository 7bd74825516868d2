// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. It also embeds the goose migrations that create
// the users and tasks tables.
//
// Store methods translate driver errors with MapError, so callers only see
// the sentinel errors defined in package store.
package postgres
