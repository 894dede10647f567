// Package sqlite provides a SQLite-backed query history store.
//
// The database uses WAL journal mode and a busy timeout for safe access
// from overlapping CLI invocations. Schema changes are applied through
// embedded, numbered migration files.
package sqlite
