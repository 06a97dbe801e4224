//go:build integration

// Package testdb provides utilities for database integration tests: a shared
// connection to a migrated test database and per-test transactions that are
// always rolled back.
package testdb
