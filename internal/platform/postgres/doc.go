// Package postgres implements the store interfaces on PostgreSQL through the
// pgx stdlib driver. The schema lives in embedded goose migrations.
package postgres
