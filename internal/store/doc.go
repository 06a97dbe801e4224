// Package store declares the persistence contracts for users, todo lists and
// flashcard decks. Implementations live in internal/platform/postgres; the
// service layer only sees these interfaces and the sentinel errors below.
package store
