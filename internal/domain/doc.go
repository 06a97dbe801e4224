// Package domain contains the core business entities, value objects, and
// domain errors of the application: sessions and their tiers, users, study
// cards, persisted decks and todo items. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
