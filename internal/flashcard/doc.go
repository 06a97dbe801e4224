// Package flashcard turns plain text into a deck of study cards and moves a
// cursor through it.
//
// Synthesis is deterministic and rule-based: the text is split into
// sentences and each sentence is rendered by one of three archetypes chosen
// by its position. The same input always yields the same deck.
package flashcard
