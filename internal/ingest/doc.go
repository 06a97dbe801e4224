// Package ingest validates raw study text before it reaches summarization or
// flashcard synthesis. It owns the tier-based word quota, whitespace word
// counting, the editor Draft state and the ordered gates applied to uploaded
// documents.
package ingest
