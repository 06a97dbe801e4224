package flashcard

import "github.com/phrazzld/notesy-api/internal/domain"

// Synthesize renders one card per sentence, choosing the archetype by
// position. When there are no sentences the deck holds a single fallback
// card whose answer is the whole source text.
func Synthesize(sentences []string, source string) Deck {
	cards := make([]domain.Card, 0, len(sentences))
	for i, s := range sentences {
		cards = append(cards, ArchetypeFor(i).Render(s))
	}
	if len(cards) == 0 {
		cards = append(cards, domain.Card{Question: FallbackQuestion, Answer: source})
	}
	return Deck{cards: cards}
}

// Generate segments text and synthesizes a deck from it. Callers are
// expected to refuse empty text before calling.
func Generate(text string) Deck {
	return Synthesize(Segment(text), text)
}
