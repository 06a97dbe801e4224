package flashcard

import "github.com/phrazzld/notesy-api/internal/domain"

// FallbackQuestion is asked when the source text has no sentences.
const FallbackQuestion = "What is the main content of this summary?"

// Deck is an ordered, non-empty sequence of cards. It is never modified in
// place; regeneration produces a new Deck.
type Deck struct {
	cards []domain.Card
}

// NewDeck wraps cards in a Deck, copying the slice.
func NewDeck(cards []domain.Card) Deck {
	c := make([]domain.Card, len(cards))
	copy(c, cards)
	return Deck{cards: c}
}

// Len returns the number of cards.
func (d Deck) Len() int {
	return len(d.cards)
}

// Card returns the card at index i.
func (d Deck) Card(i int) domain.Card {
	return d.cards[i]
}

// Cards returns a copy of the cards.
func (d Deck) Cards() []domain.Card {
	c := make([]domain.Card, len(d.cards))
	copy(c, d.cards)
	return c
}

// DemoDeck is the fixed deck shown to anonymous sessions.
func DemoDeck() Deck {
	return NewDeck([]domain.Card{
		{Question: "What is JSX?", Answer: "JSX is a syntax extension for JavaScript used with React."},
		{Question: "What is useState?", Answer: "A React hook that allows you to add state to functional components."},
		{Question: "What is a component in React?", Answer: "Components are reusable pieces of UI built as functions or classes."},
	})
}
