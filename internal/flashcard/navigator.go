package flashcard

import "github.com/phrazzld/notesy-api/internal/domain"

// Action is a navigation command.
type Action string

const (
	ActionFlip     Action = "flip"
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionFlip, ActionNext, ActionPrevious:
		return true
	}
	return false
}

// Navigator holds a deck and the cursor over it.
type Navigator struct {
	deck    Deck
	index   int
	flipped bool
}

// NewNavigator starts at the first card, unflipped.
func NewNavigator(deck Deck) *Navigator {
	return &Navigator{deck: deck}
}

// Restore rebuilds a navigator from persisted state. An out-of-range index
// is reset to 0.
func Restore(deck Deck, index int, flipped bool) *Navigator {
	if index < 0 || index >= deck.Len() {
		index = 0
	}
	return &Navigator{deck: deck, index: index, flipped: flipped}
}

// Replace swaps in a new deck and resets the cursor.
func (n *Navigator) Replace(deck Deck) {
	n.deck = deck
	n.index = 0
	n.flipped = false
}

// Flip toggles between question and answer.
func (n *Navigator) Flip() {
	n.flipped = !n.flipped
}

// Next advances cyclically and shows the question side.
func (n *Navigator) Next() {
	size := n.deck.Len()
	if size == 0 {
		return
	}
	n.index = (n.index + 1) % size
	n.flipped = false
}

// Previous steps back cyclically and shows the question side.
func (n *Navigator) Previous() {
	size := n.deck.Len()
	if size == 0 {
		return
	}
	n.index = (n.index - 1 + size) % size
	n.flipped = false
}

// Apply runs an action. Unknown actions are ignored.
func (n *Navigator) Apply(a Action) {
	switch a {
	case ActionFlip:
		n.Flip()
	case ActionNext:
		n.Next()
	case ActionPrevious:
		n.Previous()
	}
}

// Deck returns the current deck.
func (n *Navigator) Deck() Deck {
	return n.deck
}

// Index returns the cursor position.
func (n *Navigator) Index() int {
	return n.index
}

// Flipped reports whether the answer side is showing.
func (n *Navigator) Flipped() bool {
	return n.flipped
}

// Current returns the card under the cursor. ok is false for an empty deck.
func (n *Navigator) Current() (card domain.Card, ok bool) {
	if n.deck.Len() == 0 {
		return domain.Card{}, false
	}
	return n.deck.Card(n.index), true
}

// Showing returns the visible side of the current card.
func (n *Navigator) Showing() string {
	card, ok := n.Current()
	if !ok {
		return ""
	}
	if n.flipped {
		return card.Answer
	}
	return card.Question
}
