package flashcard

import (
	"fmt"
	"strings"

	"github.com/phrazzld/notesy-api/internal/domain"
)

// Archetype is the closed set of card shapes.
type Archetype int

const (
	Explain Archetype = iota
	Cloze
	Truth

	archetypeCount
)

const (
	explainPrefixRunes = 50
	clozeMinWords      = 6
	clozeBlank         = "______"
)

// ArchetypeFor returns the archetype for the sentence at position i.
func ArchetypeFor(i int) Archetype {
	return Archetype(i % int(archetypeCount))
}

func (a Archetype) String() string {
	switch a {
	case Explain:
		return "explain"
	case Cloze:
		return "cloze"
	case Truth:
		return "truth"
	default:
		return fmt.Sprintf("archetype(%d)", int(a))
	}
}

// Render builds the card for a sentence.
func (a Archetype) Render(sentence string) domain.Card {
	switch a {
	case Cloze:
		return renderCloze(sentence)
	case Truth:
		return renderTruth(sentence)
	default:
		return renderExplain(sentence)
	}
}

// renderExplain quotes the first 50 code points of the sentence. The
// ellipsis is appended even when nothing was cut.
func renderExplain(sentence string) domain.Card {
	prefix := sentence
	if r := []rune(sentence); len(r) > explainPrefixRunes {
		prefix = string(r[:explainPrefixRunes])
	}
	return domain.Card{
		Question: `Explain: "` + prefix + `"...`,
		Answer:   sentence,
	}
}

// renderCloze blanks the middle word of sentences longer than five words.
// Words are separated by single spaces, so repeated spaces produce empty
// words that still count.
func renderCloze(sentence string) domain.Card {
	words := strings.Split(sentence, " ")
	if len(words) < clozeMinWords {
		return domain.Card{
			Question: `What does this mean: "` + sentence + `"?`,
			Answer:   sentence,
		}
	}

	mid := len(words) / 2
	missing := words[mid]
	blanked := make([]string, len(words))
	copy(blanked, words)
	blanked[mid] = clozeBlank

	return domain.Card{
		Question: "Fill in the blank: " + strings.Join(blanked, " "),
		Answer:   fmt.Sprintf("Missing word: %s. Full sentence: %s", missing, sentence),
	}
}

func renderTruth(sentence string) domain.Card {
	return domain.Card{
		Question: "True or False: " + sentence,
		Answer:   "True. Explanation: " + sentence,
	}
}
