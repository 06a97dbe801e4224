package flashcard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/notesy-api/internal/domain"
)

func TestArchetypeFor(t *testing.T) {
	t.Parallel()

	want := []Archetype{Explain, Cloze, Truth, Explain, Cloze, Truth, Explain}
	for i, a := range want {
		assert.Equal(t, a, ArchetypeFor(i), "position %d", i)
	}
	assert.Equal(t, "explain", Explain.String())
	assert.Equal(t, "cloze", Cloze.String())
	assert.Equal(t, "truth", Truth.String())
}

func TestGenerateExample(t *testing.T) {
	t.Parallel()

	deck := Generate("Cats are mammals. Dogs bark loudly at night. Fish swim in water.")
	require.Equal(t, 3, deck.Len())

	assert.Equal(t, domain.Card{
		Question: `Explain: "Cats are mammals"...`,
		Answer:   "Cats are mammals",
	}, deck.Card(0))

	// Five words is not enough for a blank.
	assert.Equal(t, domain.Card{
		Question: `What does this mean: "Dogs bark loudly at night"?`,
		Answer:   "Dogs bark loudly at night",
	}, deck.Card(1))

	assert.Equal(t, domain.Card{
		Question: "True or False: Fish swim in water",
		Answer:   "True. Explanation: Fish swim in water",
	}, deck.Card(2))
}

func TestClozeBoundary(t *testing.T) {
	t.Parallel()

	five := Cloze.Render("one two three four five")
	assert.Equal(t, `What does this mean: "one two three four five"?`, five.Question)
	assert.Equal(t, "one two three four five", five.Answer)

	six := Cloze.Render("one two three four five six")
	assert.Equal(t, "Fill in the blank: one two three ______ five six", six.Question)
	assert.Equal(t, "Missing word: four. Full sentence: one two three four five six", six.Answer)

	seven := Cloze.Render("a b c d e f g")
	assert.Equal(t, "Fill in the blank: a b c ______ e f g", seven.Question)
	assert.Equal(t, "Missing word: d. Full sentence: a b c d e f g", seven.Answer)
}

func TestClozeCountsEmptyWords(t *testing.T) {
	t.Parallel()

	// A double space yields an empty word which still counts towards the six.
	card := Cloze.Render("a b  c d e")
	assert.Equal(t, "Fill in the blank: a b  ______ d e", card.Question)
	assert.Equal(t, "Missing word: c. Full sentence: a b  c d e", card.Answer)
}

func TestExplainTruncation(t *testing.T) {
	t.Parallel()

	exact := strings.Repeat("x", 50)
	assert.Equal(t, `Explain: "`+exact+`"...`, Explain.Render(exact).Question)

	long := strings.Repeat("y", 49) + "zTAIL"
	card := Explain.Render(long)
	assert.Equal(t, `Explain: "`+strings.Repeat("y", 49)+`z"...`, card.Question)
	assert.Equal(t, long, card.Answer)

	// Truncation counts code points, never splitting a multi-byte rune.
	accented := strings.Repeat("é", 60)
	assert.Equal(t, `Explain: "`+strings.Repeat("é", 50)+`"...`, Explain.Render(accented).Question)
}

func TestExplainKeepsQuotes(t *testing.T) {
	t.Parallel()

	card := Explain.Render(`He said "hi"`)
	assert.Equal(t, `Explain: "He said "hi""...`, card.Question)
}

func TestSynthesizeFallback(t *testing.T) {
	t.Parallel()

	deck := Generate("   ...   ")
	require.Equal(t, 1, deck.Len())
	assert.Equal(t, FallbackQuestion, deck.Card(0).Question)
	assert.Equal(t, "   ...   ", deck.Card(0).Answer)

	deck = Synthesize(nil, "source")
	require.Equal(t, 1, deck.Len())
	assert.Equal(t, "source", deck.Card(0).Answer)
}

func TestSynthesizeLengthAndDeterminism(t *testing.T) {
	t.Parallel()

	text := "A. B! C? D. E... F"
	sentences := Segment(text)
	first := Synthesize(sentences, text)
	second := Synthesize(sentences, text)

	assert.Equal(t, len(sentences), first.Len())
	assert.Equal(t, first.Cards(), second.Cards())
}

func TestDeckIsImmutable(t *testing.T) {
	t.Parallel()

	cards := []domain.Card{{Question: "q", Answer: "a"}}
	deck := NewDeck(cards)
	cards[0].Question = "changed"
	assert.Equal(t, "q", deck.Card(0).Question)

	out := deck.Cards()
	out[0].Answer = "changed"
	assert.Equal(t, "a", deck.Card(0).Answer)
}

func TestDemoDeck(t *testing.T) {
	t.Parallel()

	deck := DemoDeck()
	require.Equal(t, 3, deck.Len())
	assert.Equal(t, "What is JSX?", deck.Card(0).Question)
	assert.Equal(t, "What is useState?", deck.Card(1).Question)
	assert.Equal(t, "What is a component in React?", deck.Card(2).Question)
}
