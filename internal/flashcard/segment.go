package flashcard

import (
	"regexp"
	"strings"
)

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

// Segment splits text on maximal runs of '.', '!' and '?', trims each piece
// and drops empty ones. Order is preserved. Abbreviations and decimals are
// split like any other terminator.
func Segment(text string) []string {
	parts := sentenceTerminators.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
