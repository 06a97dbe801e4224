package summarize

import (
	"context"
	"regexp"
	"strings"
)

const (
	maxSentenceWords     = 30
	minSentenceWords     = 3
	maxSegmentSentences  = 10
	avgWordsPerSentence  = 12
	maxSummarySentences  = 20
	emergencyPrefixRunes = 200
)

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// Extractive summarizes by keeping the leading sentences of the text. It
// needs no model and never fails on non-empty input.
type Extractive struct{}

var _ Summarizer = Extractive{}

// Summarize implements Summarizer.
func (Extractive) Summarize(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptyText
	}

	n := SummaryLength(text)
	summary := LeadSentences(text, n)
	model := ModelExtractive
	if strings.TrimSpace(summary) == "" {
		summary = EmergencySummary(text)
		model += ModelEmergencyFallback
	}

	return Result{
		Summary:       strings.TrimSpace(summary),
		ModelUsed:     model,
		SentencesUsed: n,
	}, nil
}

// LeadSentences returns the first n '.'-separated sentences joined with
// ". " and terminated by '.', or the text unchanged when it has n or fewer.
func LeadSentences(text string, n int) string {
	var sentences []string
	for _, s := range strings.Split(text, ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= n {
		return text
	}
	return strings.Join(sentences[:n], ". ") + "."
}

// EmergencySummary returns the first 200 characters of text followed by an
// ellipsis, or the whole text when it is shorter.
func EmergencySummary(text string) string {
	r := []rune(text)
	if len(r) <= emergencyPrefixRunes {
		return text
	}
	return string(r[:emergencyPrefixRunes]) + "..."
}

// SummaryLength picks how many sentences a summary of text should keep.
// Short documents keep one or two sentences; longer ones scale with the
// word count and are capped at twenty.
func SummaryLength(text string) int {
	wordCount := len(strings.Fields(text))

	switch sentenceCount := len(SplitSentences(text)); {
	case sentenceCount <= 3:
		return 1
	case sentenceCount <= 5:
		return 2
	}

	target := max(1, max(10, wordCount/4)/avgWordsPerSentence)
	switch {
	case wordCount >= 300:
		target = max(target, wordCount/50)
	case wordCount >= 100:
		target = max(target, wordCount/40)
	default:
		target = max(1, wordCount/20)
	}

	limit := min(maxSummarySentences, max(2, wordCount/30))
	return max(1, min(target, limit))
}

// SplitSentences splits text on runs of sentence terminators. Sentences of
// fewer than three words are dropped, sentences over thirty words are cut
// into thirty-word chunks, and at most ten sentences are returned.
func SplitSentences(text string) []string {
	var out []string
	for _, part := range sentenceBoundary.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		words := strings.Fields(part)
		switch {
		case len(words) > maxSentenceWords:
			for i := 0; i < len(words); i += maxSentenceWords {
				out = append(out, strings.Join(words[i:min(i+maxSentenceWords, len(words))], " "))
			}
		case len(words) >= minSentenceWords:
			out = append(out, part)
		}
	}
	if len(out) > maxSegmentSentences {
		out = out[:maxSegmentSentences]
	}
	return out
}
