package ingest

import "strings"

// NormalizedText is raw input paired with its whitespace word count.
type NormalizedText struct {
	Raw       string
	WordCount int
}

// Normalize trims the input and counts maximal runs of non-whitespace
// characters. Whitespace-only input yields a zero count.
func Normalize(text string) NormalizedText {
	trimmed := strings.TrimSpace(text)
	return NormalizedText{
		Raw:       trimmed,
		WordCount: len(strings.Fields(trimmed)),
	}
}

// IsEmpty reports whether there is nothing to process.
func (n NormalizedText) IsEmpty() bool {
	return n.WordCount == 0
}

// DraftState classifies the text currently held by a Draft.
type DraftState int

const (
	// DraftEmpty means there is nothing to process; actions are disabled.
	DraftEmpty DraftState = iota
	// DraftReady means the text may be promoted downstream.
	DraftReady
	// DraftOverQuota means the text is kept but cannot be promoted.
	DraftOverQuota
)

// String returns the state name used in API responses.
func (s DraftState) String() string {
	switch s {
	case DraftReady:
		return "ready"
	case DraftOverQuota:
		return "over_quota"
	default:
		return "empty"
	}
}

// StateOf classifies text against a policy.
func StateOf(text NormalizedText, policy Policy) DraftState {
	switch {
	case text.IsEmpty():
		return DraftEmpty
	case !policy.Allows(text):
		return DraftOverQuota
	default:
		return DraftReady
	}
}

// Draft is the editor-side holder of the latest input. Over-quota text is
// retained so the user can trim it; only Ready drafts are promoted.
type Draft struct {
	text   NormalizedText
	policy Policy
}

// NewDraft returns an empty draft under the given policy.
func NewDraft(policy Policy) *Draft {
	return &Draft{policy: policy}
}

// SetText replaces the held text.
func (d *Draft) SetText(raw string) {
	d.text = Normalize(raw)
}

// SetPolicy swaps the active policy, for example after login or logout.
// The held text is re-evaluated against the new limit.
func (d *Draft) SetPolicy(policy Policy) {
	d.policy = policy
}

// Text returns the held normalized text.
func (d *Draft) Text() NormalizedText {
	return d.text
}

// Policy returns the active policy.
func (d *Draft) Policy() Policy {
	return d.policy
}

// State classifies the held text.
func (d *Draft) State() DraftState {
	return StateOf(d.text, d.policy)
}

// Message returns the user-visible status for the held text, or "" when
// there is nothing to report.
func (d *Draft) Message() string {
	if d.State() == DraftOverQuota {
		return (&QuotaExceededError{WordCount: d.text.WordCount, WordLimit: d.policy.WordLimit}).Error()
	}
	return ""
}

// Promote returns the held text when it is Ready. Empty drafts return
// ErrEmptyInput and over-quota drafts a QuotaExceededError.
func (d *Draft) Promote() (NormalizedText, error) {
	switch d.State() {
	case DraftEmpty:
		return NormalizedText{}, ErrEmptyInput
	case DraftOverQuota:
		return NormalizedText{}, d.policy.Check(d.text)
	default:
		return d.text, nil
	}
}
