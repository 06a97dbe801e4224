package ingest

import "github.com/phrazzld/notesy-api/internal/domain"

// Reference word ceilings per tier and the upload size ceiling.
const (
	AnonymousWordLimit     = 500
	AuthenticatedWordLimit = 1000
	MaxUploadBytes         = 2 * 1024 * 1024
)

// LimitFor returns the reference word ceiling for a tier.
func LimitFor(tier domain.Tier) int {
	if tier == domain.Authenticated {
		return AuthenticatedWordLimit
	}
	return AnonymousWordLimit
}

// Policy is the active quota. It is derived from the session tier and must be
// re-derived whenever the tier changes.
type Policy struct {
	WordLimit int
}

// PolicyFor returns the reference policy for a session.
func PolicyFor(session domain.Session) Policy {
	return Policy{WordLimit: LimitFor(effectiveTier(session))}
}

// Limits maps tiers to word ceilings. The zero value uses the reference
// ceilings; servers may override them from configuration.
type Limits struct {
	Anonymous     int
	Authenticated int
}

// DefaultLimits returns the reference ceilings.
func DefaultLimits() Limits {
	return Limits{Anonymous: AnonymousWordLimit, Authenticated: AuthenticatedWordLimit}
}

// PolicyFor returns the policy for a session using the configured ceilings.
func (l Limits) PolicyFor(session domain.Session) Policy {
	if effectiveTier(session) == domain.Authenticated {
		if l.Authenticated > 0 {
			return Policy{WordLimit: l.Authenticated}
		}
		return Policy{WordLimit: AuthenticatedWordLimit}
	}
	if l.Anonymous > 0 {
		return Policy{WordLimit: l.Anonymous}
	}
	return Policy{WordLimit: AnonymousWordLimit}
}

// Allows reports whether the text fits within the policy.
func (p Policy) Allows(text NormalizedText) bool {
	return text.WordCount <= p.WordLimit
}

// Check returns a QuotaExceededError when the text is over the limit.
func (p Policy) Check(text NormalizedText) error {
	if p.Allows(text) {
		return nil
	}
	return &QuotaExceededError{WordCount: text.WordCount, WordLimit: p.WordLimit}
}

func effectiveTier(session domain.Session) domain.Tier {
	if session.IsAuthenticated() {
		return domain.Authenticated
	}
	return domain.Anonymous
}
