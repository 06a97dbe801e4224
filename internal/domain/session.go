package domain

import "github.com/google/uuid"

// Tier is the authentication tier of a session. It decides the word quota
// and whether gated features are available.
type Tier int

const (
	// Anonymous sessions have no identity.
	Anonymous Tier = iota
	// Authenticated sessions carry the identity of a registered user.
	Authenticated
)

// String returns the lower-case name of the tier.
func (t Tier) String() string {
	switch t {
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Session is the explicit authentication context passed to every gate.
// The zero value is an anonymous session.
type Session struct {
	Tier     Tier
	Identity uuid.UUID
	Username string
}

// AnonymousSession returns a session without identity.
func AnonymousSession() Session {
	return Session{Tier: Anonymous}
}

// AuthenticatedSession returns a session for the given user.
func AuthenticatedSession(userID uuid.UUID, username string) Session {
	return Session{Tier: Authenticated, Identity: userID, Username: username}
}

// IsAuthenticated reports whether the session belongs to a registered user.
func (s Session) IsAuthenticated() bool {
	return s.Tier == Authenticated && s.Identity != uuid.Nil
}

// CanUpload reports whether document upload is available to the session.
func (s Session) CanUpload() bool {
	return s.IsAuthenticated()
}

// CanGenerateFlashcards reports whether flashcard synthesis is available.
func (s Session) CanGenerateFlashcards() bool {
	return s.IsAuthenticated()
}
