// Package middleware contains the HTTP middleware of the API.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/notesy-api/internal/api/shared"
	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
	"github.com/phrazzld/notesy-api/internal/service/auth"
)

// AuthMiddleware turns bearer tokens into request sessions.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	if jwtService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("jwtService cannot be nil for AuthMiddleware")
	}
	return &AuthMiddleware{jwtService: jwtService}
}

// OptionalAuthenticate attaches an authenticated session when a valid token
// is presented and an anonymous one when no Authorization header is sent.
// A header that is present but invalid is rejected with 401 rather than
// silently downgraded.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

// Authenticate requires a valid token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			if required {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}
			ctx := shared.WithSession(r.Context(), domain.AnonymousSession())
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				logger.FromContext(r.Context()).Error("failed to validate token", redact.Attr(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		session := domain.AuthenticatedSession(claims.UserID, claims.Username)
		ctx := shared.WithSession(r.Context(), session)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With("user_id", claims.UserID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
