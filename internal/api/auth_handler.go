package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/notesy-api/internal/api/shared"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/service"
)

// AuthHandler serves registration, login and token verification.
type AuthHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users service.UserService, logger *slog.Logger) *AuthHandler {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user service cannot be nil for AuthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user registered",
		slog.String("user_id", res.User.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, authToResponse(res))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, authToResponse(res))
}

// Verify handles GET /api/auth/verify. It runs behind Authenticate.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	session := shared.SessionFromContext(r.Context())
	if !session.IsAuthenticated() {
		HandleAPIError(w, r, service.ErrAuthRequired)
		return
	}

	user, err := h.users.GetUser(r.Context(), session.Identity)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, VerifyResponse{Valid: true, User: userToResponse(user)})
}
