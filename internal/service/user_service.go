package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/events"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
	"github.com/phrazzld/notesy-api/internal/service/auth"
	"github.com/phrazzld/notesy-api/internal/store"
)

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// UserService registers and authenticates users.
type UserService interface {
	// Register creates a user and signs them in.
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)

	// Login checks credentials and issues a token.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userService struct {
	users    store.UserStore
	tokens   auth.JWTService
	verifier auth.PasswordVerifier
	sessions *events.SessionEmitter
	logger   *slog.Logger
}

// NewUserService creates a UserService. sessions may be nil.
func NewUserService(
	users store.UserStore,
	tokens auth.JWTService,
	verifier auth.PasswordVerifier,
	sessions *events.SessionEmitter,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}
	if tokens == nil {
		return nil, fmt.Errorf("jwt service cannot be nil")
	}
	if verifier == nil {
		verifier = auth.NewBcryptVerifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		sessions: sessions,
		logger:   logger.With("component", "user_service"),
	}, nil
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration rejected: duplicate user", "username", user.Username)
			return nil, err
		}
		log.Error("failed to create user", redact.Attr(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("registered user", "user_id", user.ID)
	return s.signIn(ctx, user)
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", redact.Attr(err))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return s.signIn(ctx, user)
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (s *userService) signIn(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(ctx, user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if s.sessions != nil {
		event := events.NewLoginEvent(domain.AuthenticatedSession(user.ID, user.Username), token)
		if err := s.sessions.Emit(ctx, event); err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Warn("session handler failed after login",
				"user_id", user.ID,
				redact.Attr(err))
		}
	}

	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
