package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/service/auth"
	"github.com/phrazzld/notesy-api/internal/store"
)

// MockDeckStore mocks store.DeckStore. WithTx returns the mock itself.
type MockDeckStore struct {
	mock.Mock
}

func (m *MockDeckStore) Replace(ctx context.Context, deck *domain.StoredDeck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckStore) Get(ctx context.Context, userID uuid.UUID) (*domain.StoredDeck, error) {
	args := m.Called(ctx, userID)
	deck, _ := args.Get(0).(*domain.StoredDeck)
	return deck, args.Error(1)
}

func (m *MockDeckStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.StoredDeck, error) {
	args := m.Called(ctx, userID)
	deck, _ := args.Get(0).(*domain.StoredDeck)
	return deck, args.Error(1)
}

func (m *MockDeckStore) UpdateCursor(ctx context.Context, userID uuid.UUID, index int, flipped bool) error {
	args := m.Called(ctx, userID, index, flipped)
	return args.Error(0)
}

func (m *MockDeckStore) WithTx(*sql.Tx) store.DeckStore {
	return m
}

// MockTodoStore mocks store.TodoStore.
type MockTodoStore struct {
	mock.Mock
}

func (m *MockTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *MockTodoStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Todo, error) {
	args := m.Called(ctx, userID)
	todos, _ := args.Get(0).([]domain.Todo)
	return todos, args.Error(1)
}

func (m *MockTodoStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockUserStore mocks store.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

// MockPasswordVerifier mocks auth.PasswordVerifier.
type MockPasswordVerifier struct {
	mock.Mock
}

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// fixedTokens is a JWTService that always issues the same token.
func fixedTokens(token string, expiresAt time.Time) *auth.MockJWTService {
	return &auth.MockJWTService{
		GenerateTokenFunc: func(context.Context, uuid.UUID, string) (string, time.Time, error) {
			return token, expiresAt, nil
		},
	}
}

// inlineTx runs fn without a real transaction.
func inlineTx(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}
