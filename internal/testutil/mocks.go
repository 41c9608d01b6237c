package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository"
)

// MockStore is a mock for repository.Store. WithTx runs fn against the
// mock itself.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) InsertSourceWord(ctx context.Context, text string) (domain.SourceWord, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.SourceWord), args.Error(1)
}

func (m *MockStore) FindSourceWordByText(ctx context.Context, text string) (domain.SourceWord, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.SourceWord), args.Error(1)
}

func (m *MockStore) ListSourceWords(ctx context.Context) ([]domain.SourceWord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceWord), args.Error(1)
}

func (m *MockStore) InsertTranslation(ctx context.Context, sourceWordID int64, text string) (domain.Translation, error) {
	args := m.Called(ctx, sourceWordID, text)
	return args.Get(0).(domain.Translation), args.Error(1)
}

func (m *MockStore) TranslationExists(ctx context.Context, sourceWordID int64, text string) (bool, error) {
	args := m.Called(ctx, sourceWordID, text)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ListTranslations(ctx context.Context) ([]domain.Translation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Translation), args.Error(1)
}

func (m *MockStore) FirstTranslation(ctx context.Context, sourceWordID int64) (domain.Translation, error) {
	args := m.Called(ctx, sourceWordID)
	return args.Get(0).(domain.Translation), args.Error(1)
}

func (m *MockStore) ListVisibleWords(ctx context.Context, userID int64) ([]domain.SourceWord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceWord), args.Error(1)
}

func (m *MockStore) MarkSeeded(ctx context.Context, sourceWordID int64) error {
	args := m.Called(ctx, sourceWordID)
	return args.Error(0)
}

func (m *MockStore) GrantVisibility(ctx context.Context, e domain.VisibilityEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockStore) GrantAllUnseen(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) RevokeVisibility(ctx context.Context, userID, sourceWordID int64) (bool, error) {
	args := m.Called(ctx, userID, sourceWordID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	m.Called(ctx)
	if err := fn(m); err != nil {
		return &domain.TxError{Op: "rollback", Err: err}
	}
	return nil
}

// MockSessionRepository is a mock for SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) GetSession(ctx context.Context, userID int64) (domain.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, s domain.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) PruneSessions(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
