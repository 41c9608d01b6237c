package repository

import (
	"context"
	"time"

	"wordquiz/internal/domain"
)

// WordRepository defines source word and translation operations
type WordRepository interface {
	InsertSourceWord(ctx context.Context, text string) (domain.SourceWord, error)
	FindSourceWordByText(ctx context.Context, text string) (domain.SourceWord, error)
	ListSourceWords(ctx context.Context) ([]domain.SourceWord, error)
	InsertTranslation(ctx context.Context, sourceWordID int64, text string) (domain.Translation, error)
	TranslationExists(ctx context.Context, sourceWordID int64, text string) (bool, error)
	ListTranslations(ctx context.Context) ([]domain.Translation, error)
	FirstTranslation(ctx context.Context, sourceWordID int64) (domain.Translation, error)
	// MarkSeeded flags a word as part of the shared seed vocabulary
	MarkSeeded(ctx context.Context, sourceWordID int64) error
}

// VisibilityRepository defines per-user word visibility operations
type VisibilityRepository interface {
	ListVisibleWords(ctx context.Context, userID int64) ([]domain.SourceWord, error)
	GrantVisibility(ctx context.Context, e domain.VisibilityEntry) error
	// GrantAllUnseen makes every seed word visible to the user
	GrantAllUnseen(ctx context.Context, userID int64) (int64, error)
	RevokeVisibility(ctx context.Context, userID, sourceWordID int64) (bool, error)
}

// Store is the relational word store. WithTx runs fn against a
// transaction-scoped Store; any error from fn rolls the transaction back.
type Store interface {
	WordRepository
	VisibilityRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// SessionRepository persists per-user state machine positions
type SessionRepository interface {
	// GetSession returns the idle session when the user has none stored
	GetSession(ctx context.Context, userID int64) (domain.Session, error)
	SaveSession(ctx context.Context, s domain.Session) error
	// PruneSessions removes sessions last updated before the cutoff
	PruneSessions(ctx context.Context, before time.Time) (int64, error)
}
