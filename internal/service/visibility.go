package service

import (
	"context"
	"fmt"
	"strings"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository"
)

// VisibilityService manages which words each user practices
type VisibilityService struct {
	store repository.Store
}

// NewVisibilityService creates a new visibility service
func NewVisibilityService(store repository.Store) *VisibilityService {
	return &VisibilityService{store: store}
}

// VisibleWords returns the words currently enabled for the user
func (s *VisibilityService) VisibleWords(ctx context.Context, userID int64) ([]domain.SourceWord, error) {
	return s.store.ListVisibleWords(ctx, userID)
}

// Grant enables a word for the user
func (s *VisibilityService) Grant(ctx context.Context, userID, sourceWordID int64) error {
	return s.store.GrantVisibility(ctx, domain.VisibilityEntry{UserID: userID, SourceWordID: sourceWordID})
}

// GrantAllUnseen enables every seed word the user cannot see yet.
// It is atomic and a second call right after the first adds nothing.
func (s *VisibilityService) GrantAllUnseen(ctx context.Context, userID int64) (int64, error) {
	var granted int64
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		granted, err = tx.GrantAllUnseen(ctx, userID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return granted, nil
}

// Revoke removes a word from the user's list and reports whether it was there
func (s *VisibilityService) Revoke(ctx context.Context, userID, sourceWordID int64) (bool, error) {
	return s.store.RevokeVisibility(ctx, userID, sourceWordID)
}

// RemoveByText removes the word with the given text from the user's list.
// Returns domain.ErrNotFound for unknown words and domain.ErrNotInList when
// the word exists but was not visible.
func (s *VisibilityService) RemoveByText(ctx context.Context, userID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyText
	}

	return s.store.WithTx(ctx, func(tx repository.Store) error {
		w, err := tx.FindSourceWordByText(ctx, text)
		if err != nil {
			return err
		}

		removed, err := tx.RevokeVisibility(ctx, userID, w.ID)
		if err != nil {
			return fmt.Errorf("revoke: %w", err)
		}
		if !removed {
			return domain.ErrNotInList
		}
		return nil
	})
}
