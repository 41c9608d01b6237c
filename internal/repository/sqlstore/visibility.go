package sqlstore

import (
	"context"
	"fmt"

	"wordquiz/internal/domain"
)

// ListVisibleWords returns the words enabled for the user
func (s *Store) ListVisibleWords(ctx context.Context, userID int64) ([]domain.SourceWord, error) {
	query := `
		SELECT w.id, w.text
		FROM source_words w
		JOIN visibility v ON v.source_word_id = w.id
		WHERE v.chat_id = $1
		ORDER BY w.id
	`
	return s.querySourceWords(ctx, query, userID)
}

// GrantVisibility enables a word for the user. No-op when already visible.
func (s *Store) GrantVisibility(ctx context.Context, e domain.VisibilityEntry) error {
	query := `
		INSERT INTO visibility (chat_id, source_word_id)
		VALUES ($1, $2)
		ON CONFLICT (chat_id, source_word_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, e.UserID, e.SourceWordID); err != nil {
		return fmt.Errorf("grant visibility: %w", err)
	}
	return nil
}

// GrantAllUnseen enables every seed word the user cannot see yet and
// returns how many entries were created. Words added by users are shared
// only through their own visibility entries.
func (s *Store) GrantAllUnseen(ctx context.Context, userID int64) (int64, error) {
	query := `
		INSERT INTO visibility (chat_id, source_word_id)
		SELECT CAST($1 AS BIGINT), w.id
		FROM source_words w
		WHERE w.seeded = TRUE
		AND NOT EXISTS (
			SELECT 1 FROM visibility v WHERE v.chat_id = $1 AND v.source_word_id = w.id
		)
		ON CONFLICT (chat_id, source_word_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("grant all unseen: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("grant all unseen rows affected: %w", err)
	}

	return n, nil
}

// RevokeVisibility removes a word from the user's list and reports whether it was there
func (s *Store) RevokeVisibility(ctx context.Context, userID, sourceWordID int64) (bool, error) {
	query := `DELETE FROM visibility WHERE chat_id = $1 AND source_word_id = $2`

	res, err := s.db.ExecContext(ctx, query, userID, sourceWordID)
	if err != nil {
		return false, fmt.Errorf("revoke visibility: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoke visibility rows affected: %w", err)
	}

	return n > 0, nil
}
