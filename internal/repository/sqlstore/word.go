package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wordquiz/internal/domain"
)

// InsertSourceWord creates a source word. A duplicate text yields domain.ErrIntegrity.
func (s *Store) InsertSourceWord(ctx context.Context, text string) (domain.SourceWord, error) {
	query := `INSERT INTO source_words (text) VALUES ($1) RETURNING id`

	w := domain.SourceWord{Text: text}
	if err := s.db.QueryRowContext(ctx, query, text).Scan(&w.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.SourceWord{}, fmt.Errorf("insert source word %q: %w", text, domain.ErrIntegrity)
		}
		return domain.SourceWord{}, fmt.Errorf("insert source word: %w", err)
	}

	return w, nil
}

// FindSourceWordByText looks a source word up by its exact text
func (s *Store) FindSourceWordByText(ctx context.Context, text string) (domain.SourceWord, error) {
	query := `SELECT id, text FROM source_words WHERE text = $1`

	var w domain.SourceWord
	err := s.db.QueryRowContext(ctx, query, text).Scan(&w.ID, &w.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SourceWord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SourceWord{}, fmt.Errorf("find source word: %w", err)
	}

	return w, nil
}

// ListSourceWords returns every source word ordered by id
func (s *Store) ListSourceWords(ctx context.Context) ([]domain.SourceWord, error) {
	return s.querySourceWords(ctx, `SELECT id, text FROM source_words ORDER BY id`)
}

// MarkSeeded flags a source word as seed vocabulary
func (s *Store) MarkSeeded(ctx context.Context, sourceWordID int64) error {
	query := `UPDATE source_words SET seeded = TRUE WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, sourceWordID)
	if err != nil {
		return fmt.Errorf("mark seeded: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark seeded rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// InsertTranslation appends a translation to a source word
func (s *Store) InsertTranslation(ctx context.Context, sourceWordID int64, text string) (domain.Translation, error) {
	query := `INSERT INTO translations (source_word_id, text) VALUES ($1, $2) RETURNING id`

	t := domain.Translation{SourceWordID: sourceWordID, Text: text}
	if err := s.db.QueryRowContext(ctx, query, sourceWordID, text).Scan(&t.ID); err != nil {
		return domain.Translation{}, fmt.Errorf("insert translation: %w", err)
	}

	return t, nil
}

// TranslationExists checks whether the exact (word, text) translation is stored
func (s *Store) TranslationExists(ctx context.Context, sourceWordID int64, text string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM translations WHERE source_word_id = $1 AND text = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, sourceWordID, text).Scan(&exists); err != nil {
		return false, fmt.Errorf("check translation existence: %w", err)
	}

	return exists, nil
}

// ListTranslations returns every translation in the store
func (s *Store) ListTranslations(ctx context.Context) ([]domain.Translation, error) {
	query := `SELECT id, source_word_id, text FROM translations ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	var translations []domain.Translation
	for rows.Next() {
		var t domain.Translation
		if err := rows.Scan(&t.ID, &t.SourceWordID, &t.Text); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		translations = append(translations, t)
	}

	return translations, rows.Err()
}

// FirstTranslation returns the earliest stored translation of a word
func (s *Store) FirstTranslation(ctx context.Context, sourceWordID int64) (domain.Translation, error) {
	query := `
		SELECT id, source_word_id, text
		FROM translations
		WHERE source_word_id = $1
		ORDER BY id
		LIMIT 1
	`

	var t domain.Translation
	err := s.db.QueryRowContext(ctx, query, sourceWordID).Scan(&t.ID, &t.SourceWordID, &t.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Translation{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Translation{}, fmt.Errorf("first translation: %w", err)
	}

	return t, nil
}

func (s *Store) querySourceWords(ctx context.Context, query string, args ...any) ([]domain.SourceWord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query source words: %w", err)
	}
	defer rows.Close()

	var words []domain.SourceWord
	for rows.Next() {
		var w domain.SourceWord
		if err := rows.Scan(&w.ID, &w.Text); err != nil {
			return nil, fmt.Errorf("scan source word: %w", err)
		}
		words = append(words, w)
	}

	return words, rows.Err()
}
