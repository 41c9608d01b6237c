package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository"
)

const defaultCacheSize = 10_000

// WordService handles source words and translations
type WordService struct {
	store  repository.Store
	cache  *ristretto.Cache[string, domain.SourceWord]
	logger *zap.Logger
}

type WordServiceConfig struct {
	// CacheSize is the number of source words kept in the text -> word cache
	CacheSize int64
}

// NewWordService creates a new word service
func NewWordService(store repository.Store, cfg WordServiceConfig, logger *zap.Logger) *WordService {
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, domain.SourceWord]{
		NumCounters:        size * 10,
		MaxCost:            size,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create source word cache: %v", err))
	}

	return &WordService{
		store:  store,
		cache:  c,
		logger: logger,
	}
}

// EnsureSourceWord returns the source word with the given text, creating it
// if needed. Source words are never deleted, so resolved words are cached.
func (s *WordService) EnsureSourceWord(ctx context.Context, text string) (domain.SourceWord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.SourceWord{}, domain.ErrEmptyText
	}

	if w, found := s.cache.Get(text); found {
		return w, nil
	}

	w, err := s.store.FindSourceWordByText(ctx, text)
	if err == nil {
		s.remember(w)
		return w, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.SourceWord{}, fmt.Errorf("find source word: %w", err)
	}

	w, err = s.store.InsertSourceWord(ctx, text)
	if errors.Is(err, domain.ErrIntegrity) {
		// Another writer created it first
		s.logger.Debug("Source word insert raced, re-fetching", zap.String("text", text))
		w, err = s.store.FindSourceWordByText(ctx, text)
	}
	if err != nil {
		return domain.SourceWord{}, fmt.Errorf("ensure source word: %w", err)
	}

	s.remember(w)
	return w, nil
}

// FindSourceWord looks a source word up by text
func (s *WordService) FindSourceWord(ctx context.Context, text string) (domain.SourceWord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.SourceWord{}, domain.ErrEmptyText
	}

	if w, found := s.cache.Get(text); found {
		return w, nil
	}
	return s.store.FindSourceWordByText(ctx, text)
}

// AddTranslation appends a translation to a source word
func (s *WordService) AddTranslation(ctx context.Context, sourceWordID int64, text string) (domain.Translation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Translation{}, domain.ErrEmptyText
	}
	return s.store.InsertTranslation(ctx, sourceWordID, text)
}

// AddUserTranslation stores a translation and makes its word visible to the
// user in one transaction
func (s *WordService) AddUserTranslation(ctx context.Context, userID, sourceWordID int64, text string) (domain.Translation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Translation{}, domain.ErrEmptyText
	}

	var t domain.Translation
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		t, err = tx.InsertTranslation(ctx, sourceWordID, text)
		if err != nil {
			return err
		}
		return tx.GrantVisibility(ctx, domain.VisibilityEntry{UserID: userID, SourceWordID: sourceWordID})
	})
	if err != nil {
		return domain.Translation{}, fmt.Errorf("add user translation: %w", err)
	}

	return t, nil
}

// SourceWords returns all source words
func (s *WordService) SourceWords(ctx context.Context) ([]domain.SourceWord, error) {
	return s.store.ListSourceWords(ctx)
}

// Translations returns all translations
func (s *WordService) Translations(ctx context.Context) ([]domain.Translation, error) {
	return s.store.ListTranslations(ctx)
}

// FirstTranslation returns the translation used as the correct answer for a word
func (s *WordService) FirstTranslation(ctx context.Context, sourceWordID int64) (domain.Translation, error) {
	return s.store.FirstTranslation(ctx, sourceWordID)
}

// SeedResult counts rows created by LoadSeed
type SeedResult struct {
	Words        int
	Translations int
}

// LoadSeed imports seed entries and marks their words as seed vocabulary.
// Re-loading the same entries creates nothing.
func (s *WordService) LoadSeed(ctx context.Context, entries []domain.SeedEntry) (SeedResult, error) {
	var res SeedResult

	known, err := s.store.ListSourceWords(ctx)
	if err != nil {
		return res, fmt.Errorf("list source words: %w", err)
	}
	existing := make(map[string]struct{}, len(known))
	for _, w := range known {
		existing[w.Text] = struct{}{}
	}

	for _, e := range entries {
		w, err := s.EnsureSourceWord(ctx, e.Word)
		if err != nil {
			return res, fmt.Errorf("seed word %q: %w", e.Word, err)
		}
		if _, ok := existing[w.Text]; !ok {
			existing[w.Text] = struct{}{}
			res.Words++
		}

		added := false
		err = s.store.WithTx(ctx, func(tx repository.Store) error {
			exists, err := tx.TranslationExists(ctx, w.ID, e.Translation)
			if err != nil {
				return err
			}
			if !exists {
				if _, err := tx.InsertTranslation(ctx, w.ID, e.Translation); err != nil {
					return err
				}
				added = true
			}
			return tx.MarkSeeded(ctx, w.ID)
		})
		if err != nil {
			return res, fmt.Errorf("seed translation %q: %w", e.Translation, err)
		}
		if added {
			res.Translations++
		}
	}

	s.logger.Info("Seed data loaded",
		zap.Int("entries", len(entries)),
		zap.Int("new_words", res.Words),
		zap.Int("new_translations", res.Translations),
	)

	return res, nil
}

func (s *WordService) remember(w domain.SourceWord) {
	s.cache.Set(w.Text, w, 1)
	s.cache.Wait()
}
