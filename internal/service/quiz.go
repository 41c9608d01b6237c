package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wordquiz/internal/domain"
)

// quizStore is the part of the word store the generator reads
type quizStore interface {
	ListVisibleWords(ctx context.Context, userID int64) ([]domain.SourceWord, error)
	FirstTranslation(ctx context.Context, sourceWordID int64) (domain.Translation, error)
	ListTranslations(ctx context.Context) ([]domain.Translation, error)
}

// QuizService builds multiple-choice questions
type QuizService struct {
	store  quizStore
	rnd    Rand
	logger *zap.Logger
}

// NewQuizService creates a new quiz service
func NewQuizService(store quizStore, rnd Rand, logger *zap.Logger) *QuizService {
	return &QuizService{
		store:  store,
		rnd:    rnd,
		logger: logger,
	}
}

// NextQuestion picks one of the user's visible words and builds a question
// with domain.OptionsCount distinct options. It returns nil when the user has
// no visible words and domain.ErrInsufficientData when the store does not
// hold enough distinct translations for distractors.
func (s *QuizService) NextQuestion(ctx context.Context, userID int64) (*domain.Question, error) {
	visible, err := s.store.ListVisibleWords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list visible words: %w", err)
	}
	if len(visible) == 0 {
		return nil, nil
	}

	word := visible[s.rnd.Intn(len(visible))]

	correct, err := s.store.FirstTranslation(ctx, word.ID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("Visible word has no translation",
			zap.Int64("user_id", userID),
			zap.Int64("source_word_id", word.ID),
			zap.String("word", word.Text),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first translation: %w", err)
	}

	all, err := s.store.ListTranslations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}

	pool := distractorPool(all, correct.Text)
	need := domain.OptionsCount - 1
	if len(pool) < need {
		return nil, domain.ErrInsufficientData
	}

	options := append(sample(s.rnd, pool, need), correct.Text)
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &domain.Question{
		Prompt:  word.Text,
		Correct: correct.Text,
		Options: options,
	}, nil
}

// distractorPool returns distinct translation texts other than correct, in
// store order
func distractorPool(all []domain.Translation, correct string) []string {
	seen := make(map[string]struct{}, len(all))
	pool := make([]string, 0, len(all))
	for _, t := range all {
		if t.Text == correct {
			continue
		}
		if _, ok := seen[t.Text]; ok {
			continue
		}
		seen[t.Text] = struct{}{}
		pool = append(pool, t.Text)
	}
	return pool
}

// sample picks k elements of pool without replacement
func sample(rnd Rand, pool []string, k int) []string {
	picked := make([]string, len(pool))
	copy(picked, pool)
	for i := 0; i < k; i++ {
		j := i + rnd.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:k:k]
}
