package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository"
)

// Event is what happened in response to a user action
type Event int

const (
	EventNone Event = iota
	EventGreeting
	EventPromptWord
	EventPromptTranslation
	EventPromptRemoval
	EventWordAdded
	EventWordRemoved
	EventWordUnknown
	EventWordNotInList
	EventEmptyInput
	EventCancelled
	EventUnrecognized
)

// QuizStatus describes the outcome of asking for the next question
type QuizStatus int

const (
	QuizNone QuizStatus = iota
	QuizAsked
	QuizNoWords
	QuizNotEnoughWords
)

// Reply is the controller's answer to one user action
type Reply struct {
	Event    Event
	Quiz     QuizStatus
	Question *domain.Question
	// Granted is the number of words made visible by Start
	Granted int64
}

// AnswerStatus is the verdict on a selected option
type AnswerStatus int

const (
	AnswerExpired AnswerStatus = iota
	AnswerCorrect
	AnswerWrong
)

type AnswerResult struct {
	Status   AnswerStatus
	Selected string
	Correct  string
}

type SessionServiceConfig struct {
	// SessionTTL is how long an untouched session survives PruneIdle
	SessionTTL time.Duration
}

// SessionService drives the per-user conversation state machine
type SessionService struct {
	sessions   repository.SessionRepository
	words      *WordService
	visibility *VisibilityService
	quiz       *QuizService
	questions  *QuestionCache
	sessionTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	sessions repository.SessionRepository,
	words *WordService,
	visibility *VisibilityService,
	quiz *QuizService,
	questions *QuestionCache,
	cfg SessionServiceConfig,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessions:   sessions,
		words:      words,
		visibility: visibility,
		quiz:       quiz,
		questions:  questions,
		sessionTTL: cfg.SessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Start grants the user every word they have not seen yet and resets the session
func (s *SessionService) Start(ctx context.Context, userID int64) (Reply, error) {
	granted, err := s.visibility.GrantAllUnseen(ctx, userID)
	if err != nil {
		return Reply{}, fmt.Errorf("grant all unseen: %w", err)
	}
	if granted > 0 {
		s.logger.Info("Granted words", zap.Int64("user_id", userID), zap.Int64("count", granted))
	}

	if err := s.reset(ctx, userID); err != nil {
		return Reply{}, err
	}

	return Reply{Event: EventGreeting, Granted: granted}, nil
}

// RequestAdd starts the add-word flow
func (s *SessionService) RequestAdd(ctx context.Context, userID int64) (Reply, error) {
	if err := s.save(ctx, userID, domain.StateAwaitingWord, 0); err != nil {
		return Reply{}, err
	}
	return Reply{Event: EventPromptWord}, nil
}

// RequestRemove starts the remove-word flow
func (s *SessionService) RequestRemove(ctx context.Context, userID int64) (Reply, error) {
	if err := s.save(ctx, userID, domain.StateAwaitingRemoval, 0); err != nil {
		return Reply{}, err
	}
	return Reply{Event: EventPromptRemoval}, nil
}

// Next abandons any pending flow and asks a new question
func (s *SessionService) Next(ctx context.Context, userID int64) (Reply, error) {
	if err := s.reset(ctx, userID); err != nil {
		return Reply{}, err
	}
	return s.ask(ctx, userID, Reply{})
}

// Cancel abandons any pending flow
func (s *SessionService) Cancel(ctx context.Context, userID int64) (Reply, error) {
	if err := s.reset(ctx, userID); err != nil {
		return Reply{}, err
	}
	return Reply{Event: EventCancelled}, nil
}

// HandleText feeds free text into the state machine
func (s *SessionService) HandleText(ctx context.Context, userID int64, text string) (Reply, error) {
	sess, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		return Reply{}, fmt.Errorf("get session: %w", err)
	}

	switch sess.State {
	case domain.StateAwaitingWord:
		return s.receiveWord(ctx, userID, text)
	case domain.StateAwaitingTranslation:
		return s.receiveTranslation(ctx, userID, sess.PendingWordID, text)
	case domain.StateAwaitingRemoval:
		return s.receiveRemoval(ctx, userID, text)
	default:
		return Reply{Event: EventUnrecognized}, nil
	}
}

// Answer checks the option selected for an issued question
func (s *SessionService) Answer(questionID string, option int) AnswerResult {
	q, ok := s.questions.Lookup(questionID)
	if !ok {
		return AnswerResult{Status: AnswerExpired}
	}

	selected, ok := q.Option(option)
	if !ok {
		return AnswerResult{Status: AnswerExpired, Correct: q.Correct}
	}

	status := AnswerWrong
	if domain.CheckAnswer(selected, q.Correct) {
		status = AnswerCorrect
	}

	return AnswerResult{Status: status, Selected: selected, Correct: q.Correct}
}

// PruneIdle removes sessions untouched for longer than the session TTL
func (s *SessionService) PruneIdle(ctx context.Context) (int64, error) {
	s.logger.Info("Starting cleanup of idle sessions", zap.Duration("ttl", s.sessionTTL))

	n, err := s.sessions.PruneSessions(ctx, s.now().Add(-s.sessionTTL))
	if err != nil {
		s.logger.Error("Failed to cleanup idle sessions", zap.Error(err))
		return 0, err
	}

	s.logger.Info("Cleanup completed successfully", zap.Int64("removed", n))
	return n, nil
}

func (s *SessionService) receiveWord(ctx context.Context, userID int64, text string) (Reply, error) {
	w, err := s.words.EnsureSourceWord(ctx, text)
	if err != nil {
		return s.fail(ctx, userID, err)
	}

	if err := s.save(ctx, userID, domain.StateAwaitingTranslation, w.ID); err != nil {
		return Reply{}, err
	}
	return Reply{Event: EventPromptTranslation}, nil
}

func (s *SessionService) receiveTranslation(ctx context.Context, userID, wordID int64, text string) (Reply, error) {
	if _, err := s.words.AddUserTranslation(ctx, userID, wordID, text); err != nil {
		return s.fail(ctx, userID, err)
	}

	if err := s.reset(ctx, userID); err != nil {
		return Reply{}, err
	}
	return s.ask(ctx, userID, Reply{Event: EventWordAdded})
}

func (s *SessionService) receiveRemoval(ctx context.Context, userID int64, text string) (Reply, error) {
	reply := Reply{Event: EventWordRemoved}

	err := s.visibility.RemoveByText(ctx, userID, text)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		reply.Event = EventWordUnknown
	case errors.Is(err, domain.ErrNotInList):
		reply.Event = EventWordNotInList
	case err != nil:
		return s.fail(ctx, userID, err)
	}

	if err := s.reset(ctx, userID); err != nil {
		return Reply{}, err
	}
	return s.ask(ctx, userID, reply)
}

// ask attaches the next question for the user to r
func (s *SessionService) ask(ctx context.Context, userID int64, r Reply) (Reply, error) {
	q, err := s.quiz.NextQuestion(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		r.Quiz = QuizNotEnoughWords
	case err != nil:
		return r, fmt.Errorf("next question: %w", err)
	case q == nil:
		r.Quiz = QuizNoWords
	default:
		s.questions.Issue(q)
		r.Quiz = QuizAsked
		r.Question = q
	}
	return r, nil
}

// fail returns the user to idle. Empty input becomes an event, anything
// else is passed up.
func (s *SessionService) fail(ctx context.Context, userID int64, cause error) (Reply, error) {
	if err := s.reset(ctx, userID); err != nil {
		s.logger.Error("Failed to reset session", zap.Int64("user_id", userID), zap.Error(err))
	}
	if errors.Is(cause, domain.ErrEmptyText) {
		return Reply{Event: EventEmptyInput}, nil
	}
	return Reply{}, cause
}

func (s *SessionService) reset(ctx context.Context, userID int64) error {
	return s.save(ctx, userID, domain.StateIdle, 0)
}

func (s *SessionService) save(ctx context.Context, userID int64, state domain.State, pending int64) error {
	err := s.sessions.SaveSession(ctx, domain.Session{
		UserID:        userID,
		State:         state,
		PendingWordID: pending,
		UpdatedAt:     s.now(),
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
