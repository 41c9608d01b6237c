package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wordquiz/internal/domain"
)

// SessionRepo implements repository.SessionRepository on the chat_sessions table
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// GetSession returns the stored session or an idle one for unknown users
func (r *SessionRepo) GetSession(ctx context.Context, userID int64) (domain.Session, error) {
	query := `SELECT state, pending_word_id, updated_at FROM chat_sessions WHERE chat_id = $1`

	var (
		state   string
		pending sql.NullInt64
		updated time.Time
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&state, &pending, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		// User has no session yet
		return domain.IdleSession(userID), nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}

	s := domain.Session{
		UserID:    userID,
		State:     domain.State(state),
		UpdatedAt: updated,
	}
	if !s.State.Valid() {
		return domain.IdleSession(userID), nil
	}
	if pending.Valid {
		s.PendingWordID = pending.Int64
	}

	return s, nil
}

// SaveSession upserts the user's session
func (r *SessionRepo) SaveSession(ctx context.Context, s domain.Session) error {
	query := `
		INSERT INTO chat_sessions (chat_id, state, pending_word_id, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id)
		DO UPDATE SET state = excluded.state,
			pending_word_id = excluded.pending_word_id,
			updated_at = excluded.updated_at
	`

	var pending sql.NullInt64
	if s.PendingWordID != 0 {
		pending = sql.NullInt64{Int64: s.PendingWordID, Valid: true}
	}

	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	if _, err := r.db.ExecContext(ctx, query, s.UserID, string(s.State), pending, updated.UTC()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// PruneSessions deletes sessions untouched since before
func (r *SessionRepo) PruneSessions(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM chat_sessions WHERE updated_at < $1`

	res, err := r.db.ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}

	return res.RowsAffected()
}
