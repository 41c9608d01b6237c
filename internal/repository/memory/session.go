package memory

import (
	"context"
	"sync"
	"time"

	"wordquiz/internal/domain"
)

// SessionRepo keeps user states in process memory
type SessionRepo struct {
	sessions map[int64]domain.Session
	mu       sync.RWMutex
	now      func() time.Time
}

// NewSessionRepo creates an empty in-memory session repository
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		sessions: make(map[int64]domain.Session),
		now:      time.Now,
	}
}

// GetSession returns user's current session
func (r *SessionRepo) GetSession(_ context.Context, userID int64) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[userID]
	if !exists {
		return domain.IdleSession(userID), nil
	}
	return s, nil
}

// SaveSession stores user's session
func (r *SessionRepo) SaveSession(_ context.Context, s domain.Session) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.UserID] = s
	return nil
}

// PruneSessions drops sessions not updated since before
func (r *SessionRepo) PruneSessions(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sessions {
		if s.UpdatedAt.Before(before) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}
