package domain

import "time"

// State represents user's current interaction state
type State string

const (
	StateIdle                State = "idle"
	StateAwaitingWord        State = "awaiting_word"
	StateAwaitingTranslation State = "awaiting_translation"
	StateAwaitingRemoval     State = "awaiting_removal"
)

// Valid reports whether s is a known state
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingWord, StateAwaitingTranslation, StateAwaitingRemoval:
		return true
	}
	return false
}

// Session holds a user's state machine position
type Session struct {
	UserID int64
	State  State
	// PendingWordID is set only in StateAwaitingTranslation
	PendingWordID int64
	UpdatedAt     time.Time
}

// IdleSession returns a fresh session in the idle state
func IdleSession(userID int64) Session {
	return Session{UserID: userID, State: StateIdle}
}
