package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a word is absent from the store
	ErrNotFound = errors.New("not found")
	// ErrNotInList is returned when a known word is not visible to the user
	ErrNotInList = errors.New("word is not in user's list")
	// ErrInsufficientData is returned when fewer than 4 distinct answer options exist
	ErrInsufficientData = errors.New("not enough distinct translations for a question")
	// ErrIntegrity is returned when a unique constraint rejects a write
	ErrIntegrity = errors.New("integrity violation")
	// ErrEmptyText is returned for blank user input
	ErrEmptyText = errors.New("text cannot be empty")
)

// TxError reports a multi-row mutation that was rolled back
type TxError struct {
	Op  string
	Err error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction %s: %v", e.Op, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}
