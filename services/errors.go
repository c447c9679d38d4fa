package services

import (
	"errors"
	"fmt"
)

// Error taxonomy. Controllers map these onto HTTP statuses; everything else
// is treated as an internal error.
var (
	// ErrNotFound marks a missing profile, question or user.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation marks a request that can never succeed as issued
	// (self-like, duplicate like, acting across a block).
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrQuestionnaireIncomplete marks a compatibility request where one or
	// both parties have no trait vector yet.
	ErrQuestionnaireIncomplete = errors.New("questionnaire not completed")
)

// Specializations of ErrInvalidOperation; errors.Is matches both.
var (
	ErrSelfAction   = fmt.Errorf("%w: sender and receiver are the same user", ErrInvalidOperation)
	ErrAlreadyLiked = fmt.Errorf("%w: already liked", ErrInvalidOperation)
	ErrBlocked      = fmt.Errorf("%w: relationship is blocked", ErrInvalidOperation)
)

// ErrTransactionConflict is returned by the store when a transactional write
// loses a race on a uniqueness condition. Callers absorb it as an idempotent
// success, never surface it.
var ErrTransactionConflict = errors.New("transaction conflict")
