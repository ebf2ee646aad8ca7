package domain

import "errors"

var (
	ErrActorNotFound    = errors.New("actor not found")
	ErrContentNotFound  = errors.New("content not found")
	ErrReactionNotFound = errors.New("reaction not found")
	ErrAlreadyReacted   = errors.New("already reacted")
	ErrHandleTaken      = errors.New("handle already taken")
	ErrLedgerNotFound   = errors.New("ledger entry not found")

	// ErrInvariantViolation signals corrupted engagement state: a reaction count
	// that would go negative, or a missing ledger entry where one must exist.
	// It aborts the surrounding transaction and is never silently corrected.
	ErrInvariantViolation = errors.New("invariant violation")
)
