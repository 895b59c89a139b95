package ledger

import "errors"

// Validation errors surfaced to callers. A failed operation never mutates
// state or the persisted mirror.
var (
	ErrInvalidAmount        = errors.New("invalid amount: must be greater than 0")
	ErrInsufficientBankroll = errors.New("insufficient bankroll")
	ErrNotFound             = errors.New("not found")
)
