package models

import "errors"

// Error kinds surfaced by wager placement and settlement. Services wrap them
// with context via fmt.Errorf and %w; callers match with errors.Is. None of
// these leave partial state behind: the unit of work that detected them rolls
// back as a whole.
var (
	ErrOptionNotFound    = errors.New("option not found")
	ErrMarketClosed      = errors.New("market closed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyResolved   = errors.New("market already resolved")
)
