package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Catalog errors
	ErrMsgUnknownPack      = "unknown pack"
	ErrMsgItemNotFound     = "item not found"
	ErrMsgEmptyRarityPool  = "no catalog items for rarity"
	ErrMsgInvalidDropTable = "invalid drop table"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Idempotency errors
	ErrMsgIdempotencyConflict = "idempotency key reused with a different request"

	// Opening errors
	ErrMsgNoPendingOpening = "no pending opening"
	ErrMsgNoMatchingItems  = "no requested items match the pending opening"

	// Storage errors
	ErrMsgStorage  = "storage error"
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Catalog errors
	ErrUnknownPack      = errors.New(ErrMsgUnknownPack)
	ErrItemNotFound     = errors.New(ErrMsgItemNotFound)
	ErrEmptyRarityPool  = errors.New(ErrMsgEmptyRarityPool)
	ErrInvalidDropTable = errors.New(ErrMsgInvalidDropTable)

	// Economy errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Idempotency errors
	ErrIdempotencyConflict = errors.New(ErrMsgIdempotencyConflict)

	// Opening errors
	ErrNoPendingOpening = errors.New(ErrMsgNoPendingOpening)
	ErrNoMatchingItems  = errors.New(ErrMsgNoMatchingItems)

	// Storage errors
	ErrStorage = errors.New(ErrMsgStorage)
)
