package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInternalError         = "Internal error"
	ErrMsgCatalogMisconfigured  = "Catalog misconfigured"

	// Opening operation error messages
	ErrMsgOpenPackFailed   = "Failed to open pack"
	ErrMsgGetPendingFailed = "Failed to get pending opening"
	ErrMsgCommitFailed     = "Failed to commit collection"

	// Inventory operation error messages
	ErrMsgGetInventoryFailed = "Failed to get inventory"

	// Admin error messages
	ErrMsgGrantFailed         = "Failed to grant balance"
	ErrMsgResetFailed         = "Failed to reset owner"
	ErrMsgReloadCatalogFailed = "Failed to reload catalog"

	// Success messages
	MsgOwnerReset      = "owner state reset"
	MsgCatalogReloaded = "catalog reloaded"
)
