package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. The ledger core
// wraps these with entity context (%w) so callers can branch on errors.Is.
// Every rejection is local and non-fatal: prior state is left untouched.

var (
	// ErrNotFound — the referenced entity id does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidState — the entity exists but is not in the lifecycle state
	// the operation requires (e.g. accepting a non-Offered service).
	ErrInvalidState = errors.New("invalid lifecycle state")

	// ErrInvalidInput — structurally invalid argument (non-positive hours,
	// rating outside the scale).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientBalance — a debit would exceed the available credit.
	ErrInsufficientBalance = errors.New("insufficient time balance")
)
