package domain

import "errors"

// Structural errors fail the whole batch before any mutation.
var ErrMalformedRecord = errors.New("malformed record")

// Semantic errors skip the offending record; the rest of the batch
// continues to apply.
var (
	ErrDuplicateTransaction = errors.New("transaction id already used")
	ErrInsufficientFunds    = errors.New("insufficient available funds")
	ErrAccountLocked        = errors.New("account is locked")
	ErrUnknownTransaction   = errors.New("unknown transaction")
	ErrClientMismatch       = errors.New("transaction belongs to a different client")
	ErrInvalidState         = errors.New("transaction is not in a valid state for this operation")
)

// ReasonCode maps a semantic error to a stable identifier for logs and
// metrics labels. Unrecognized errors map to "internal".
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateTransaction):
		return "duplicate_transaction"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, ErrUnknownTransaction):
		return "unknown_transaction"
	case errors.Is(err, ErrClientMismatch):
		return "client_mismatch"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrMalformedRecord):
		return "malformed_record"
	default:
		return "internal"
	}
}
