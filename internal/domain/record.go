package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies the type of a transaction record. The set is closed:
// the engine switches exhaustively over it.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

// ParseKind parses a record type field, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return KindDeposit, nil
	case "withdrawal":
		return KindWithdrawal, nil
	case "dispute":
		return KindDispute, nil
	case "resolve":
		return KindResolve, nil
	case "chargeback":
		return KindChargeback, nil
	default:
		return KindUnknown, fmt.Errorf("%w: unknown record type %q", ErrMalformedRecord, s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// RequiresAmount reports whether records of this kind carry an amount.
// Dispute, resolve and chargeback reference an existing transaction's
// amount and must not carry their own.
func (k Kind) RequiresAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// maxFractionalDigits is the input precision limit for amounts.
const maxFractionalDigits = 4

// Record is one input transaction. It is immutable once parsed; the
// engine never mutates it.
type Record struct {
	Kind      Kind
	ClientID  uint16
	TxID      uint32
	Amount    decimal.Decimal
	HasAmount bool
}

// Validate checks semantic well-formedness: the amount must be present
// and non-negative for deposit/withdrawal, absent otherwise, and the
// kind must be known. Violations wrap ErrMalformedRecord.
func (r Record) Validate() error {
	switch r.Kind {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
	default:
		return fmt.Errorf("%w: unknown record kind", ErrMalformedRecord)
	}

	if r.Kind.RequiresAmount() {
		if !r.HasAmount {
			return fmt.Errorf("%w: %s tx %d requires an amount", ErrMalformedRecord, r.Kind, r.TxID)
		}
		if r.Amount.IsNegative() {
			return fmt.Errorf("%w: %s tx %d has negative amount %s", ErrMalformedRecord, r.Kind, r.TxID, r.Amount)
		}
		if r.Amount.Exponent() < -maxFractionalDigits {
			return fmt.Errorf("%w: %s tx %d amount %s exceeds %d fractional digits", ErrMalformedRecord, r.Kind, r.TxID, r.Amount, maxFractionalDigits)
		}
		return nil
	}

	if r.HasAmount {
		return fmt.Errorf("%w: %s tx %d must not carry an amount", ErrMalformedRecord, r.Kind, r.TxID)
	}
	return nil
}
