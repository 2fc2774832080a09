package memory

import (
	"context"
	"fmt"

	"github.com/quayside/payengine/internal/domain"
)

// LedgerRepository is the in-memory transaction registry for one run.
// It tracks every issued tx id for duplicate detection and keeps a
// dispute-lifecycle entry per deposit. It is not safe for concurrent
// use: records within a batch are applied strictly sequentially.
type LedgerRepository struct {
	entries map[uint32]*domain.Entry
	issued  map[uint32]struct{}
}

// NewLedgerRepository creates an empty ledger.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		entries: make(map[uint32]*domain.Entry),
		issued:  make(map[uint32]struct{}),
	}
}

// RecordDeposit registers the entry's tx id and stores the entry.
func (r *LedgerRepository) RecordDeposit(ctx context.Context, entry *domain.Entry) error {
	if _, ok := r.issued[entry.TxID]; ok {
		return fmt.Errorf("%w: tx %d", domain.ErrDuplicateTransaction, entry.TxID)
	}
	r.issued[entry.TxID] = struct{}{}
	r.entries[entry.TxID] = entry
	return nil
}

// RecordWithdrawal registers a withdrawal tx id. Withdrawals never
// create entries; they cannot be disputed.
func (r *LedgerRepository) RecordWithdrawal(ctx context.Context, txID uint32) error {
	if _, ok := r.issued[txID]; ok {
		return fmt.Errorf("%w: tx %d", domain.ErrDuplicateTransaction, txID)
	}
	r.issued[txID] = struct{}{}
	return nil
}

// Lookup returns the disputable entry for txID.
func (r *LedgerRepository) Lookup(ctx context.Context, txID uint32) (*domain.Entry, error) {
	entry, ok := r.entries[txID]
	if !ok {
		return nil, fmt.Errorf("%w: tx %d", domain.ErrUnknownTransaction, txID)
	}
	return entry, nil
}

// Transition mutates the entry's dispute status in place.
func (r *LedgerRepository) Transition(ctx context.Context, txID uint32, status domain.DisputeStatus) error {
	entry, ok := r.entries[txID]
	if !ok {
		return fmt.Errorf("%w: tx %d", domain.ErrUnknownTransaction, txID)
	}
	entry.Status = status
	return nil
}
