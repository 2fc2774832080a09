package usecase

import (
	"context"

	"github.com/quayside/payengine/internal/domain"
)

// LedgerRepository is the registry of issued transaction ids and the
// dispute-lifecycle entries that dispute/resolve/chargeback act
// against. Only deposits create entries; withdrawals register their id
// for duplicate detection but can never be disputed.
type LedgerRepository interface {
	// RecordDeposit registers the entry's tx id and stores the entry
	// with its initial status. Fails with ErrDuplicateTransaction if
	// the id was already issued by any record kind.
	RecordDeposit(ctx context.Context, entry *domain.Entry) error
	// RecordWithdrawal registers a withdrawal tx id. Fails with
	// ErrDuplicateTransaction if the id was already issued.
	RecordWithdrawal(ctx context.Context, txID uint32) error
	// Lookup returns the entry for a disputable transaction, or
	// ErrUnknownTransaction if the id is unknown or not disputable.
	Lookup(ctx context.Context, txID uint32) (*domain.Entry, error)
	// Transition mutates the entry's dispute status in place. Callers
	// verify the transition is legal before calling.
	Transition(ctx context.Context, txID uint32, status domain.DisputeStatus) error
}

// AccountRepository owns all account state. Accounts are created
// lazily with zero balances the first time a client id is seen and are
// never deleted during a run.
type AccountRepository interface {
	GetOrCreate(ctx context.Context, clientID uint16) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	// List returns all accounts ordered by client id.
	List(ctx context.Context) ([]*domain.Account, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
