package memory

import (
	"context"
	"sort"

	"github.com/quayside/payengine/internal/domain"
)

// AccountRepository is the in-memory account store for one run.
// Accounts are created lazily with zero balances the first time a
// client id is seen and never deleted.
type AccountRepository struct {
	accounts map[uint16]*domain.Account
}

// NewAccountRepository creates an empty account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[uint16]*domain.Account),
	}
}

// GetOrCreate returns the account for clientID, creating it if needed.
func (r *AccountRepository) GetOrCreate(ctx context.Context, clientID uint16) (*domain.Account, error) {
	if account, ok := r.accounts[clientID]; ok {
		return account, nil
	}
	account := domain.NewAccount(clientID)
	r.accounts[clientID] = account
	return account, nil
}

// Update stores the account. The engine mutates accounts returned by
// GetOrCreate in place, so this is a no-op for accounts it owns, but
// the interface keeps the write explicit.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	r.accounts[account.ClientID] = account
	return nil
}

// List returns all accounts ordered by client id.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	accounts := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ClientID < accounts[j].ClientID
	})
	return accounts, nil
}
