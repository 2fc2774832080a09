package domain

import (
	"github.com/shopspring/decimal"
)

// Account holds the aggregate balances for one client. Available and
// held are kept separately; total is always derived, never stored.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount creates an account with zero balances and unlocked state.
func NewAccount(clientID uint16) *Account {
	return &Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns available + held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Deposit credits available funds.
func (a *Account) Deposit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// Withdraw debits available funds. It fails with ErrInsufficientFunds
// if the debit would drive available below zero; the account is left
// unchanged on failure.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Available = a.Available.Sub(amount)
	return nil
}

// HoldFunds moves amount from available to held. Total is unchanged.
// Fails with ErrInsufficientFunds if available < amount.
func (a *Account) HoldFunds(amount decimal.Decimal) error {
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
	return nil
}

// ReleaseHold moves amount from held back to available. Total is
// unchanged. Fails with ErrInsufficientFunds if held < amount.
func (a *Account) ReleaseHold(amount decimal.Decimal) error {
	if a.Held.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
	return nil
}

// ChargeBack removes amount from held funds and locks the account.
// Fails with ErrInsufficientFunds if held < amount, leaving the account
// unchanged and unlocked.
func (a *Account) ChargeBack(amount decimal.Decimal) error {
	if a.Held.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Held = a.Held.Sub(amount)
	a.Locked = true
	return nil
}
