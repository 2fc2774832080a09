package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountRepository_GetOrCreate(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	account, err := repo.GetOrCreate(ctx, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ClientID != 42 {
		t.Fatalf("expected client 42, got %d", account.ClientID)
	}
	if !account.Available.IsZero() || !account.Held.IsZero() || account.Locked {
		t.Fatalf("new account must start empty and unlocked: %+v", account)
	}

	account.Deposit(decimal.NewFromInt(7))

	again, err := repo.GetOrCreate(ctx, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Available.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected the same account instance, got available %s", again.Available)
	}
}

func TestAccountRepository_ListSortedByClient(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	for _, id := range []uint16{30, 2, 17} {
		if _, err := repo.GetOrCreate(ctx, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	accounts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(accounts))
	}
	want := []uint16{2, 17, 30}
	for i, account := range accounts {
		if account.ClientID != want[i] {
			t.Fatalf("expected client %d at index %d, got %d", want[i], i, account.ClientID)
		}
	}
}
