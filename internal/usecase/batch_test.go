package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/quayside/payengine/internal/adapter/repository/memory"
	"github.com/quayside/payengine/internal/domain"
	"github.com/quayside/payengine/internal/usecase"
	"github.com/quayside/payengine/internal/usecase/mocks"
)

func newTestBatch() (*usecase.BatchUseCase, *memory.AccountRepository) {
	ledger := memory.NewLedgerRepository()
	accounts := memory.NewAccountRepository()
	engine := usecase.NewEngine(ledger, accounts, zerolog.Nop(), nil)
	batch := usecase.NewBatchUseCase(engine, accounts, memory.NewULIDGenerator(), zerolog.Nop(), nil)
	return batch, accounts
}

func TestBatchUseCase_EndToEnd(t *testing.T) {
	batch, _ := newTestBatch()

	// Client 1 deposits 10 and disputes it; the withdrawal during the
	// dispute fails because available is 0 while the 10 is held, then
	// the resolve releases the hold.
	records := []domain.Record{
		deposit(1, 1, amt(t, "10")),
		deposit(2, 2, amt(t, "20")),
		dispute(1, 1),
		withdrawal(1, 3, amt(t, "5")),
		resolve(1, 1),
	}

	result, err := batch.Process(context.Background(), records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BatchID == "" {
		t.Error("expected a batch id")
	}
	if result.Applied != 4 {
		t.Errorf("expected 4 applied records, got %d", result.Applied)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skipped record, got %d", len(result.Skipped))
	}
	skip := result.Skipped[0]
	if skip.Index != 3 || !errors.Is(skip.Err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected the withdrawal at index 3 to skip with ErrInsufficientFunds, got %+v", skip)
	}

	if len(result.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(result.Accounts))
	}
	checkBalances(t, result.Accounts[0], "10", "0", false)
	checkBalances(t, result.Accounts[1], "20", "0", false)
}

func TestBatchUseCase_StructuralRejection(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.Record
	}{
		{
			name: "withdrawal missing amount",
			records: []domain.Record{
				deposit(1, 1, amt(t, "10")),
				{Kind: domain.KindWithdrawal, ClientID: 1, TxID: 2},
			},
		},
		{
			name: "deposit with negative amount",
			records: []domain.Record{
				deposit(1, 1, amt(t, "10")),
				deposit(1, 2, amt(t, "-1")),
			},
		},
		{
			name: "dispute carrying an amount",
			records: []domain.Record{
				deposit(1, 1, amt(t, "10")),
				{Kind: domain.KindDispute, ClientID: 1, TxID: 1, Amount: amt(t, "10"), HasAmount: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, accounts := newTestBatch()

			_, err := batch.Process(context.Background(), tt.records)
			if !errors.Is(err, domain.ErrMalformedRecord) {
				t.Fatalf("expected ErrMalformedRecord, got %v", err)
			}

			// No partial effects: the well-formed records that
			// preceded the malformed one were not applied.
			list, listErr := accounts.List(context.Background())
			if listErr != nil {
				t.Fatalf("unexpected error: %v", listErr)
			}
			if len(list) != 0 {
				t.Fatalf("expected untouched store, got %d accounts", len(list))
			}
		})
	}
}

// TestBatchUseCase_RejectionTouchesNoState proves the structural gate
// runs before the engine sees any record: no repository method may be
// called when the batch is rejected.
func TestBatchUseCase_RejectionTouchesNoState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return("01TESTBATCH")

	engine := usecase.NewEngine(ledgerRepo, accountRepo, zerolog.Nop(), nil)
	batch := usecase.NewBatchUseCase(engine, accountRepo, idGen, zerolog.Nop(), nil)

	records := []domain.Record{
		deposit(1, 1, amt(t, "10")),
		{Kind: domain.KindDeposit, ClientID: 1, TxID: 2}, // missing amount
	}

	_, err := batch.Process(context.Background(), records)
	if !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

// TestBatchUseCase_DisputeCallSequence pins the engine's interaction
// with the ledger during a dispute: lookup, then a single transition
// to disputed, then the account write.
func TestBatchUseCase_DisputeCallSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)

	account := domain.NewAccount(1)
	account.Available = amt(t, "10")
	entry := &domain.Entry{TxID: 1, ClientID: 1, Amount: amt(t, "10"), Status: domain.StatusNormal}

	accountRepo.EXPECT().GetOrCreate(gomock.Any(), uint16(1)).Return(account, nil)
	lookup := ledgerRepo.EXPECT().Lookup(gomock.Any(), uint32(1)).Return(entry, nil)
	transition := ledgerRepo.EXPECT().
		Transition(gomock.Any(), uint32(1), domain.StatusDisputed).
		Return(nil).
		After(lookup)
	accountRepo.EXPECT().Update(gomock.Any(), account).Return(nil).After(transition)

	engine := usecase.NewEngine(ledgerRepo, accountRepo, zerolog.Nop(), nil)

	if err := engine.Apply(context.Background(), dispute(1, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !account.Available.IsZero() || !account.Held.Equal(amt(t, "10")) {
		t.Fatalf("expected funds moved to held, got available %s held %s", account.Available, account.Held)
	}
}
