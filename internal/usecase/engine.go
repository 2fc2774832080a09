package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quayside/payengine/internal/domain"
	"github.com/quayside/payengine/internal/infrastructure/metrics"
)

// Engine applies records one at a time, strictly in input order,
// against the ledger and the account store. Every failure it returns
// is semantic: the caller skips the record and continues.
type Engine struct {
	ledgerRepo  LedgerRepository
	accountRepo AccountRepository
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewEngine creates an Engine. metrics may be nil.
func NewEngine(
	ledgerRepo LedgerRepository,
	accountRepo AccountRepository,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *Engine {
	return &Engine{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		logger:      logger,
		metrics:     m,
	}
}

// Apply validates and applies one record. A nil return means the
// record's effect is in the account store. A non-nil return means the
// record was skipped and no state changed; the error wraps one of the
// domain sentinel errors.
func (e *Engine) Apply(ctx context.Context, rec domain.Record) error {
	var err error

	switch rec.Kind {
	case domain.KindDeposit:
		err = e.applyDeposit(ctx, rec)
	case domain.KindWithdrawal:
		err = e.applyWithdrawal(ctx, rec)
	case domain.KindDispute:
		err = e.applyDispute(ctx, rec)
	case domain.KindResolve:
		err = e.applyResolve(ctx, rec)
	case domain.KindChargeback:
		err = e.applyChargeback(ctx, rec)
	default:
		// Unreachable after structural validation.
		err = fmt.Errorf("%w: unhandled record kind", domain.ErrMalformedRecord)
	}

	if err != nil {
		e.logger.Warn().
			Str("kind", rec.Kind.String()).
			Uint32("tx", rec.TxID).
			Uint16("client", rec.ClientID).
			Str("reason", domain.ReasonCode(err)).
			Err(err).
			Msg("record skipped")

		if e.metrics != nil {
			e.metrics.RecordsSkipped.WithLabelValues(rec.Kind.String(), domain.ReasonCode(err)).Inc()
		}
		return err
	}

	e.logger.Debug().
		Str("kind", rec.Kind.String()).
		Uint32("tx", rec.TxID).
		Uint16("client", rec.ClientID).
		Msg("record applied")

	if e.metrics != nil {
		e.metrics.RecordsApplied.WithLabelValues(rec.Kind.String()).Inc()
	}
	return nil
}

// applyDeposit credits available funds and creates the ledger entry
// that later disputes act against. Deposits into locked accounts are
// permitted: nothing in the rules forbids crediting a frozen account.
func (e *Engine) applyDeposit(ctx context.Context, rec domain.Record) error {
	account, err := e.accountRepo.GetOrCreate(ctx, rec.ClientID)
	if err != nil {
		return err
	}

	entry := &domain.Entry{
		TxID:     rec.TxID,
		ClientID: rec.ClientID,
		Amount:   rec.Amount,
		Status:   domain.StatusNormal,
	}
	if err := e.ledgerRepo.RecordDeposit(ctx, entry); err != nil {
		return err
	}

	account.Deposit(rec.Amount)
	return e.accountRepo.Update(ctx, account)
}

// applyWithdrawal debits available funds. The tx id is reserved at
// duplicate-check time, before the lock and funds checks, so a skipped
// withdrawal still consumes its id.
func (e *Engine) applyWithdrawal(ctx context.Context, rec domain.Record) error {
	account, err := e.accountRepo.GetOrCreate(ctx, rec.ClientID)
	if err != nil {
		return err
	}

	if err := e.ledgerRepo.RecordWithdrawal(ctx, rec.TxID); err != nil {
		return err
	}

	if account.Locked {
		return domain.ErrAccountLocked
	}
	if err := account.Withdraw(rec.Amount); err != nil {
		return err
	}
	return e.accountRepo.Update(ctx, account)
}

// applyDispute moves the disputed deposit's amount from available to
// held. Requires the entry to exist, belong to the record's client,
// and still be in its normal state; the account must be unlocked and
// have enough available funds to cover the hold.
func (e *Engine) applyDispute(ctx context.Context, rec domain.Record) error {
	account, entry, err := e.lookupDisputed(ctx, rec)
	if err != nil {
		return err
	}

	if entry.Status != domain.StatusNormal {
		return fmt.Errorf("%w: tx %d is %s", domain.ErrInvalidState, rec.TxID, entry.Status)
	}
	if err := account.HoldFunds(entry.Amount); err != nil {
		return err
	}
	if err := e.ledgerRepo.Transition(ctx, rec.TxID, domain.StatusDisputed); err != nil {
		return err
	}
	return e.accountRepo.Update(ctx, account)
}

// applyResolve releases a disputed transaction's held funds back to
// available and retires the dispute.
func (e *Engine) applyResolve(ctx context.Context, rec domain.Record) error {
	account, entry, err := e.lookupDisputed(ctx, rec)
	if err != nil {
		return err
	}

	if entry.Status != domain.StatusDisputed {
		return fmt.Errorf("%w: tx %d is %s", domain.ErrInvalidState, rec.TxID, entry.Status)
	}
	if err := account.ReleaseHold(entry.Amount); err != nil {
		return err
	}
	if err := e.ledgerRepo.Transition(ctx, rec.TxID, domain.StatusResolved); err != nil {
		return err
	}
	return e.accountRepo.Update(ctx, account)
}

// applyChargeback withdraws a disputed transaction's held funds and
// locks the account. Terminal: a charged-back transaction cannot be
// disputed again.
func (e *Engine) applyChargeback(ctx context.Context, rec domain.Record) error {
	account, entry, err := e.lookupDisputed(ctx, rec)
	if err != nil {
		return err
	}

	if entry.Status != domain.StatusDisputed {
		return fmt.Errorf("%w: tx %d is %s", domain.ErrInvalidState, rec.TxID, entry.Status)
	}
	if err := account.ChargeBack(entry.Amount); err != nil {
		return err
	}
	if err := e.ledgerRepo.Transition(ctx, rec.TxID, domain.StatusChargedBack); err != nil {
		return err
	}

	if e.metrics != nil {
		e.metrics.AccountsLocked.Inc()
	}
	return e.accountRepo.Update(ctx, account)
}

// lookupDisputed performs the shared preconditions for dispute,
// resolve and chargeback: the referenced entry must exist, belong to
// the record's client, and the account must not be locked.
func (e *Engine) lookupDisputed(ctx context.Context, rec domain.Record) (*domain.Account, *domain.Entry, error) {
	account, err := e.accountRepo.GetOrCreate(ctx, rec.ClientID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := e.ledgerRepo.Lookup(ctx, rec.TxID)
	if err != nil {
		return nil, nil, err
	}
	if entry.ClientID != rec.ClientID {
		return nil, nil, fmt.Errorf("%w: tx %d belongs to client %d", domain.ErrClientMismatch, rec.TxID, entry.ClientID)
	}
	if account.Locked {
		return nil, nil, domain.ErrAccountLocked
	}
	return account, entry, nil
}
