package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quayside/payengine/internal/domain"
	"github.com/quayside/payengine/internal/infrastructure/metrics"
)

// Skip records one skipped record and the semantic error that caused
// the skip. Index is the zero-based position within the batch.
type Skip struct {
	Index  int
	Record domain.Record
	Err    error
}

// BatchResult is the outcome of one fully-processed batch: the final
// account snapshot plus per-record accounting.
type BatchResult struct {
	BatchID  string
	Accounts []*domain.Account
	Applied  int
	Skipped  []Skip
}

// BatchUseCase processes one bounded, ordered sequence of records
// atomically with respect to structural validity: if any record is
// malformed the whole batch is rejected before the engine touches any
// state. Semantic failures during application skip individual records.
type BatchUseCase struct {
	engine      *Engine
	accountRepo AccountRepository
	idGen       IDGenerator
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewBatchUseCase creates a BatchUseCase. metrics may be nil.
func NewBatchUseCase(
	engine *Engine,
	accountRepo AccountRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *BatchUseCase {
	return &BatchUseCase{
		engine:      engine,
		accountRepo: accountRepo,
		idGen:       idGen,
		logger:      logger,
		metrics:     m,
	}
}

// Process validates and applies a batch. On structural rejection it
// returns an error wrapping domain.ErrMalformedRecord and guarantees
// no state was mutated. Otherwise it applies every record in order,
// skipping semantic failures, and returns the final snapshot.
func (uc *BatchUseCase) Process(ctx context.Context, records []domain.Record) (*BatchResult, error) {
	batchID := uc.idGen.Generate()
	logger := uc.logger.With().Str("batch_id", batchID).Logger()
	start := time.Now()

	// Structural gate: all-or-nothing, evaluated before any mutation.
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			logger.Error().Int("row", i+1).Err(err).Msg("batch rejected")
			if uc.metrics != nil {
				uc.metrics.BatchesRejected.Inc()
			}
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	result := &BatchResult{BatchID: batchID}
	for i, rec := range records {
		if err := uc.engine.Apply(ctx, rec); err != nil {
			result.Skipped = append(result.Skipped, Skip{Index: i, Record: rec, Err: err})
			continue
		}
		result.Applied++
	}

	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result.Accounts = accounts

	logger.Info().
		Int("records", len(records)).
		Int("applied", result.Applied).
		Int("skipped", len(result.Skipped)).
		Int("accounts", len(accounts)).
		Dur("duration", time.Since(start)).
		Msg("batch processed")

	if uc.metrics != nil {
		uc.metrics.BatchesProcessed.Inc()
		uc.metrics.BatchDuration.Observe(time.Since(start).Seconds())
		// The store is fresh per batch, so every account in the
		// snapshot was created while processing this batch.
		uc.metrics.AccountsCreated.Add(float64(len(accounts)))
	}
	return result, nil
}
