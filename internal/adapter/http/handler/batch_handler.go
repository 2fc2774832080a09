package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/quayside/payengine/internal/adapter/csvio"
	"github.com/quayside/payengine/internal/domain"
	"github.com/quayside/payengine/internal/usecase"
)

// BatchService processes one batch of records against fresh state.
type BatchService interface {
	Process(ctx context.Context, records []domain.Record) (*usecase.BatchResult, error)
}

// BatchHandler accepts CSV batches over HTTP and returns the final
// account snapshot as CSV. Every request is an independent run: the
// factory builds a service with fresh ledger and account stores.
type BatchHandler struct {
	newService   func() BatchService
	maxBodyBytes int64
	logger       zerolog.Logger
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(newService func() BatchService, maxBodyBytes int64, logger zerolog.Logger) *BatchHandler {
	return &BatchHandler{
		newService:   newService,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Submit processes one CSV batch body.
func (h *BatchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	records, err := csvio.ReadAll(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "batch rejected", err.Error())
		return
	}

	result, err := h.newService().Process(r.Context(), records)
	if err != nil {
		writeError(w, mapDomainError(err), "batch rejected", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("X-Batch-Id", result.BatchID)
	w.Header().Set("X-Records-Applied", strconv.Itoa(result.Applied))
	w.Header().Set("X-Records-Skipped", strconv.Itoa(len(result.Skipped)))
	w.WriteHeader(http.StatusOK)

	if err := csvio.WriteAll(w, result.Accounts); err != nil {
		h.logger.Error().Err(err).Str("batch_id", result.BatchID).Msg("failed to write snapshot")
	}
}
