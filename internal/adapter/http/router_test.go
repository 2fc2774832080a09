package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quayside/payengine/internal/adapter/http/handler"
	"github.com/quayside/payengine/internal/adapter/repository/memory"
	"github.com/quayside/payengine/internal/usecase"
)

func newTestRouter() http.Handler {
	newService := func() handler.BatchService {
		ledger := memory.NewLedgerRepository()
		accounts := memory.NewAccountRepository()
		engine := usecase.NewEngine(ledger, accounts, zerolog.Nop(), nil)
		return usecase.NewBatchUseCase(engine, accounts, memory.NewULIDGenerator(), zerolog.Nop(), nil)
	}

	return NewRouter(RouterConfig{
		BatchHandler:  handler.NewBatchHandler(newService, 1<<20, zerolog.Nop()),
		HealthHandler: handler.NewHealthHandler(),
		Logger:        zerolog.Nop(),
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_SubmitBatch(t *testing.T) {
	router := newTestRouter()

	body := "type,client,tx,amount\ndeposit,3,1,7.77\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := "client,available,held,total,locked\n3,7.77,0,7.77,false\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected snapshot:\n%s", rec.Body.String())
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
