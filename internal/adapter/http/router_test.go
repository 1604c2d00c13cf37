package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/finkit/corebank/internal/adapter/http/handler"
	"github.com/finkit/corebank/internal/adapter/http/middleware"
	"github.com/finkit/corebank/internal/usecase"
	"github.com/finkit/corebank/internal/usecase/mocks"
)

func newRouterConfig(t *testing.T, opts ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	txManager := mocks.NewMockTransactionManager()
	accountRepo := mocks.NewMockAccountRepository()
	journalRepo := mocks.NewMockJournalRepository()
	movementRepo := mocks.NewMockMovementRepository()
	limitRepo := mocks.NewMockLimitRepository()
	idGen := mocks.NewMockIDGenerator()

	pricing := usecase.NewPricingUseCase(mocks.NewMockRuleRepository())
	limits := usecase.NewLimitUseCase(txManager, limitRepo)
	ledger := usecase.NewLedgerUseCase(txManager, accountRepo, journalRepo, idGen)
	movements := usecase.NewMovementUseCase(
		txManager, movementRepo, pricing, limits, ledger, idGen,
		mocks.NewMockRetrier(), usecase.MovementConfig{},
	)
	recon := usecase.NewReconciliationUseCase(accountRepo, journalRepo, movementRepo, limits, ledger)

	cfg := RouterConfig{
		PricingHandler:        handler.NewPricingHandler(pricing),
		MovementHandler:       handler.NewMovementHandler(movements),
		LedgerHandler:         handler.NewLedgerHandler(ledger),
		LimitHandler:          handler.NewLimitHandler(limits),
		AccrualHandler:        handler.NewAccrualHandler(nil),
		ReconciliationHandler: handler.NewReconciliationHandler(recon, 15*time.Minute),
		HealthHandler:         handler.NewHealthHandler(nil, nil),
		Logger:                zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_QuoteEndpoint(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	body := `{"amount":"50000","currency":"NGN","direction":"outward"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total":"0.00"`) {
		t.Errorf("expected a zero-charge quote, got %s", rec.Body.String())
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"amount":"100","currency":"NGN","direction":"outward"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatal("expected idempotency store to be used")
	}
}

func TestNewRouter_IdempotentReplay(t *testing.T) {
	store := &stubIdempotencyStore{
		existing: []byte(`{"cached":true}`),
	}
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"amount":"100","currency":"NGN","direction":"outward"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Idempotency-Replay") != "true" {
		t.Error("expected replay header")
	}
	if rec.Body.String() != `{"cached":true}` {
		t.Errorf("expected cached body, got %s", rec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/pricing/quote",
		"POST /api/v1/movements/",
		"GET /api/v1/movements/{id}",
		"POST /api/v1/batches/",
		"GET /api/v1/batches/{ref}",
		"POST /api/v1/batches/{ref}/reverse",
		"GET /api/v1/accounts/{code}/balance",
		"GET /api/v1/accounts/{code}/journal",
		"POST /api/v1/accounts/{code}/accrue",
		"GET /api/v1/accounts/{code}/accruals",
		"POST /api/v1/limits/reset-due",
		"GET /api/v1/limits/{userID}",
		"GET /api/v1/ledger/consistency",
		"GET /api/v1/reconciliation/report",
		"POST /api/v1/reconciliation/release-stale",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_MovementCreateAndGet(t *testing.T) {
	cfg := newRouterConfig(t)
	router := NewRouter(cfg)

	// Unknown movement gives a mapped not-found error.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/movements/none", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "movement not found") {
		t.Errorf("expected error detail, got %s", rec.Body.String())
	}
}

type stubIdempotencyStore struct {
	checkCalled bool
	existing    []byte
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	if s.existing != nil {
		return true, s.existing, nil
	}
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
