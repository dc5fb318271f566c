package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/adapter/http/dto"
	"github.com/mmkt/moneymarket/internal/adapter/http/handler"
	apimiddleware "github.com/mmkt/moneymarket/internal/adapter/http/middleware"
	"github.com/mmkt/moneymarket/internal/adapter/repository/memory"
	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
	"github.com/mmkt/moneymarket/internal/usecase/mocks"
)

type stubIdempotencyStore struct {
	checkCalled  bool
	updateCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updateCalled = true
	return nil
}

// newRouterConfig wires the full stack over the in-memory store so router
// tests exercise real handlers end to end.
func newRouterConfig(t *testing.T, overrides ...func(cfg *RouterConfig)) RouterConfig {
	t.Helper()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	tranRepo := memory.NewTransactionRepository(store)
	subRepo := memory.NewSubProductRepository(store)
	seqRepo := memory.NewSequenceRepository(store)
	eodRepo := memory.NewEODRunRepository(store)

	ctx := context.Background()
	for _, sp := range []*domain.SubProduct{
		{ID: "SB-001", Name: "Savings", GLNum: "110101001", Status: domain.SubProductActive,
			InterestBearing: true, InterestRate: decimal.RequireFromString("3.65")},
		{ID: "OF-001", Name: "Interest Expense", GLNum: "610101001", Status: domain.SubProductActive},
	} {
		if err := subRepo.Create(ctx, sp); err != nil {
			t.Fatalf("failed to seed sub-product: %v", err)
		}
	}

	postingUC := usecase.NewPostingUseCase(txManager, accountRepo, tranRepo, subRepo, mocks.NewMockIDGenerator())
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, subRepo, seqRepo)
	eodUC := usecase.NewEODUseCase(postingUC, accountRepo, subRepo, eodRepo, "961010100101", zerolog.Nop(), nil)

	cfg := RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(postingUC),
		EODHandler:         handler.NewEODHandler(eodUC),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
		Logger:             zerolog.Nop(),
	}

	for _, override := range overrides {
		override(&cfg)
	}

	return cfg
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_HealthEndpointsAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	for _, path := range []string{"/health", "/ready"} {
		rec := doJSON(t, router, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected %s to return 200, got %d", path, rec.Code)
		}
	}
}

func TestNewRouter_FullPostingFlow(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	// Open an office funding account and a customer account.
	rec := doJSON(t, router, http.MethodPost, "/api/accounts/office",
		`{"subProductId":"OF-001","name":"Interest Expense","currency":"USD","reconRequired":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected office account 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var office dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &office); err != nil {
		t.Fatalf("failed to decode office account: %v", err)
	}
	if office.AccountNo != "961010100101" {
		t.Fatalf("expected office account number 961010100101, got %s", office.AccountNo)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/accounts/customer",
		`{"customerId":7,"subProductId":"SB-001","name":"Savings","currency":"USD"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected customer account 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var customer dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &customer); err != nil {
		t.Fatalf("failed to decode customer account: %v", err)
	}
	if customer.AccountNo != "000000071001" {
		t.Fatalf("expected customer account number 000000071001, got %s", customer.AccountNo)
	}

	// Fund the customer from the office account; office balances may go
	// negative. Accounts open "today", so the value date must be today too.
	today := time.Now().UTC().Format("2006-01-02")
	entry := `{"valueDate":"` + today + `","narration":"initial funding","lines":[
		{"accountNo":"` + office.AccountNo + `","drCr":"D","currency":"USD","fcyAmt":"250.00","exchangeRate":"1"},
		{"accountNo":"` + customer.AccountNo + `","drCr":"C","currency":"USD","fcyAmt":"250.00","exchangeRate":"1"}]}`

	rec = doJSON(t, router, http.MethodPost, "/api/transactions/entry", entry)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected entry 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var receipt dto.ReceiptResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("failed to decode receipt: %v", err)
	}
	if !receipt.Balances[customer.AccountNo].Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("expected customer balance 250.00, got %s", receipt.Balances[customer.AccountNo])
	}

	// The posted transaction is queryable by id and by account.
	rec = doJSON(t, router, http.MethodGet, "/api/transactions/"+receipt.Transaction.TranID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected transaction lookup 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/accounts/"+customer.AccountNo+"/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected account transactions 200, got %d", rec.Code)
	}

	var page dto.PageResponse[*dto.TransactionResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if page.TotalElements != 1 {
		t.Fatalf("expected 1 transaction for account, got %d", page.TotalElements)
	}

	// End-of-day accrues interest for the funded account.
	rec = doJSON(t, router, http.MethodPost, "/api/admin/run-eod?date="+today, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected eod run 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var run dto.EODRunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("failed to decode eod run: %v", err)
	}
	if run.Status != "COMPLETED" || run.ProcessedCount != 1 {
		t.Fatalf("unexpected eod run: %+v", run)
	}

	// A second run for the same date conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/admin/run-eod?date="+today, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected repeated eod run 409, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/admin/eod-runs/latest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected latest eod run 200, got %d", rec.Code)
	}
}

func TestNewRouter_UnbalancedEntryRejected(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	doJSON(t, router, http.MethodPost, "/api/accounts/office",
		`{"subProductId":"OF-001","name":"Suspense","currency":"USD"}`)
	doJSON(t, router, http.MethodPost, "/api/accounts/customer",
		`{"customerId":8,"subProductId":"SB-001","name":"Savings","currency":"USD"}`)

	entry := `{"valueDate":"` + time.Now().UTC().Format("2006-01-02") + `","lines":[
		{"accountNo":"961010100101","drCr":"D","currency":"USD","fcyAmt":"100.00","exchangeRate":"1"},
		{"accountNo":"000000081001","drCr":"C","currency":"USD","fcyAmt":"99.99","exchangeRate":"1"}]}`

	rec := doJSON(t, router, http.MethodPost, "/api/transactions/entry", entry)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected unbalanced entry 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/validate", strings.NewReader(`{"lines":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_UnknownRouteReturns404(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := doJSON(t, router, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
