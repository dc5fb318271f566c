package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmkt/moneymarket/internal/adapter/http/dto"
	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
)

// transactionSortable is the set of sort fields the transaction queries accept.
var transactionSortable = map[string]bool{
	"tranId":    true,
	"valueDate": true,
	"entryTime": true,
}

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Validate(ctx context.Context, input usecase.EntryInput) (*usecase.ValidatedTransaction, error)
	Post(ctx context.Context, vt *usecase.ValidatedTransaction) (*usecase.Receipt, error)
	GetTransaction(ctx context.Context, tranID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Transaction], error)
	ListTransactionsByAccount(ctx context.Context, accountNo string, page domain.PageRequest) (*domain.Page[*domain.Transaction], error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	postingUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(postingUC TransactionService) *TransactionHandler {
	return &TransactionHandler{postingUC: postingUC}
}

// CreateEntry validates and posts a multi-line transaction entry.
func (h *TransactionHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry request", err.Error())
		return
	}

	vt, err := h.postingUC.Validate(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "entry validation failed", err.Error())
		return
	}

	receipt, err := h.postingUC.Post(r.Context(), vt)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReceiptFromUseCase(receipt))
}

// ValidateEntry runs the validation checks without posting.
func (h *TransactionHandler) ValidateEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry request", err.Error())
		return
	}

	if _, err := h.postingUC.Validate(r.Context(), input); err != nil {
		writeError(w, mapDomainError(err), "entry validation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"lines": len(input.Lines),
	})
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tranID := chi.URLParam(r, "tranId")
	if tranID == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.postingUC.GetTransaction(r.Context(), tranID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// List lists transactions, newest first by default.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r, "entryTime", transactionSortable)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pagination", err.Error())
		return
	}

	result, err := h.postingUC.ListTransactions(r.Context(), page)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PageFromDomain(result, dto.TransactionFromDomain))
}

// ListByAccount lists transactions touching one account.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "accountNo")
	if accountNo == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	page, err := parsePageRequest(r, "entryTime", transactionSortable)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pagination", err.Error())
		return
	}

	result, err := h.postingUC.ListTransactionsByAccount(r.Context(), accountNo, page)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PageFromDomain(result, dto.TransactionFromDomain))
}
