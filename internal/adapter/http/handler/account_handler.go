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

// accountSortable is the set of sort fields the account queries accept.
var accountSortable = map[string]bool{
	"accountNo": true,
	"openDate":  true,
	"name":      true,
}

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenCustomerAccount(ctx context.Context, input usecase.OpenCustomerAccountInput) (*domain.Account, error)
	OpenOfficeAccount(ctx context.Context, input usecase.OpenOfficeAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, accountNo string) (*domain.Account, error)
	ListAccounts(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Account], error)
	CloseAccount(ctx context.Context, accountNo string) (*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// OpenCustomer opens a customer account.
func (h *AccountHandler) OpenCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenCustomerAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.OpenCustomerAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// OpenOffice opens an office (GL) account.
func (h *AccountHandler) OpenOffice(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenOfficeAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.OpenOfficeAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "accountNo")
	if accountNo == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), accountNo)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r, "openDate", accountSortable)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pagination", err.Error())
		return
	}

	result, err := h.accountUC.ListAccounts(r.Context(), page)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PageFromDomain(result, dto.AccountFromDomain))
}

// Close closes an account. The balance must be zero.
func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "accountNo")
	if accountNo == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	account, err := h.accountUC.CloseAccount(r.Context(), accountNo)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to close account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
