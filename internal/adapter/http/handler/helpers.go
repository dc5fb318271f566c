package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mmkt/moneymarket/internal/adapter/http/dto"
	"github.com/mmkt/moneymarket/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes. Validation
// failures are 422, state conflicts 409, unknown references 404.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrSubProductNotFound),
		errors.Is(err, domain.ErrEODRunNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrAlreadyPosted),
		errors.Is(err, domain.ErrEODAlreadyRun),
		errors.Is(err, domain.ErrEODInFlight),
		errors.Is(err, domain.ErrNonZeroBalance),
		errors.Is(err, domain.ErrAccountSeqExhausted):
		return http.StatusConflict

	case errors.Is(err, domain.ErrTooFewLines),
		errors.Is(err, domain.ErrValueDateBeforeOpen),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidExchangeRate),
		errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrUnbalanced),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidNarration),
		errors.Is(err, domain.ErrAccountNotPostable),
		errors.Is(err, domain.ErrSubProductInactive),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidSort):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parsePageRequest parses page, size and sort query parameters against a
// set of sortable fields.
func parsePageRequest(r *http.Request, fallbackSort string, sortable map[string]bool) (domain.PageRequest, error) {
	page, size := domain.NormalizePage(
		parseIntQuery(r, "page", 0),
		parseIntQuery(r, "size", domain.DefaultPageSize),
	)

	field, dir, err := domain.ParseSort(r.URL.Query().Get("sort"), fallbackSort, sortable)
	if err != nil {
		return domain.PageRequest{}, err
	}

	return domain.PageRequest{
		Page:      page,
		Size:      size,
		SortField: field,
		SortDir:   dir,
	}, nil
}
