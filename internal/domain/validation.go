package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrInvalidNarration = errors.New("invalid narration")
	ErrInvalidSort      = errors.New("invalid sort token")
)

// Validation constants
const (
	MaxNarrationLength = 255
	DefaultPageSize    = 20
	MaxPageSize        = 100
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "AED": true, "TRY": true, "HKD": true,
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateNarration validates a free-text narration.
func ValidateNarration(narration string) error {
	if len(narration) > MaxNarrationLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidNarration, MaxNarrationLength)
	}

	return nil
}

// SortDirection is the direction component of a sort token.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PageRequest is the pagination contract of the query layer: zero-based
// page index, fixed page size, optional "field,direction" sort token.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	SortDir   SortDirection
}

// Offset returns the row offset of the page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// NormalizePage clamps pagination parameters to sane bounds.
func NormalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}

	if size <= 0 {
		size = DefaultPageSize
	}

	if size > MaxPageSize {
		size = MaxPageSize
	}

	return page, size
}

// ParseSort parses a "field,direction" sort token against a set of
// sortable fields. An empty token yields the fallback field descending.
func ParseSort(token, fallback string, sortable map[string]bool) (string, SortDirection, error) {
	if token == "" {
		return fallback, SortDesc, nil
	}

	parts := strings.SplitN(token, ",", 2)
	field := strings.TrimSpace(parts[0])
	if !sortable[field] {
		return "", "", fmt.Errorf("%w: field %q is not sortable", ErrInvalidSort, field)
	}

	dir := SortAsc
	if len(parts) == 2 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "asc":
			dir = SortAsc
		case "desc":
			dir = SortDesc
		default:
			return "", "", fmt.Errorf("%w: direction %q", ErrInvalidSort, parts[1])
		}
	}

	return field, dir, nil
}

// Page is one page of query results together with the total element count.
type Page[T any] struct {
	Content       []T
	TotalElements int64
	Page          int
	Size          int
}
