package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
)

// dateLayout is the wire format for business dates.
const dateLayout = "2006-01-02"

// EntryLineRequest is one requested line of a transaction entry.
type EntryLineRequest struct {
	AccountNo    string          `json:"accountNo"`
	DrCr         string          `json:"drCr"`
	Currency     string          `json:"currency"`
	FcyAmt       decimal.Decimal `json:"fcyAmt"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	LcyAmt       decimal.Decimal `json:"lcyAmt,omitempty"`
	Reference    string          `json:"reference,omitempty"`
}

// EntryRequest is a request to post a multi-line transaction entry.
type EntryRequest struct {
	ValueDate string             `json:"valueDate"`
	Narration string             `json:"narration,omitempty"`
	Lines     []EntryLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input. A missing value date is passed
// through as the zero time so the validator reports it as one of its own
// ordered checks.
func (r *EntryRequest) ToUseCaseInput() (usecase.EntryInput, error) {
	var valueDate time.Time
	if r.ValueDate != "" {
		parsed, err := time.Parse(dateLayout, r.ValueDate)
		if err != nil {
			return usecase.EntryInput{}, fmt.Errorf("invalid valueDate %q: expected %s", r.ValueDate, dateLayout)
		}
		valueDate = parsed
	}

	lines := make([]usecase.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		drCr, err := domain.ParseDrCr(l.DrCr)
		if err != nil {
			return usecase.EntryInput{}, fmt.Errorf("line %d: %w", i+1, err)
		}

		lines[i] = usecase.LineInput{
			AccountNo:    l.AccountNo,
			DrCr:         drCr,
			Currency:     l.Currency,
			FcyAmt:       l.FcyAmt,
			ExchangeRate: l.ExchangeRate,
			LcyAmt:       l.LcyAmt,
			Reference:    l.Reference,
		}
	}

	return usecase.EntryInput{
		ValueDate: valueDate,
		Narration: r.Narration,
		Lines:     lines,
	}, nil
}

// OpenCustomerAccountRequest is a request to open a customer account.
type OpenCustomerAccountRequest struct {
	CustomerID   int64  `json:"customerId"`
	SubProductID string `json:"subProductId"`
	Name         string `json:"name"`
	Currency     string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenCustomerAccountRequest) ToUseCaseInput() usecase.OpenCustomerAccountInput {
	return usecase.OpenCustomerAccountInput{
		CustomerID:   r.CustomerID,
		SubProductID: r.SubProductID,
		Name:         r.Name,
		Currency:     r.Currency,
	}
}

// OpenOfficeAccountRequest is a request to open an office (GL) account.
type OpenOfficeAccountRequest struct {
	SubProductID  string `json:"subProductId"`
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	ReconRequired bool   `json:"reconRequired"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenOfficeAccountRequest) ToUseCaseInput() usecase.OpenOfficeAccountInput {
	return usecase.OpenOfficeAccountInput{
		SubProductID:  r.SubProductID,
		Name:          r.Name,
		Currency:      r.Currency,
		ReconRequired: r.ReconRequired,
	}
}
