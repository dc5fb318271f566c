package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountNo        string          `json:"accountNo"`
	Name             string          `json:"name"`
	Kind             string          `json:"kind"`
	CustomerID       *int64          `json:"customerId,omitempty"`
	SubProductID     string          `json:"subProductId"`
	GLNum            string          `json:"glNum"`
	Currency         string          `json:"currency"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	InterestAccrued  decimal.Decimal `json:"interestAccrued"`
	Status           string          `json:"status"`
	AllowOverdraft   bool            `json:"allowOverdraft"`
	ReconRequired    bool            `json:"reconRequired,omitempty"`
	OpenDate         string          `json:"openDate"`
	CloseDate        string          `json:"closeDate,omitempty"`
	Version          int64           `json:"version"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	resp := &AccountResponse{
		AccountNo:        a.AccountNo,
		Name:             a.Name,
		Kind:             string(a.Kind),
		CustomerID:       a.CustomerID,
		SubProductID:     a.SubProductID,
		GLNum:            a.GLNum,
		Currency:         a.Currency,
		Balance:          a.Balance,
		AvailableBalance: a.AvailableBalance,
		InterestAccrued:  a.InterestAccrued,
		Status:           string(a.Status),
		AllowOverdraft:   a.AllowOverdraft,
		ReconRequired:    a.ReconRequired,
		OpenDate:         a.OpenDate.Format(dateLayout),
		Version:          a.Version,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	if a.CloseDate != nil {
		resp.CloseDate = a.CloseDate.Format(dateLayout)
	}

	return resp
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionLineResponse represents a transaction line in API responses.
type TransactionLineResponse struct {
	LineID       string          `json:"lineId"`
	AccountNo    string          `json:"accountNo"`
	DrCr         string          `json:"drCr"`
	Currency     string          `json:"currency"`
	FcyAmt       decimal.Decimal `json:"fcyAmt"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	LcyAmt       decimal.Decimal `json:"lcyAmt"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Reference    string          `json:"reference,omitempty"`
}

// TransactionResponse represents a posted transaction in API responses.
type TransactionResponse struct {
	TranID    string                    `json:"tranId"`
	ValueDate string                    `json:"valueDate"`
	EntryDate string                    `json:"entryDate"`
	EntryTime time.Time                 `json:"entryTime"`
	Narration string                    `json:"narration,omitempty"`
	Status    string                    `json:"status"`
	Lines     []TransactionLineResponse `json:"lines"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	lines := make([]TransactionLineResponse, len(t.Lines))
	for i, l := range t.Lines {
		lines[i] = TransactionLineResponse{
			LineID:       l.LineID,
			AccountNo:    l.AccountNo,
			DrCr:         string(l.DrCr),
			Currency:     l.Currency,
			FcyAmt:       l.FcyAmt,
			ExchangeRate: l.ExchangeRate,
			LcyAmt:       l.LcyAmt,
			BalanceAfter: l.BalanceAfter,
			Reference:    l.Reference,
		}
	}

	return &TransactionResponse{
		TranID:    t.TranID,
		ValueDate: t.ValueDate.Format(dateLayout),
		EntryDate: t.EntryDate.Format(dateLayout),
		EntryTime: t.EntryTime,
		Narration: t.Narration,
		Status:    string(t.Status),
		Lines:     lines,
		CreatedAt: t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ReceiptResponse is the result of a posting: the generated transaction plus
// the resulting balance of every touched account.
type ReceiptResponse struct {
	Transaction *TransactionResponse       `json:"transaction"`
	Balances    map[string]decimal.Decimal `json:"balances"`
}

// ReceiptFromUseCase converts a posting receipt to a response.
func ReceiptFromUseCase(r *usecase.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		Balances:    r.Balances,
	}
}

// AccrualFailureResponse is one per-account failure of an end-of-day run.
type AccrualFailureResponse struct {
	AccountNo string `json:"accountNo"`
	Reason    string `json:"reason"`
}

// EODRunResponse represents an end-of-day run in API responses.
type EODRunResponse struct {
	Date           string                   `json:"date"`
	Status         string                   `json:"status"`
	ProcessedCount int                      `json:"processedCount"`
	Failures       []AccrualFailureResponse `json:"failures,omitempty"`
	StartedAt      time.Time                `json:"startedAt"`
	FinishedAt     *time.Time               `json:"finishedAt,omitempty"`
}

// EODRunFromDomain converts a domain end-of-day run to a response.
func EODRunFromDomain(run *domain.EODRun) *EODRunResponse {
	resp := &EODRunResponse{
		Date:           run.RunDate.Format(dateLayout),
		Status:         string(run.Status),
		ProcessedCount: run.ProcessedCount,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}

	for _, f := range run.Failures {
		resp.Failures = append(resp.Failures, AccrualFailureResponse{
			AccountNo: f.AccountNo,
			Reason:    f.Reason,
		})
	}

	return resp
}

// PageResponse is one page of query results.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}

// PageFromDomain converts a domain page using the given element converter.
func PageFromDomain[D, R any](p *domain.Page[D], conv func(D) R) PageResponse[R] {
	content := make([]R, len(p.Content))
	for i, el := range p.Content {
		content[i] = conv(el)
	}

	return PageResponse[R]{
		Content:       content,
		TotalElements: p.TotalElements,
		Page:          p.Page,
		Size:          p.Size,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
