package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind distinguishes customer accounts from office (GL) accounts.
type AccountKind string

const (
	KindCustomer AccountKind = "CUSTOMER"
	KindOffice   AccountKind = "OFFICE"
)

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
	StatusDormant  AccountStatus = "DORMANT"
	StatusClosed   AccountStatus = "CLOSED"
)

// Account is a ledger account holding a running balance.
//
// Balance convention: balances are held from the account holder's
// perspective. A credit line applies +LCY to the balance, a debit line
// applies -LCY, uniformly for customer and office accounts.
type Account struct {
	AccountNo        string
	Name             string
	Kind             AccountKind
	CustomerID       *int64 // nil for office accounts
	SubProductID     string
	GLNum            string
	Currency         string
	Balance          decimal.Decimal
	AvailableBalance decimal.Decimal
	InterestAccrued  decimal.Decimal
	Status           AccountStatus
	AllowOverdraft   bool
	ReconRequired    bool // office accounts only
	OpenDate         time.Time
	CloseDate        *time.Time
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Postable reports whether lines may be posted against the account.
func (a *Account) Postable() bool {
	return a.Status == StatusActive
}

// ApplyDelta returns the balance after applying a signed delta
// (+ for credit, - for debit).
func (a *Account) ApplyDelta(delta decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(delta)
}

// ValidateDelta checks whether a signed delta may be applied. Office
// accounts and overdraft-enabled customer accounts may go negative;
// everything else must keep a non-negative balance.
func (a *Account) ValidateDelta(delta decimal.Decimal) error {
	if !a.Postable() {
		return ErrAccountNotPostable
	}

	newBalance := a.Balance.Add(delta)
	if newBalance.IsNegative() && !a.canGoNegative() {
		return ErrInsufficientFunds
	}

	return nil
}

// CanClose checks the closure invariant: only an ACTIVE account with a
// zero balance may transition to CLOSED.
func (a *Account) CanClose() error {
	if a.Status == StatusClosed {
		return ErrAccountNotPostable
	}
	if a.Status != StatusActive {
		return ErrAccountNotPostable
	}
	if !a.Balance.IsZero() {
		return ErrNonZeroBalance
	}

	return nil
}

func (a *Account) canGoNegative() bool {
	return a.Kind == KindOffice || a.AllowOverdraft
}
