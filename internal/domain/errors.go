package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNotPostable  = errors.New("account is not in a postable state")
	ErrNonZeroBalance      = errors.New("account balance must be zero to close")
	ErrInsufficientFunds   = errors.New("insufficient available balance")
	ErrAccountSeqExhausted = errors.New("account number sequence exhausted")

	// Transaction validation errors
	ErrTooFewLines         = errors.New("transaction requires at least two lines")
	ErrValueDateBeforeOpen = errors.New("value date precedes account open date")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidExchangeRate = errors.New("exchange rate must be positive")
	ErrAmountMismatch      = errors.New("local amount does not match fcy amount times exchange rate")
	ErrUnbalanced          = errors.New("debit total does not equal credit total")
	ErrCurrencyMismatch    = errors.New("line currency does not match account currency")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyPosted       = errors.New("validated transaction has already been posted")

	// Sub-product errors
	ErrSubProductNotFound = errors.New("sub-product not found")
	ErrSubProductInactive = errors.New("sub-product is not active")

	// EOD errors
	ErrEODAlreadyRun  = errors.New("eod already completed for date")
	ErrEODInFlight    = errors.New("another eod run is in progress")
	ErrEODRunNotFound = errors.New("eod run not found")
)
