package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DrCr is the debit/credit flag of a transaction line.
// The canonical wire encoding is "D"/"C"; the long forms "DEBIT"/"CREDIT"
// used by older clients are accepted on parse.
type DrCr string

const (
	Debit  DrCr = "D"
	Credit DrCr = "C"
)

// ParseDrCr normalizes a debit/credit flag.
func ParseDrCr(s string) (DrCr, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "D", "DEBIT", "DR":
		return Debit, nil
	case "C", "CREDIT", "CR":
		return Credit, nil
	default:
		return "", fmt.Errorf("invalid drCr flag %q", s)
	}
}

// Sign returns the signed multiplier for the balance convention:
// credit +1, debit -1.
func (d DrCr) Sign() decimal.Decimal {
	if d == Credit {
		return decimal.NewFromInt(1)
	}

	return decimal.NewFromInt(-1)
}

// TranStatus is the lifecycle status of a transaction.
type TranStatus string

const (
	TranEntry    TranStatus = "ENTRY"
	TranPosted   TranStatus = "POSTED"
	TranVerified TranStatus = "VERIFIED"
)

// TransactionLine is one debit or credit entry within a transaction.
type TransactionLine struct {
	LineID       string // tranID-n, 1-based
	AccountNo    string
	DrCr         DrCr
	Currency     string
	FcyAmt       decimal.Decimal
	ExchangeRate decimal.Decimal
	LcyAmt       decimal.Decimal // always the recomputed amount
	BalanceAfter decimal.Decimal
	Reference    string
}

// SignedDelta is the line's effect on its account balance in local currency.
func (l *TransactionLine) SignedDelta() decimal.Decimal {
	return l.LcyAmt.Mul(l.DrCr.Sign())
}

// Transaction is an immutable, balanced set of ledger lines persisted in
// one atomic posting. Corrections are made by posting offsetting
// transactions, never by mutating an existing one.
type Transaction struct {
	TranID    string
	ValueDate time.Time
	EntryDate time.Time
	EntryTime time.Time
	Narration string
	Status    TranStatus
	Lines     []TransactionLine
	CreatedAt time.Time
}

// CheckBalanced verifies that for every currency present among the lines
// the debit LCY total equals the credit LCY total within AmountEpsilon.
func CheckBalanced(lines []TransactionLine) error {
	type totals struct{ debit, credit decimal.Decimal }

	byCcy := make(map[string]*totals)
	for i := range lines {
		t := byCcy[lines[i].Currency]
		if t == nil {
			t = &totals{debit: decimal.Zero, credit: decimal.Zero}
			byCcy[lines[i].Currency] = t
		}

		if lines[i].DrCr == Debit {
			t.debit = t.debit.Add(lines[i].LcyAmt)
		} else {
			t.credit = t.credit.Add(lines[i].LcyAmt)
		}
	}

	for ccy, t := range byCcy {
		if !WithinEpsilon(t.debit, t.credit) {
			return fmt.Errorf("%w: %s debits %s, credits %s",
				ErrUnbalanced, ccy, t.debit.StringFixed(2), t.credit.StringFixed(2))
		}
	}

	return nil
}
