package domain

import "github.com/shopspring/decimal"

// AmountEpsilon is the tolerance used when comparing caller-supplied amounts
// against server-side recomputations and when checking debit/credit totals.
var AmountEpsilon = decimal.NewFromFloat(0.01)

// RoundAmount rounds a monetary amount half-up to 2 decimal places.
// All ledger arithmetic goes through this so that stored amounts never
// carry more precision than the ledger currency supports.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LocalAmount computes the local-currency amount of a line from its
// foreign-currency amount and exchange rate. The result is authoritative;
// caller-supplied LCY amounts are only ever compared against it.
func LocalAmount(fcyAmt, exchangeRate decimal.Decimal) decimal.Decimal {
	return RoundAmount(fcyAmt.Mul(exchangeRate))
}

// DailyInterest computes one day of simple interest on a balance given an
// annual rate expressed as a percentage (3.65 means 3.65% p.a.).
// interest = balance * rate / 36500, rounded half-up to 2dp.
func DailyInterest(balance, annualRatePct decimal.Decimal) decimal.Decimal {
	return balance.Mul(annualRatePct).Div(decimal.NewFromInt(36500)).Round(2)
}

// WithinEpsilon reports whether two amounts agree to within less than
// AmountEpsilon. Amounts are rounded to 2dp before comparison ever
// happens, so a genuine imbalance always shows up as at least one cent
// and a one-cent difference (100.00 vs 99.99) is a mismatch.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(AmountEpsilon)
}
