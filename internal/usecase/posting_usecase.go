package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/domain"
)

// PostingUseCase is the transaction validator and posting engine. Validate
// performs every check without side effects; Post applies a validated
// transaction atomically against the balance store.
type PostingUseCase struct {
	txManager      TransactionManager
	accountRepo    AccountRepository
	tranRepo       TransactionRepository
	subProductRepo SubProductRepository
	idGen          IDGenerator
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	tranRepo TransactionRepository,
	subProductRepo SubProductRepository,
	idGen IDGenerator,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:      txManager,
		accountRepo:    accountRepo,
		tranRepo:       tranRepo,
		subProductRepo: subProductRepo,
		idGen:          idGen,
	}
}

// LineInput is one requested transaction line. LcyAmt is advisory: the
// engine recomputes it from FcyAmt and ExchangeRate and rejects the line
// if the caller-supplied value disagrees.
type LineInput struct {
	AccountNo    string
	DrCr         domain.DrCr
	Currency     string
	FcyAmt       decimal.Decimal
	ExchangeRate decimal.Decimal
	LcyAmt       decimal.Decimal
	Reference    string
}

// EntryInput is a requested multi-line transaction entry.
type EntryInput struct {
	ValueDate time.Time
	Narration string
	Lines     []LineInput
}

// ValidatedTransaction is the one-shot product of Validate. Posting it
// consumes it: once a transaction ID has been assigned, re-posting the
// same object is rejected and the caller must validate a fresh request.
type ValidatedTransaction struct {
	valueDate time.Time
	narration string
	lines     []domain.TransactionLine
	status    domain.TranStatus
	idPrefix  string
	// accrueTo, when set, bumps that account's interest-accrued balance by
	// accrueAmt inside the posting transaction. Used by the EOD engine.
	accrueTo  string
	accrueAmt decimal.Decimal
	posted    atomic.Bool
}

// Receipt is returned by Post: the generated transaction plus the
// resulting balance of every account the posting touched.
type Receipt struct {
	Transaction *domain.Transaction
	Balances    map[string]decimal.Decimal
}

// Validate checks an entry request in order: structural, referential,
// arithmetic, balance. It has no side effects and returns a tagged error
// on the first failed check.
func (uc *PostingUseCase) Validate(ctx context.Context, input EntryInput) (*ValidatedTransaction, error) {
	// Structural checks
	if len(input.Lines) < 2 {
		return nil, domain.ErrTooFewLines
	}

	if input.ValueDate.IsZero() {
		return nil, fmt.Errorf("%w: value date is required", domain.ErrValueDateBeforeOpen)
	}

	if err := domain.ValidateNarration(input.Narration); err != nil {
		return nil, err
	}

	lines := make([]domain.TransactionLine, 0, len(input.Lines))

	for i, in := range input.Lines {
		if err := domain.ValidateCurrency(in.Currency); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		if in.FcyAmt.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("line %d: %w", i+1, domain.ErrInvalidAmount)
		}

		if in.ExchangeRate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("line %d: %w", i+1, domain.ErrInvalidExchangeRate)
		}

		// Referential checks
		account, err := uc.accountRepo.GetByNo(ctx, in.AccountNo)
		if err != nil {
			return nil, fmt.Errorf("line %d account %s: %w", i+1, in.AccountNo, err)
		}

		if !account.Postable() {
			return nil, fmt.Errorf("line %d account %s: %w", i+1, in.AccountNo, domain.ErrAccountNotPostable)
		}

		subProduct, err := uc.subProductRepo.GetByID(ctx, account.SubProductID)
		if err != nil {
			return nil, fmt.Errorf("line %d account %s: %w", i+1, in.AccountNo, err)
		}

		if !subProduct.Postable() {
			return nil, fmt.Errorf("line %d account %s: %w", i+1, in.AccountNo, domain.ErrSubProductInactive)
		}

		// A line in the account's own currency must not smuggle in a
		// conversion; any other currency needs the (already checked)
		// positive exchange rate.
		if in.Currency == account.Currency && !in.ExchangeRate.Equal(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("line %d account %s: %w", i+1, in.AccountNo, domain.ErrInvalidExchangeRate)
		}

		if input.ValueDate.Before(truncateToDay(account.OpenDate)) {
			return nil, fmt.Errorf("line %d account %s: %w", i+1, in.AccountNo, domain.ErrValueDateBeforeOpen)
		}

		// Arithmetic: the engine's recomputed LCY amount is authoritative.
		lcy := domain.LocalAmount(in.FcyAmt, in.ExchangeRate)
		if lcy.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("line %d: %w", i+1, domain.ErrInvalidAmount)
		}

		if !in.LcyAmt.IsZero() && !domain.WithinEpsilon(in.LcyAmt, lcy) {
			return nil, fmt.Errorf("line %d: supplied %s, computed %s: %w",
				i+1, in.LcyAmt.StringFixed(2), lcy.StringFixed(2), domain.ErrAmountMismatch)
		}

		lines = append(lines, domain.TransactionLine{
			AccountNo:    in.AccountNo,
			DrCr:         in.DrCr,
			Currency:     in.Currency,
			FcyAmt:       in.FcyAmt,
			ExchangeRate: in.ExchangeRate,
			LcyAmt:       lcy,
			Reference:    in.Reference,
		})
	}

	// Balance check per currency group
	if err := domain.CheckBalanced(lines); err != nil {
		return nil, err
	}

	return &ValidatedTransaction{
		valueDate: input.ValueDate,
		narration: input.Narration,
		lines:     lines,
		status:    domain.TranPosted,
		idPrefix:  "TRN",
	}, nil
}

// Post atomically applies a validated transaction: assigns the transaction
// ID, applies every line's signed delta under per-account locks, persists
// the transaction, and commits. All mutations succeed or none do.
func (uc *PostingUseCase) Post(ctx context.Context, vt *ValidatedTransaction) (*Receipt, error) {
	if !vt.posted.CompareAndSwap(false, true) {
		return nil, domain.ErrAlreadyPosted
	}

	now := time.Now().UTC()
	tranID := fmt.Sprintf("%s-%s-%s", vt.idPrefix, now.Format("20060102"), uc.idGen.Generate())

	// Lock accounts in sorted order to keep lock acquisition global and
	// deadlock-free across concurrent postings.
	accountNos := uniqueAccountNos(vt.lines)
	sort.Strings(accountNos)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin posting: %w", err)
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByNosForUpdate(ctx, tx, accountNos)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(accountNos) {
		return nil, domain.ErrAccountNotFound
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.AccountNo] = a
	}

	txn := &domain.Transaction{
		TranID:    tranID,
		ValueDate: vt.valueDate,
		EntryDate: truncateToDay(now),
		EntryTime: now,
		Narration: vt.narration,
		Status:    vt.status,
		Lines:     make([]domain.TransactionLine, len(vt.lines)),
		CreatedAt: now,
	}

	for i := range vt.lines {
		line := vt.lines[i]
		account := accountMap[line.AccountNo]

		delta := line.SignedDelta()
		// Re-check under lock: the account may have closed or been drained
		// since validation.
		if err := account.ValidateDelta(delta); err != nil {
			return nil, fmt.Errorf("account %s: %w", line.AccountNo, err)
		}

		account.Balance = account.ApplyDelta(delta)
		account.AvailableBalance = account.Balance

		line.LineID = fmt.Sprintf("%s-%d", tranID, i+1)
		line.BalanceAfter = account.Balance
		txn.Lines[i] = line
	}

	if err := uc.tranRepo.Create(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("persist transaction: %w", err)
	}

	for _, no := range accountNos {
		account := accountMap[no]
		if err := uc.accountRepo.UpdateBalance(ctx, tx, no, account.Balance, account.AvailableBalance, now); err != nil {
			return nil, fmt.Errorf("update balance %s: %w", no, err)
		}
	}

	if vt.accrueTo != "" {
		if err := uc.accountRepo.AddInterestAccrued(ctx, tx, vt.accrueTo, vt.accrueAmt, now); err != nil {
			return nil, fmt.Errorf("record accrued interest %s: %w", vt.accrueTo, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit posting: %w", err)
	}

	balances := make(map[string]decimal.Decimal, len(accountNos))
	for _, no := range accountNos {
		balances[no] = accountMap[no].Balance
	}

	return &Receipt{Transaction: txn, Balances: balances}, nil
}

// GetTransaction retrieves a posted transaction by ID.
func (uc *PostingUseCase) GetTransaction(ctx context.Context, tranID string) (*domain.Transaction, error) {
	return uc.tranRepo.GetByID(ctx, tranID)
}

// ListTransactions lists posted transactions, newest first by default.
func (uc *PostingUseCase) ListTransactions(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Transaction], error) {
	return uc.tranRepo.List(ctx, page)
}

// ListTransactionsByAccount lists transactions touching one account.
func (uc *PostingUseCase) ListTransactionsByAccount(ctx context.Context, accountNo string, page domain.PageRequest) (*domain.Page[*domain.Transaction], error) {
	return uc.tranRepo.ListByAccount(ctx, accountNo, page)
}

func uniqueAccountNos(lines []domain.TransactionLine) []string {
	seen := make(map[string]bool, len(lines))

	var nos []string
	for i := range lines {
		if !seen[lines[i].AccountNo] {
			seen[lines[i].AccountNo] = true
			nos = append(nos, lines[i].AccountNo)
		}
	}

	return nos
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
