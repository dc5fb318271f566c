package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/infrastructure/metrics"
)

// EODUseCase is the end-of-day accrual engine. It iterates active
// interest-bearing customer accounts, computes one day of interest per
// account, and posts each accrual as a balanced two-line transaction
// through the same posting engine manual entries use.
type EODUseCase struct {
	posting     *PostingUseCase
	accountRepo AccountRepository
	subProdRepo SubProductRepository
	eodRepo     EODRunRepository
	// interestExpenseAcctNo is the office account debited on every accrual.
	interestExpenseAcctNo string
	logger                zerolog.Logger
	metrics               *metrics.Metrics

	// runMu serializes runs within this process; the run record guards
	// across processes.
	runMu sync.Mutex
}

// NewEODUseCase creates a new EODUseCase.
func NewEODUseCase(
	posting *PostingUseCase,
	accountRepo AccountRepository,
	subProdRepo SubProductRepository,
	eodRepo EODRunRepository,
	interestExpenseAcctNo string,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *EODUseCase {
	return &EODUseCase{
		posting:               posting,
		accountRepo:           accountRepo,
		subProdRepo:           subProdRepo,
		eodRepo:               eodRepo,
		interestExpenseAcctNo: interestExpenseAcctNo,
		logger:                logger,
		metrics:               metrics,
	}
}

// Run executes the accrual run for asOf (nil means today, UTC). A date
// whose run already COMPLETED is rejected; a FAILED run may be retried.
// Per-account failures are recorded on the run and never abort it; the
// run only FAILs on systemic errors or cancellation. Run is cancellable
// between accounts via ctx.
func (uc *EODUseCase) Run(ctx context.Context, asOf *time.Time) (*domain.EODRun, error) {
	if !uc.runMu.TryLock() {
		return nil, domain.ErrEODInFlight
	}
	defer uc.runMu.Unlock()

	runDate := time.Now().UTC()
	if asOf != nil {
		runDate = asOf.UTC()
	}
	runDate = time.Date(runDate.Year(), runDate.Month(), runDate.Day(), 0, 0, 0, 0, time.UTC)

	if existing, err := uc.eodRepo.GetByDate(ctx, runDate); err == nil {
		switch existing.Status {
		case domain.EODCompleted:
			return nil, domain.ErrEODAlreadyRun
		case domain.EODRunning:
			return nil, domain.ErrEODInFlight
		}
	} else if !errors.Is(err, domain.ErrEODRunNotFound) {
		return nil, fmt.Errorf("eod run lookup: %w", err)
	}

	run := &domain.EODRun{
		RunDate:   runDate,
		Status:    domain.EODRunning,
		StartedAt: time.Now().UTC(),
	}

	if err := uc.eodRepo.Put(ctx, run); err != nil {
		return nil, fmt.Errorf("eod run record: %w", err)
	}

	accounts, err := uc.accountRepo.ListActive(ctx)
	if err != nil {
		// Systemic failure: nothing was iterated, mark the run FAILED.
		uc.finish(ctx, run, domain.EODFailed)
		return run, fmt.Errorf("eod account iteration: %w", err)
	}

	uc.logger.Info().
		Str("run_date", runDate.Format("2006-01-02")).
		Int("candidates", len(accounts)).
		Msg("starting eod accrual run")

	for _, account := range accounts {
		select {
		case <-ctx.Done():
			uc.finish(context.WithoutCancel(ctx), run, domain.EODFailed)
			return run, fmt.Errorf("eod run cancelled: %w", ctx.Err())
		default:
		}

		if account.Kind != domain.KindCustomer {
			continue
		}

		accrued, err := uc.accrueAccount(ctx, account, runDate)
		if err != nil {
			// Isolate: record the failure and continue with the next account.
			run.Failures = append(run.Failures, domain.AccrualFailure{
				AccountNo: account.AccountNo,
				Reason:    err.Error(),
			})
			uc.logger.Error().Err(err).
				Str("account_no", account.AccountNo).
				Msg("accrual failed for account")

			if uc.metrics != nil {
				uc.metrics.EODFailures.Inc()
			}

			continue
		}

		if !accrued {
			continue
		}

		run.ProcessedCount++
		if err := uc.eodRepo.UpdateProgress(ctx, runDate, run.ProcessedCount); err != nil {
			uc.logger.Warn().Err(err).Msg("failed to persist eod progress")
		}
	}

	uc.finish(ctx, run, domain.EODCompleted)

	uc.logger.Info().
		Str("run_date", runDate.Format("2006-01-02")).
		Int("processed", run.ProcessedCount).
		Int("failures", len(run.Failures)).
		Msg("eod accrual run completed")

	return run, nil
}

// accrueAccount posts one day of interest for a single account. Returns
// false when the account is skipped (not interest-bearing, zero balance,
// or interest rounds to zero).
func (uc *EODUseCase) accrueAccount(ctx context.Context, account *domain.Account, runDate time.Time) (bool, error) {
	subProduct, err := uc.subProdRepo.GetByID(ctx, account.SubProductID)
	if err != nil {
		return false, fmt.Errorf("sub-product %s: %w", account.SubProductID, err)
	}

	if !subProduct.InterestBearing || subProduct.InterestRate.IsZero() {
		return false, nil
	}

	if account.Balance.IsZero() {
		return false, nil
	}

	interest := domain.DailyInterest(account.Balance, subProduct.InterestRate)
	if interest.IsZero() {
		// Never post zero-amount accruals.
		return false, nil
	}

	one := decimal.NewFromInt(1)
	entry := EntryInput{
		ValueDate: runDate,
		Narration: fmt.Sprintf("Interest accrual for %s", account.AccountNo),
		Lines: []LineInput{
			{
				AccountNo:    uc.interestExpenseAcctNo,
				DrCr:         domain.Debit,
				Currency:     account.Currency,
				FcyAmt:       interest,
				ExchangeRate: one,
			},
			{
				AccountNo:    account.AccountNo,
				DrCr:         domain.Credit,
				Currency:     account.Currency,
				FcyAmt:       interest,
				ExchangeRate: one,
			},
		},
	}

	vt, err := uc.posting.Validate(ctx, entry)
	if err != nil {
		return false, err
	}

	// Accruals are system-generated and post as verified, under an
	// accrual transaction id, bumping the account's accrued interest in
	// the same atomic posting.
	vt.status = domain.TranVerified
	vt.idPrefix = "ACCR"
	vt.accrueTo = account.AccountNo
	vt.accrueAmt = interest

	if _, err := uc.posting.Post(ctx, vt); err != nil {
		return false, err
	}

	if uc.metrics != nil {
		uc.metrics.EODAccruals.Inc()
		uc.metrics.InterestAccrued.Observe(interest.InexactFloat64())
	}

	return true, nil
}

// GetRun returns the run record for a date, including partial progress of
// an in-flight run.
func (uc *EODUseCase) GetRun(ctx context.Context, runDate time.Time) (*domain.EODRun, error) {
	runDate = time.Date(runDate.Year(), runDate.Month(), runDate.Day(), 0, 0, 0, 0, time.UTC)
	return uc.eodRepo.GetByDate(ctx, runDate)
}

// LatestRun returns the most recent run, the ledger's business date
// watermark.
func (uc *EODUseCase) LatestRun(ctx context.Context) (*domain.EODRun, error) {
	return uc.eodRepo.Latest(ctx)
}

func (uc *EODUseCase) finish(ctx context.Context, run *domain.EODRun, status domain.EODStatus) {
	now := time.Now().UTC()
	run.Status = status
	run.FinishedAt = &now

	if uc.metrics != nil {
		uc.metrics.EODRuns.WithLabelValues(string(status)).Inc()
		uc.metrics.EODDuration.Observe(now.Sub(run.StartedAt).Seconds())
	}

	if err := uc.eodRepo.Put(ctx, run); err != nil {
		uc.logger.Error().Err(err).
			Str("run_date", run.RunDate.Format("2006-01-02")).
			Msg("failed to persist eod run state")
	}
}
