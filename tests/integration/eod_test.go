package integration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/adapter/repository/postgres"
	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
	"github.com/mmkt/moneymarket/tests/testutil"
)

func TestEODAccrualRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	testDB.CreateSubProduct(ctx, &domain.SubProduct{
		ID: "SB-001", Name: "Savings Bank", GLNum: "110101001",
		InterestBearing: true, InterestRate: decimal.RequireFromString("3.65"),
		Status: domain.SubProductActive,
	})
	testDB.CreateSubProduct(ctx, &domain.SubProduct{
		ID: "OF-001", Name: "Interest Expense", GLNum: "610101001",
		Status: domain.SubProductActive,
	})

	savings := testDB.CreateAccount(ctx, "000000011001", "SB-001", "USD", domain.KindCustomer, decimal.NewFromInt(1000))
	expense := testDB.CreateAccount(ctx, "961010100101", "OF-001", "USD", domain.KindOffice, decimal.Zero)

	accountRepo := postgres.NewAccountRepository(testDB.Pool)
	tranRepo := postgres.NewTransactionRepository(testDB.Pool)
	subRepo := postgres.NewSubProductRepository(testDB.Pool)
	eodRepo := postgres.NewEODRunRepository(testDB.Pool)
	txManager := postgres.NewTxManager(testDB.Pool)

	postingUC := usecase.NewPostingUseCase(txManager, accountRepo, tranRepo, subRepo, postgres.NewULIDGenerator())
	eodUC := usecase.NewEODUseCase(postingUC, accountRepo, subRepo, eodRepo, expense.AccountNo, zerolog.Nop(), nil)

	asOf := time.Now().UTC()
	run, err := eodUC.Run(ctx, &asOf)
	if err != nil {
		t.Fatalf("eod run failed: %v", err)
	}

	if run.Status != domain.EODCompleted {
		t.Errorf("expected status %s, got %s", domain.EODCompleted, run.Status)
	}
	if run.ProcessedCount != 1 {
		t.Errorf("expected 1 processed account, got %d", run.ProcessedCount)
	}
	if len(run.Failures) != 0 {
		t.Errorf("expected no failures, got %v", run.Failures)
	}

	// Daily interest on 1000.00 at 3.65% is exactly 0.10.
	interest := decimal.RequireFromString("0.10")

	savingsAfter, err := accountRepo.GetByNo(ctx, savings.AccountNo)
	if err != nil {
		t.Fatalf("failed to reload savings account: %v", err)
	}
	if !savingsAfter.Balance.Equal(decimal.RequireFromString("1000.10")) {
		t.Errorf("expected savings balance 1000.10, got %s", savingsAfter.Balance)
	}
	if !savingsAfter.InterestAccrued.Equal(interest) {
		t.Errorf("expected interest accrued 0.10, got %s", savingsAfter.InterestAccrued)
	}

	expenseAfter, err := accountRepo.GetByNo(ctx, expense.AccountNo)
	if err != nil {
		t.Fatalf("failed to reload expense account: %v", err)
	}
	if !expenseAfter.Balance.Equal(interest.Neg()) {
		t.Errorf("expected expense balance -0.10, got %s", expenseAfter.Balance)
	}

	// The accrual is an ordinary verified transaction on the ledger.
	page, err := tranRepo.ListByAccount(ctx, savings.AccountNo, domain.PageRequest{Size: 10, SortField: "entryTime", SortDir: domain.SortDesc})
	if err != nil {
		t.Fatalf("failed to list savings transactions: %v", err)
	}
	if page.TotalElements != 1 {
		t.Fatalf("expected 1 transaction, got %d", page.TotalElements)
	}
	accrual := page.Content[0]
	if !strings.HasPrefix(accrual.TranID, "ACCR-") {
		t.Errorf("expected accrual transaction id, got %s", accrual.TranID)
	}
	if accrual.Status != domain.TranVerified {
		t.Errorf("expected status %s, got %s", domain.TranVerified, accrual.Status)
	}

	// The run date is settled: a second run for the same date is rejected.
	if _, err := eodUC.Run(ctx, &asOf); !errors.Is(err, domain.ErrEODAlreadyRun) {
		t.Errorf("expected ErrEODAlreadyRun on rerun, got %v", err)
	}

	stored, err := eodUC.GetRun(ctx, asOf)
	if err != nil {
		t.Fatalf("failed to load run record: %v", err)
	}
	if stored.Status != domain.EODCompleted || stored.ProcessedCount != 1 {
		t.Errorf("unexpected stored run: status=%s processed=%d", stored.Status, stored.ProcessedCount)
	}
}
