package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/mmkt/moneymarket/internal/adapter/repository/memory"
	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
	"github.com/mmkt/moneymarket/internal/usecase/gomocks"
	"github.com/mmkt/moneymarket/internal/usecase/mocks"
)

const (
	custAcctA   = "000000011001"
	custAcctB   = "000000021001"
	closedAcct  = "000000031001"
	retiredAcct = "000000041001"
	eurAcct     = "000000051001"
	officeAcctA = "961010100101"
	officeAcctB = "961010100201"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(accountNo string, drCr domain.DrCr, currency string, fcy, rate string) usecase.LineInput {
	return usecase.LineInput{
		AccountNo:    accountNo,
		DrCr:         drCr,
		Currency:     currency,
		FcyAmt:       d(fcy),
		ExchangeRate: d(rate),
	}
}

func seedValidationMocks() (*mocks.MockAccountRepository, *mocks.MockSubProductRepository) {
	accRepo := mocks.NewMockAccountRepository()
	subRepo := mocks.NewMockSubProductRepository()
	ctx := context.Background()

	subRepo.Create(ctx, &domain.SubProduct{ID: "SB-001", GLNum: "110101001", Status: domain.SubProductActive})
	subRepo.Create(ctx, &domain.SubProduct{ID: "SB-RET", GLNum: "110101002", Status: domain.SubProductRetired})

	openDate := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	for _, acc := range []*domain.Account{
		{AccountNo: custAcctA, Kind: domain.KindCustomer, SubProductID: "SB-001", Currency: "USD", Status: domain.StatusActive, OpenDate: openDate},
		{AccountNo: custAcctB, Kind: domain.KindCustomer, SubProductID: "SB-001", Currency: "USD", Status: domain.StatusActive, OpenDate: openDate},
		{AccountNo: closedAcct, Kind: domain.KindCustomer, SubProductID: "SB-001", Currency: "USD", Status: domain.StatusClosed, OpenDate: openDate},
		{AccountNo: retiredAcct, Kind: domain.KindCustomer, SubProductID: "SB-RET", Currency: "USD", Status: domain.StatusActive, OpenDate: openDate},
		{AccountNo: eurAcct, Kind: domain.KindCustomer, SubProductID: "SB-001", Currency: "EUR", Status: domain.StatusActive, OpenDate: openDate},
	} {
		accRepo.Create(ctx, acc)
	}

	return accRepo, subRepo
}

func TestPostingUseCase_Validate(t *testing.T) {
	valueDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		input     usecase.EntryInput
		wantErr   error
		wantLines int
	}{
		{
			name: "balanced two line entry",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "cash deposit",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "100.00", "1"),
				},
			},
			wantLines: 2,
		},
		{
			name: "single line rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "lonely",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "1"),
				},
			},
			wantErr: domain.ErrTooFewLines,
		},
		{
			name: "missing value date rejected",
			input: usecase.EntryInput{
				Narration: "no date",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "100.00", "1"),
				},
			},
			wantErr: domain.ErrValueDateBeforeOpen,
		},
		{
			name: "narration too long rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: strings.Repeat("x", 256),
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "100.00", "1"),
				},
			},
			wantErr: domain.ErrInvalidNarration,
		},
		{
			name: "unknown currency rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "bad ccy",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "XXX", "100.00", "1"),
					line(custAcctB, domain.Credit, "XXX", "100.00", "1"),
				},
			},
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name: "zero amount rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "zero",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "0", "1"),
					line(custAcctB, domain.Credit, "USD", "0", "1"),
				},
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative exchange rate rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "bad rate",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "-1"),
					line(custAcctB, domain.Credit, "USD", "100.00", "1"),
				},
			},
			wantErr: domain.ErrInvalidExchangeRate,
		},
		{
			name: "unknown account rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "who",
				Lines: []usecase.LineInput{
					line("999999999999", domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "100.00", "1"),
				},
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "closed account rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "closed",
				Lines: []usecase.LineInput{
					line(closedAcct, domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "100.00", "1"),
				},
			},
			wantErr: domain.ErrAccountNotPostable,
		},
		{
			name: "retired sub-product rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "retired",
				Lines: []usecase.LineInput{
					line(retiredAcct, domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "100.00", "1"),
				},
			},
			wantErr: domain.ErrSubProductInactive,
		},
		{
			name: "conversion in account currency rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "sneaky rate",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "1.1"),
					line(custAcctB, domain.Credit, "USD", "110.00", "1"),
				},
			},
			wantErr: domain.ErrInvalidExchangeRate,
		},
		{
			name: "value date before account open rejected",
			input: usecase.EntryInput{
				ValueDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
				Narration: "backdated",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "100.00", "1"),
				},
			},
			wantErr: domain.ErrValueDateBeforeOpen,
		},
		{
			name: "supplied lcy disagreeing with computed rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "bad math",
				Lines: []usecase.LineInput{
					{AccountNo: custAcctA, DrCr: domain.Debit, Currency: "USD", FcyAmt: d("100.00"), ExchangeRate: d("1"), LcyAmt: d("90.00")},
					line(custAcctB, domain.Credit, "USD", "100.00", "1"),
				},
			},
			wantErr: domain.ErrAmountMismatch,
		},
		{
			name: "unbalanced entry rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "lopsided",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "60.00", "1"),
				},
			},
			wantErr: domain.ErrUnbalanced,
		},
		{
			name: "one cent off rejected",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "one cent",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "99.99", "1"),
				},
			},
			wantErr: domain.ErrUnbalanced,
		},
		{
			name: "four line split entry",
			input: usecase.EntryInput{
				ValueDate: valueDate,
				Narration: "split",
				Lines: []usecase.LineInput{
					line(custAcctA, domain.Debit, "USD", "100.00", "1"),
					line(custAcctB, domain.Credit, "USD", "40.00", "1"),
					line(custAcctB, domain.Credit, "USD", "35.00", "1"),
					line(custAcctB, domain.Credit, "USD", "25.00", "1"),
				},
			},
			wantLines: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accRepo, subRepo := seedValidationMocks()
			uc := usecase.NewPostingUseCase(
				mocks.NewMockTransactionManager(),
				accRepo,
				mocks.NewMockTransactionRepository(),
				subRepo,
				mocks.NewMockIDGenerator(),
			)

			vt, err := uc.Validate(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if vt == nil {
				t.Fatal("expected validated transaction")
			}
		})
	}
}

// ledgerFixture wires the posting engine to the in-memory transactional
// store so posting tests exercise real lock and commit semantics.
type ledgerFixture struct {
	accounts *memory.AccountRepository
	trans    *memory.TransactionRepository
	subs     *memory.SubProductRepository
	posting  *usecase.PostingUseCase
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	store := memory.NewStore()
	fx := &ledgerFixture{
		accounts: memory.NewAccountRepository(store),
		trans:    memory.NewTransactionRepository(store),
		subs:     memory.NewSubProductRepository(store),
	}
	fx.posting = usecase.NewPostingUseCase(
		memory.NewTxManager(store),
		fx.accounts,
		fx.trans,
		fx.subs,
		mocks.NewMockIDGenerator(),
	)

	ctx := context.Background()
	if err := fx.subs.Create(ctx, &domain.SubProduct{
		ID: "SB-001", Name: "Savings Bank", GLNum: "110101001",
		InterestBearing: true, InterestRate: d("3.65"),
		Status: domain.SubProductActive,
	}); err != nil {
		t.Fatal(err)
	}
	if err := fx.subs.Create(ctx, &domain.SubProduct{
		ID: "OF-001", Name: "Interest Expense", GLNum: "610101001",
		Status: domain.SubProductActive,
	}); err != nil {
		t.Fatal(err)
	}

	return fx
}

func (fx *ledgerFixture) seedAccount(t *testing.T, no string, kind domain.AccountKind, subID, currency string, balance decimal.Decimal) {
	t.Helper()

	err := fx.accounts.Create(context.Background(), &domain.Account{
		AccountNo:        no,
		Name:             "account " + no,
		Kind:             kind,
		SubProductID:     subID,
		Currency:         currency,
		Balance:          balance,
		AvailableBalance: balance,
		Status:           domain.StatusActive,
		OpenDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (fx *ledgerFixture) mustPost(t *testing.T, input usecase.EntryInput) *usecase.Receipt {
	t.Helper()

	ctx := context.Background()
	vt, err := fx.posting.Validate(ctx, input)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	receipt, err := fx.posting.Post(ctx, vt)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return receipt
}

func transferInput(from, to string, amount string) usecase.EntryInput {
	return usecase.EntryInput{
		ValueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Narration: fmt.Sprintf("transfer %s to %s", from, to),
		Lines: []usecase.LineInput{
			line(from, domain.Debit, "USD", amount, "1"),
			line(to, domain.Credit, "USD", amount, "1"),
		},
	}
}

func TestPostingUseCase_PostMovesBalances(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	fx.seedAccount(t, custAcctA, domain.KindCustomer, "SB-001", "USD", d("500.00"))
	fx.seedAccount(t, officeAcctA, domain.KindOffice, "OF-001", "USD", decimal.Zero)

	receipt := fx.mustPost(t, transferInput(custAcctA, officeAcctA, "120.00"))

	txn := receipt.Transaction
	wantPrefix := "TRN-" + time.Now().UTC().Format("20060102") + "-"
	if !strings.HasPrefix(txn.TranID, wantPrefix) {
		t.Errorf("tran id %q should start with %q", txn.TranID, wantPrefix)
	}
	if txn.Status != domain.TranPosted {
		t.Errorf("expected status POSTED, got %s", txn.Status)
	}

	for i, ln := range txn.Lines {
		wantLineID := fmt.Sprintf("%s-%d", txn.TranID, i+1)
		if ln.LineID != wantLineID {
			t.Errorf("line %d id %q, want %q", i, ln.LineID, wantLineID)
		}
	}

	if !txn.Lines[0].BalanceAfter.Equal(d("380.00")) {
		t.Errorf("debit line balance after = %s, want 380.00", txn.Lines[0].BalanceAfter)
	}
	if !txn.Lines[1].BalanceAfter.Equal(d("120.00")) {
		t.Errorf("credit line balance after = %s, want 120.00", txn.Lines[1].BalanceAfter)
	}

	if !receipt.Balances[custAcctA].Equal(d("380.00")) {
		t.Errorf("receipt balance %s, want 380.00", receipt.Balances[custAcctA])
	}

	got, err := fx.accounts.GetByNo(ctx, custAcctA)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Balance.Equal(d("380.00")) {
		t.Errorf("stored balance %s, want 380.00", got.Balance)
	}

	stored, err := fx.posting.GetTransaction(ctx, txn.TranID)
	if err != nil {
		t.Fatalf("posted transaction not retrievable: %v", err)
	}
	if len(stored.Lines) != 2 {
		t.Errorf("stored transaction has %d lines, want 2", len(stored.Lines))
	}
}

func TestPostingUseCase_PostTwiceRejected(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	fx.seedAccount(t, custAcctA, domain.KindCustomer, "SB-001", "USD", d("500.00"))
	fx.seedAccount(t, officeAcctA, domain.KindOffice, "OF-001", "USD", decimal.Zero)

	vt, err := fx.posting.Validate(ctx, transferInput(custAcctA, officeAcctA, "10.00"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := fx.posting.Post(ctx, vt); err != nil {
		t.Fatal(err)
	}

	if _, err := fx.posting.Post(ctx, vt); !errors.Is(err, domain.ErrAlreadyPosted) {
		t.Fatalf("expected ErrAlreadyPosted, got %v", err)
	}

	got, err := fx.accounts.GetByNo(ctx, custAcctA)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Balance.Equal(d("490.00")) {
		t.Errorf("balance %s after rejected re-post, want 490.00", got.Balance)
	}
}

func TestPostingUseCase_InsufficientFundsLeavesNoTrace(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	fx.seedAccount(t, custAcctA, domain.KindCustomer, "SB-001", "USD", d("500.00"))
	fx.seedAccount(t, officeAcctA, domain.KindOffice, "OF-001", "USD", decimal.Zero)

	vt, err := fx.posting.Validate(ctx, transferInput(custAcctA, officeAcctA, "600.00"))
	if err != nil {
		t.Fatalf("validation has no funds check, got %v", err)
	}

	if _, err := fx.posting.Post(ctx, vt); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	got, err := fx.accounts.GetByNo(ctx, custAcctA)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Balance.Equal(d("500.00")) {
		t.Errorf("balance %s after failed post, want 500.00 untouched", got.Balance)
	}

	page, err := fx.posting.ListTransactions(ctx, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalElements != 0 {
		t.Errorf("failed posting left %d transactions behind", page.TotalElements)
	}
}

func TestPostingUseCase_PersistFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accRepo, subRepo := seedValidationMocks()
	accRepo.Create(context.Background(), &domain.Account{
		AccountNo: custAcctB, Kind: domain.KindCustomer, SubProductID: "SB-001",
		Currency: "USD", Balance: d("500.00"), Status: domain.StatusActive,
		OpenDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})

	tx := gomocks.NewMockTransaction(ctrl)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	txMgr := gomocks.NewMockTransactionManager(ctrl)
	txMgr.EXPECT().Begin(gomock.Any()).Return(tx, nil)

	tranRepo := gomocks.NewMockTransactionRepository(ctrl)
	tranRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(errors.New("connection reset"))

	uc := usecase.NewPostingUseCase(txMgr, accRepo, tranRepo, subRepo, mocks.NewMockIDGenerator())

	ctx := context.Background()
	vt, err := uc.Validate(ctx, usecase.EntryInput{
		ValueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Narration: "doomed",
		Lines: []usecase.LineInput{
			line(custAcctA, domain.Credit, "USD", "50.00", "1"),
			line(custAcctB, domain.Debit, "USD", "50.00", "1"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Commit has no expectation: the controller fails the test if the
	// engine commits after a failed persist.
	if _, err := uc.Post(ctx, vt); err == nil {
		t.Fatal("expected error from failed persist")
	}
}

func TestPostingUseCase_ConcurrentTransfersConverge(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	fx.seedAccount(t, officeAcctA, domain.KindOffice, "OF-001", "USD", decimal.Zero)
	fx.seedAccount(t, officeAcctB, domain.KindOffice, "OF-001", "USD", decimal.Zero)

	const transfers = 50

	var wg sync.WaitGroup
	wg.Add(transfers)

	for i := 0; i < transfers; i++ {
		go func() {
			defer wg.Done()

			vt, err := fx.posting.Validate(ctx, transferInput(officeAcctA, officeAcctB, "10.00"))
			if err != nil {
				t.Error(err)
				return
			}
			if _, err := fx.posting.Post(ctx, vt); err != nil {
				t.Error(err)
			}
		}()
	}

	wg.Wait()

	a, err := fx.accounts.GetByNo(ctx, officeAcctA)
	if err != nil {
		t.Fatal(err)
	}
	b, err := fx.accounts.GetByNo(ctx, officeAcctB)
	if err != nil {
		t.Fatal(err)
	}

	if !a.Balance.Equal(d("-500.00")) {
		t.Errorf("source balance %s, want -500.00", a.Balance)
	}
	if !b.Balance.Equal(d("500.00")) {
		t.Errorf("target balance %s, want 500.00", b.Balance)
	}

	page, err := fx.posting.ListTransactions(ctx, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalElements != transfers {
		t.Errorf("recorded %d transactions, want %d", page.TotalElements, transfers)
	}
}

func TestPostingUseCase_NoDriftUnderRandomLoad(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	nos := []string{officeAcctA, officeAcctB, "961010100301", "961010100401"}
	for _, no := range nos {
		fx.seedAccount(t, no, domain.KindOffice, "OF-001", "USD", decimal.Zero)
	}

	const (
		workers           = 8
		postingsPerWorker = 125
	)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(seed int64) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < postingsPerWorker; i++ {
				from := nos[rng.Intn(len(nos))]
				to := nos[rng.Intn(len(nos))]
				for to == from {
					to = nos[rng.Intn(len(nos))]
				}

				cents := rng.Intn(999_99) + 1
				amount := decimal.New(int64(cents), -2)

				vt, err := fx.posting.Validate(ctx, usecase.EntryInput{
					ValueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
					Narration: "load",
					Lines: []usecase.LineInput{
						{AccountNo: from, DrCr: domain.Debit, Currency: "USD", FcyAmt: amount, ExchangeRate: decimal.NewFromInt(1)},
						{AccountNo: to, DrCr: domain.Credit, Currency: "USD", FcyAmt: amount, ExchangeRate: decimal.NewFromInt(1)},
					},
				})
				if err != nil {
					t.Error(err)
					return
				}
				if _, err := fx.posting.Post(ctx, vt); err != nil {
					t.Error(err)
					return
				}
			}
		}(int64(w + 1))
	}

	wg.Wait()

	sum := decimal.Zero
	for _, no := range nos {
		acc, err := fx.accounts.GetByNo(ctx, no)
		if err != nil {
			t.Fatal(err)
		}
		sum = sum.Add(acc.Balance)
	}

	if !sum.IsZero() {
		t.Errorf("balances drifted by %s, want exactly zero", sum)
	}

	page, err := fx.posting.ListTransactions(ctx, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(workers * postingsPerWorker); page.TotalElements != want {
		t.Errorf("recorded %d transactions, want %d", page.TotalElements, want)
	}
}

func TestPostingUseCase_ListByAccount(t *testing.T) {
	fx := newLedgerFixture(t)
	ctx := context.Background()

	fx.seedAccount(t, custAcctA, domain.KindCustomer, "SB-001", "USD", d("1000.00"))
	fx.seedAccount(t, custAcctB, domain.KindCustomer, "SB-001", "USD", d("1000.00"))
	fx.seedAccount(t, officeAcctA, domain.KindOffice, "OF-001", "USD", decimal.Zero)

	fx.mustPost(t, transferInput(custAcctA, officeAcctA, "10.00"))
	fx.mustPost(t, transferInput(custAcctB, officeAcctA, "20.00"))
	fx.mustPost(t, transferInput(custAcctA, officeAcctA, "30.00"))

	page, err := fx.posting.ListTransactionsByAccount(ctx, custAcctA, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalElements != 2 {
		t.Errorf("account %s has %d transactions, want 2", custAcctA, page.TotalElements)
	}

	page, err = fx.posting.ListTransactionsByAccount(ctx, officeAcctA, domain.PageRequest{Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalElements != 3 {
		t.Errorf("account %s has %d transactions, want 3", officeAcctA, page.TotalElements)
	}
}
