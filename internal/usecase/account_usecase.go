package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/domain"
)

// AccountUseCase handles account lifecycle: opening, lookup, listing and
// closure. Balances themselves are only ever touched by the posting engine.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	subProdRepo SubProductRepository
	seqRepo     SequenceRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	subProdRepo SubProductRepository,
	seqRepo SequenceRepository,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		subProdRepo: subProdRepo,
		seqRepo:     seqRepo,
	}
}

// OpenCustomerAccountInput is the input for opening a customer account.
type OpenCustomerAccountInput struct {
	CustomerID   int64
	SubProductID string
	Name         string
	Currency     string
}

// OpenOfficeAccountInput is the input for opening an office (GL) account.
type OpenOfficeAccountInput struct {
	SubProductID  string
	Name          string
	Currency      string
	ReconRequired bool
}

// OpenCustomerAccount opens a customer account under a sub-product with a
// generated 12-digit account number: 8-digit customer id, one product type
// digit derived from the sub-product's GL, and a 3-digit sequence.
func (uc *AccountUseCase) OpenCustomerAccount(ctx context.Context, input OpenCustomerAccountInput) (*domain.Account, error) {
	subProduct, err := uc.subProdRepo.GetByID(ctx, input.SubProductID)
	if err != nil {
		return nil, err
	}

	if !subProduct.Postable() {
		return nil, domain.ErrSubProductInactive
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	productType, err := productTypeDigit(subProduct.GLNum)
	if err != nil {
		return nil, err
	}

	seq, err := uc.seqRepo.NextCustomerSeq(ctx, input.CustomerID, productType)
	if err != nil {
		return nil, err
	}

	if seq > 999 {
		return nil, fmt.Errorf("customer %d product type %c: %w",
			input.CustomerID, productType, domain.ErrAccountSeqExhausted)
	}

	now := time.Now().UTC()
	customerID := input.CustomerID

	account := &domain.Account{
		AccountNo:        fmt.Sprintf("%08d%c%03d", input.CustomerID, productType, seq),
		Name:             input.Name,
		Kind:             domain.KindCustomer,
		CustomerID:       &customerID,
		SubProductID:     subProduct.ID,
		GLNum:            subProduct.GLNum,
		Currency:         input.Currency,
		Balance:          decimal.Zero,
		AvailableBalance: decimal.Zero,
		InterestAccrued:  decimal.Zero,
		Status:           domain.StatusActive,
		AllowOverdraft:   subProduct.AllowOverdraft,
		OpenDate:         now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// OpenOfficeAccount opens an office account with a generated 12-digit
// account number: leading 9, the 9-digit GL number, and a 2-digit sequence.
func (uc *AccountUseCase) OpenOfficeAccount(ctx context.Context, input OpenOfficeAccountInput) (*domain.Account, error) {
	subProduct, err := uc.subProdRepo.GetByID(ctx, input.SubProductID)
	if err != nil {
		return nil, err
	}

	if !subProduct.Postable() {
		return nil, domain.ErrSubProductInactive
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if len(subProduct.GLNum) != 9 {
		return nil, fmt.Errorf("sub-product %s: GL number %q is not 9 digits", subProduct.ID, subProduct.GLNum)
	}

	seq, err := uc.seqRepo.NextOfficeSeq(ctx, subProduct.GLNum)
	if err != nil {
		return nil, err
	}

	if seq > 99 {
		return nil, fmt.Errorf("gl %s: %w", subProduct.GLNum, domain.ErrAccountSeqExhausted)
	}

	now := time.Now().UTC()

	account := &domain.Account{
		AccountNo:        fmt.Sprintf("9%s%02d", subProduct.GLNum, seq),
		Name:             input.Name,
		Kind:             domain.KindOffice,
		SubProductID:     subProduct.ID,
		GLNum:            subProduct.GLNum,
		Currency:         input.Currency,
		Balance:          decimal.Zero,
		AvailableBalance: decimal.Zero,
		InterestAccrued:  decimal.Zero,
		Status:           domain.StatusActive,
		ReconRequired:    input.ReconRequired,
		OpenDate:         now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by number.
func (uc *AccountUseCase) GetAccount(ctx context.Context, accountNo string) (*domain.Account, error) {
	return uc.accountRepo.GetByNo(ctx, accountNo)
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Account], error) {
	return uc.accountRepo.List(ctx, page)
}

// CloseAccount closes an account. The closure runs under the account's
// lock so a concurrent posting cannot slip a balance change in between the
// zero-balance check and the status flip.
func (uc *AccountUseCase) CloseAccount(ctx context.Context, accountNo string) (*domain.Account, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByNosForUpdate(ctx, tx, []string{accountNo})
	if err != nil {
		return nil, err
	}

	if len(accounts) != 1 {
		return nil, domain.ErrAccountNotFound
	}

	account := accounts[0]
	if err := account.CanClose(); err != nil {
		return nil, fmt.Errorf("account %s: %w", accountNo, err)
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.Close(ctx, tx, accountNo, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	account.Status = domain.StatusClosed
	account.CloseDate = &now

	return account, nil
}

// productTypeDigit maps a sub-product's cumulative GL number to the 9th
// digit of customer account numbers.
func productTypeDigit(glNum string) (byte, error) {
	if len(glNum) < 6 {
		return 0, fmt.Errorf("gl number %q too short for product type mapping", glNum)
	}

	switch glNum[:6] {
	case "110101": // savings bank
		return '1', nil
	case "110102": // current account
		return '2', nil
	case "110201": // term deposit
		return '3', nil
	case "110202": // recurring deposit
		return '4', nil
	case "210201": // overdraft / cash credit
		return '5', nil
	case "210301": // term loan
		return '6', nil
	default:
		return 0, fmt.Errorf("gl number %q has no product type mapping", glNum)
	}
}
