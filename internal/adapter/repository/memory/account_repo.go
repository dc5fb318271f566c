package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository over the Store.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create creates a new account record.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.accounts[account.AccountNo]; exists {
		return fmt.Errorf("account %s already exists", account.AccountNo)
	}

	r.store.accounts[account.AccountNo] = &accountRecord{acct: *account}

	return nil
}

// GetByNo returns the committed state of an account. If a posting holds
// the account's lock the read blocks until it commits or rolls back, so
// partially applied deltas are never observable.
func (r *AccountRepository) GetByNo(ctx context.Context, accountNo string) (*domain.Account, error) {
	r.store.mu.RLock()
	rec, ok := r.store.accounts[accountNo]
	r.store.mu.RUnlock()

	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	rec.mu.Lock()
	acct := rec.acct
	rec.mu.Unlock()

	return &acct, nil
}

// GetByNosForUpdate locks the given accounts for the duration of tx and
// returns their committed state. accountNos must be sorted; missing
// accounts are simply absent from the result.
func (r *AccountRepository) GetByNosForUpdate(ctx context.Context, tx usecase.Transaction, accountNos []string) ([]*domain.Account, error) {
	t := asTx(tx)

	accounts := make([]*domain.Account, 0, len(accountNos))
	for _, no := range accountNos {
		r.store.mu.RLock()
		rec, ok := r.store.accounts[no]
		r.store.mu.RUnlock()

		if !ok {
			continue
		}

		t.lockRecord(no, rec)

		acct := rec.acct
		accounts = append(accounts, &acct)
	}

	return accounts, nil
}

// UpdateBalance stages new current and available balances for a locked
// account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, accountNo string, balance, available decimal.Decimal, updatedAt time.Time) error {
	staged, ok := asTx(tx).stagedAccount(accountNo)
	if !ok {
		return domain.ErrAccountNotFound
	}

	staged.Balance = balance
	staged.AvailableBalance = available
	staged.Version++
	staged.UpdatedAt = updatedAt

	return nil
}

// AddInterestAccrued stages an increment of the accrued-interest balance
// for a locked account.
func (r *AccountRepository) AddInterestAccrued(ctx context.Context, tx usecase.Transaction, accountNo string, amount decimal.Decimal, updatedAt time.Time) error {
	staged, ok := asTx(tx).stagedAccount(accountNo)
	if !ok {
		return domain.ErrAccountNotFound
	}

	staged.InterestAccrued = staged.InterestAccrued.Add(amount)
	staged.UpdatedAt = updatedAt

	return nil
}

// Close stages the CLOSED status for a locked account.
func (r *AccountRepository) Close(ctx context.Context, tx usecase.Transaction, accountNo string, closedAt time.Time) error {
	staged, ok := asTx(tx).stagedAccount(accountNo)
	if !ok {
		return domain.ErrAccountNotFound
	}

	staged.Status = domain.StatusClosed
	staged.CloseDate = &closedAt
	staged.Version++
	staged.UpdatedAt = closedAt

	return nil
}

// List returns one page of accounts.
func (r *AccountRepository) List(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Account], error) {
	accounts := r.snapshot()

	sortAccounts(accounts, page.SortField, page.SortDir)

	total := int64(len(accounts))
	start := page.Offset()
	if start > len(accounts) {
		start = len(accounts)
	}

	end := start + page.Size
	if end > len(accounts) {
		end = len(accounts)
	}

	return &domain.Page[*domain.Account]{
		Content:       accounts[start:end],
		TotalElements: total,
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

// ListActive returns all ACTIVE accounts ordered by account number.
func (r *AccountRepository) ListActive(ctx context.Context) ([]*domain.Account, error) {
	accounts := r.snapshot()

	active := accounts[:0]
	for _, a := range accounts {
		if a.Status == domain.StatusActive {
			active = append(active, a)
		}
	}

	sort.Slice(active, func(i, j int) bool { return active[i].AccountNo < active[j].AccountNo })

	return active, nil
}

func (r *AccountRepository) snapshot() []*domain.Account {
	r.store.mu.RLock()
	records := make([]*accountRecord, 0, len(r.store.accounts))
	for _, rec := range r.store.accounts {
		records = append(records, rec)
	}
	r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(records))
	for _, rec := range records {
		rec.mu.Lock()
		acct := rec.acct
		rec.mu.Unlock()

		accounts = append(accounts, &acct)
	}

	return accounts
}

func sortAccounts(accounts []*domain.Account, field string, dir domain.SortDirection) {
	less := func(i, j int) bool { return accounts[i].AccountNo < accounts[j].AccountNo }

	switch field {
	case "openDate":
		less = func(i, j int) bool { return accounts[i].OpenDate.Before(accounts[j].OpenDate) }
	case "name":
		less = func(i, j int) bool { return accounts[i].Name < accounts[j].Name }
	}

	if dir == domain.SortDesc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}

	sort.SliceStable(accounts, less)
}
