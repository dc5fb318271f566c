package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc             func(ctx context.Context, account *domain.Account) error
	GetByNoFunc            func(ctx context.Context, accountNo string) (*domain.Account, error)
	GetByNosForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, accountNos []string) ([]*domain.Account, error)
	UpdateBalanceFunc      func(ctx context.Context, tx usecase.Transaction, accountNo string, balance, available decimal.Decimal, updatedAt time.Time) error
	AddInterestAccruedFunc func(ctx context.Context, tx usecase.Transaction, accountNo string, amount decimal.Decimal, updatedAt time.Time) error
	CloseFunc              func(ctx context.Context, tx usecase.Transaction, accountNo string, closedAt time.Time) error
	ListFunc               func(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Account], error)
	ListActiveFunc         func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.AccountNo] = account
	return nil
}

func (m *MockAccountRepository) GetByNo(ctx context.Context, accountNo string) (*domain.Account, error) {
	if m.GetByNoFunc != nil {
		return m.GetByNoFunc(ctx, accountNo)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[accountNo]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByNosForUpdate(ctx context.Context, tx usecase.Transaction, accountNos []string) ([]*domain.Account, error) {
	if m.GetByNosForUpdateFunc != nil {
		return m.GetByNosForUpdateFunc(ctx, tx, accountNos)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, no := range accountNos {
		if acc, ok := m.accounts[no]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, accountNo string, balance, available decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, accountNo, balance, available, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[accountNo]; ok {
		acc.Balance = balance
		acc.AvailableBalance = available
		acc.Version++
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) AddInterestAccrued(ctx context.Context, tx usecase.Transaction, accountNo string, amount decimal.Decimal, updatedAt time.Time) error {
	if m.AddInterestAccruedFunc != nil {
		return m.AddInterestAccruedFunc(ctx, tx, accountNo, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[accountNo]; ok {
		acc.InterestAccrued = acc.InterestAccrued.Add(amount)
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) Close(ctx context.Context, tx usecase.Transaction, accountNo string, closedAt time.Time) error {
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx, tx, accountNo, closedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[accountNo]; ok {
		acc.Status = domain.StatusClosed
		acc.CloseDate = &closedAt
		acc.UpdatedAt = closedAt
	}
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Account], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return &domain.Page[*domain.Account]{
		Content:       accounts,
		TotalElements: int64(len(accounts)),
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

func (m *MockAccountRepository) ListActive(ctx context.Context) ([]*domain.Account, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.Status == domain.StatusActive {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu    sync.RWMutex
	trans map[string]*domain.Transaction
	order []string

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc       func(ctx context.Context, tranID string) (*domain.Transaction, error)
	ListFunc          func(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Transaction], error)
	ListByAccountFunc func(ctx context.Context, accountNo string, page domain.PageRequest) (*domain.Page[*domain.Transaction], error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		trans: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trans[txn.TranID] = txn
	m.order = append(m.order, txn.TranID)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, tranID string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tranID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.trans[tranID]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) List(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Transaction], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	txns := make([]*domain.Transaction, 0, len(m.order))
	for _, id := range m.order {
		txns = append(txns, m.trans[id])
	}
	return &domain.Page[*domain.Transaction]{
		Content:       txns,
		TotalElements: int64(len(txns)),
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountNo string, page domain.PageRequest) (*domain.Page[*domain.Transaction], error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountNo, page)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, id := range m.order {
		txn := m.trans[id]
		for i := range txn.Lines {
			if txn.Lines[i].AccountNo == accountNo {
				txns = append(txns, txn)
				break
			}
		}
	}
	return &domain.Page[*domain.Transaction]{
		Content:       txns,
		TotalElements: int64(len(txns)),
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

// MockSubProductRepository is a mock implementation of SubProductRepository.
type MockSubProductRepository struct {
	mu          sync.RWMutex
	subProducts map[string]*domain.SubProduct

	CreateFunc  func(ctx context.Context, subProduct *domain.SubProduct) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.SubProduct, error)
}

func NewMockSubProductRepository() *MockSubProductRepository {
	return &MockSubProductRepository{
		subProducts: make(map[string]*domain.SubProduct),
	}
}

func (m *MockSubProductRepository) Create(ctx context.Context, subProduct *domain.SubProduct) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, subProduct)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subProducts[subProduct.ID] = subProduct
	return nil
}

func (m *MockSubProductRepository) GetByID(ctx context.Context, id string) (*domain.SubProduct, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sp, ok := m.subProducts[id]; ok {
		return sp, nil
	}
	return nil, domain.ErrSubProductNotFound
}

// MockEODRunRepository is a mock implementation of EODRunRepository.
type MockEODRunRepository struct {
	mu   sync.RWMutex
	runs map[string]*domain.EODRun

	PutFunc            func(ctx context.Context, run *domain.EODRun) error
	GetByDateFunc      func(ctx context.Context, runDate time.Time) (*domain.EODRun, error)
	UpdateProgressFunc func(ctx context.Context, runDate time.Time, processed int) error
	LatestFunc         func(ctx context.Context) (*domain.EODRun, error)
}

func NewMockEODRunRepository() *MockEODRunRepository {
	return &MockEODRunRepository{
		runs: make(map[string]*domain.EODRun),
	}
}

func (m *MockEODRunRepository) Put(ctx context.Context, run *domain.EODRun) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, run)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := run.RunDate.Format("2006-01-02")
	if existing, ok := m.runs[key]; ok && existing.Status == domain.EODCompleted {
		return domain.ErrEODAlreadyRun
	}
	copied := *run
	m.runs[key] = &copied
	return nil
}

func (m *MockEODRunRepository) GetByDate(ctx context.Context, runDate time.Time) (*domain.EODRun, error) {
	if m.GetByDateFunc != nil {
		return m.GetByDateFunc(ctx, runDate)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if run, ok := m.runs[runDate.Format("2006-01-02")]; ok {
		return run, nil
	}
	return nil, domain.ErrEODRunNotFound
}

func (m *MockEODRunRepository) UpdateProgress(ctx context.Context, runDate time.Time, processed int) error {
	if m.UpdateProgressFunc != nil {
		return m.UpdateProgressFunc(ctx, runDate, processed)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if run, ok := m.runs[runDate.Format("2006-01-02")]; ok {
		run.ProcessedCount = processed
	}
	return nil
}

func (m *MockEODRunRepository) Latest(ctx context.Context) (*domain.EODRun, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.EODRun
	for _, run := range m.runs {
		if latest == nil || run.RunDate.After(latest.RunDate) {
			latest = run
		}
	}
	if latest == nil {
		return nil, domain.ErrEODRunNotFound
	}
	return latest, nil
}

// MockSequenceRepository is a mock implementation of SequenceRepository.
type MockSequenceRepository struct {
	mu         sync.Mutex
	custSeqs   map[string]int
	officeSeqs map[string]int

	NextCustomerSeqFunc func(ctx context.Context, customerID int64, productType byte) (int, error)
	NextOfficeSeqFunc   func(ctx context.Context, glNum string) (int, error)
}

func NewMockSequenceRepository() *MockSequenceRepository {
	return &MockSequenceRepository{
		custSeqs:   make(map[string]int),
		officeSeqs: make(map[string]int),
	}
}

func (m *MockSequenceRepository) NextCustomerSeq(ctx context.Context, customerID int64, productType byte) (int, error) {
	if m.NextCustomerSeqFunc != nil {
		return m.NextCustomerSeqFunc(ctx, customerID, productType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%d:%c", customerID, productType)
	m.custSeqs[key]++
	return m.custSeqs[key], nil
}

func (m *MockSequenceRepository) NextOfficeSeq(ctx context.Context, glNum string) (int, error) {
	if m.NextOfficeSeqFunc != nil {
		return m.NextOfficeSeqFunc(ctx, glNum)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.officeSeqs[glNum]++
	return m.officeSeqs[glNum], nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu     sync.Mutex
	LastTx *MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastTx = &MockTransaction{}
	return m.LastTx, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu sync.Mutex
	n  int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("%06d", m.n)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		keys: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.keys[key]; ok {
		return true, existing, nil
	}
	m.keys[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = response
	return nil
}
