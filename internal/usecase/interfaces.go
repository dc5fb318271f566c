package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/domain"
)

// AccountRepository defines data access for accounts and their balances.
// Balances are mutated exclusively through UpdateBalance with values derived
// from signed posting deltas; there is no direct "set balance" path.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByNo(ctx context.Context, accountNo string) (*domain.Account, error)
	// GetByNosForUpdate locks the given accounts for the duration of tx.
	// Callers must pass accountNos sorted to keep lock order global.
	GetByNosForUpdate(ctx context.Context, tx Transaction, accountNos []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, accountNo string, balance, available decimal.Decimal, updatedAt time.Time) error
	AddInterestAccrued(ctx context.Context, tx Transaction, accountNo string, amount decimal.Decimal, updatedAt time.Time) error
	Close(ctx context.Context, tx Transaction, accountNo string, closedAt time.Time) error
	List(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Account], error)
	ListActive(ctx context.Context) ([]*domain.Account, error)
}

// TransactionRepository defines data access for posted transactions.
// Transactions are append-only; there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, tranID string) (*domain.Transaction, error)
	List(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Transaction], error)
	ListByAccount(ctx context.Context, accountNo string, page domain.PageRequest) (*domain.Page[*domain.Transaction], error)
}

// SubProductRepository exposes the sub-product catalog. The catalog is
// owned by a collaborator system and is read-only from the ledger's
// perspective; Create exists for catalog sync and test seeding.
type SubProductRepository interface {
	Create(ctx context.Context, subProduct *domain.SubProduct) error
	GetByID(ctx context.Context, id string) (*domain.SubProduct, error)
}

// EODRunRepository defines data access for end-of-day run records.
type EODRunRepository interface {
	// Put creates or replaces the run record for its date. A COMPLETED
	// record is never replaced; attempting to do so returns
	// domain.ErrEODAlreadyRun.
	Put(ctx context.Context, run *domain.EODRun) error
	GetByDate(ctx context.Context, runDate time.Time) (*domain.EODRun, error)
	// UpdateProgress persists the processed count of an in-flight run so
	// partial progress stays visible while the run executes.
	UpdateProgress(ctx context.Context, runDate time.Time, processed int) error
	// Latest returns the most recent run, the business date watermark.
	Latest(ctx context.Context) (*domain.EODRun, error)
}

// SequenceRepository hands out account number sequences.
type SequenceRepository interface {
	// NextCustomerSeq returns the next 1-based sequence for a customer and
	// product type digit.
	NextCustomerSeq(ctx context.Context, customerID int64, productType byte) (int, error)
	// NextOfficeSeq returns the next 1-based sequence for a GL number.
	NextOfficeSeq(ctx context.Context, glNum string) (int, error)
}

// Transaction represents a store transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles store transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyProcessing is the placeholder an in-flight request parks
// under its key. It is never replayed as a response body.
const IdempotencyProcessing = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
