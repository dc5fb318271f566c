package memory

import (
	"context"
	"sort"

	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository over the
// Store. The ledger is append-only: committed transactions are never
// mutated, so reads hand out the stored values directly.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stages a transaction for commit.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	asTx(tx).stageTransaction(txn)
	return nil
}

// GetByID returns a committed transaction.
func (r *TransactionRepository) GetByID(ctx context.Context, tranID string) (*domain.Transaction, error) {
	r.store.tranMu.RLock()
	defer r.store.tranMu.RUnlock()

	txn, ok := r.store.trans[tranID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	return txn, nil
}

// List returns one page of committed transactions.
func (r *TransactionRepository) List(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Transaction], error) {
	return r.listFiltered(page, func(*domain.Transaction) bool { return true })
}

// ListByAccount returns one page of transactions touching an account.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountNo string, page domain.PageRequest) (*domain.Page[*domain.Transaction], error) {
	return r.listFiltered(page, func(txn *domain.Transaction) bool {
		for i := range txn.Lines {
			if txn.Lines[i].AccountNo == accountNo {
				return true
			}
		}
		return false
	})
}

func (r *TransactionRepository) listFiltered(page domain.PageRequest, match func(*domain.Transaction) bool) (*domain.Page[*domain.Transaction], error) {
	r.store.tranMu.RLock()
	all := make([]*domain.Transaction, 0, len(r.store.tranOrder))
	for _, id := range r.store.tranOrder {
		if txn := r.store.trans[id]; match(txn) {
			all = append(all, txn)
		}
	}
	r.store.tranMu.RUnlock()

	sortTransactions(all, page.SortField, page.SortDir)

	total := int64(len(all))
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}

	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}

	return &domain.Page[*domain.Transaction]{
		Content:       all[start:end],
		TotalElements: total,
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

func sortTransactions(txns []*domain.Transaction, field string, dir domain.SortDirection) {
	less := func(i, j int) bool { return txns[i].EntryTime.Before(txns[j].EntryTime) }

	switch field {
	case "tranId":
		less = func(i, j int) bool { return txns[i].TranID < txns[j].TranID }
	case "valueDate":
		less = func(i, j int) bool { return txns[i].ValueDate.Before(txns[j].ValueDate) }
	}

	if dir == domain.SortDesc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}

	sort.SliceStable(txns, less)
}
