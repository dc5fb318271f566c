// Package memory is the in-process store adapter: an arena of account
// records indexed by account number, each guarded by its own mutex.
// Postings lock exactly the records they touch, so transactions on
// disjoint account sets run fully in parallel while transactions sharing
// an account serialize. It backs the STORE=memory standalone mode and the
// test suite.
package memory

import (
	"context"
	"sync"

	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
)

// Store holds all in-memory state shared by the repository adapters.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*accountRecord

	tranMu    sync.RWMutex
	trans     map[string]*domain.Transaction
	tranOrder []string

	subMu       sync.RWMutex
	subProducts map[string]domain.SubProduct

	eodMu   sync.Mutex
	eodRuns map[string]domain.EODRun

	seqMu      sync.Mutex
	custSeqs   map[string]int
	officeSeqs map[string]int
}

// accountRecord is one slot of the account arena. mu guards the committed
// state; it is held for the whole lifetime of a store transaction that
// locked the record, which is what serializes postings per account.
type accountRecord struct {
	mu   sync.Mutex
	acct domain.Account
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]*accountRecord),
		trans:       make(map[string]*domain.Transaction),
		subProducts: make(map[string]domain.SubProduct),
		eodRuns:     make(map[string]domain.EODRun),
		custSeqs:    make(map[string]int),
		officeSeqs:  make(map[string]int),
	}
}

// TxManager implements usecase.TransactionManager over the Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new store transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &Tx{
		store:   m.store,
		records: make(map[string]*accountRecord),
		staged:  make(map[string]*domain.Account),
	}, nil
}

// Tx is a store transaction: it tracks the account records it has locked
// and stages every write until Commit. Rollback discards the stage and
// releases the locks, so readers never observe a partially applied
// posting.
type Tx struct {
	store *Store

	mu      sync.Mutex
	locked  []*accountRecord // in acquisition order
	records map[string]*accountRecord
	staged  map[string]*domain.Account
	txns    []*domain.Transaction
	done    bool
}

// Commit applies all staged writes and releases the account locks.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true

	for no, staged := range t.staged {
		t.records[no].acct = *staged
	}

	if len(t.txns) > 0 {
		t.store.tranMu.Lock()
		for _, txn := range t.txns {
			t.store.trans[txn.TranID] = txn
			t.store.tranOrder = append(t.store.tranOrder, txn.TranID)
		}
		t.store.tranMu.Unlock()
	}

	t.unlockAll()

	return nil
}

// Rollback discards staged writes and releases the account locks. It is
// a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true

	t.unlockAll()

	return nil
}

func (t *Tx) unlockAll() {
	// Release in reverse acquisition order.
	for i := len(t.locked) - 1; i >= 0; i-- {
		t.locked[i].mu.Unlock()
	}

	t.locked = nil
}

// lockRecord locks rec on behalf of the transaction. Records must be
// requested in sorted account number order by the caller.
func (t *Tx) lockRecord(no string, rec *accountRecord) {
	rec.mu.Lock()

	t.mu.Lock()
	t.locked = append(t.locked, rec)
	t.records[no] = rec
	t.mu.Unlock()
}

// stagedAccount returns the transaction's working copy of a locked
// account, creating it from committed state on first write.
func (t *Tx) stagedAccount(no string) (*domain.Account, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if acct, ok := t.staged[no]; ok {
		return acct, true
	}

	rec, ok := t.records[no]
	if !ok {
		return nil, false
	}

	copied := rec.acct
	t.staged[no] = &copied

	return &copied, true
}

func (t *Tx) stageTransaction(txn *domain.Transaction) {
	t.mu.Lock()
	t.txns = append(t.txns, txn)
	t.mu.Unlock()
}

func asTx(tx usecase.Transaction) *Tx {
	return tx.(*Tx)
}
