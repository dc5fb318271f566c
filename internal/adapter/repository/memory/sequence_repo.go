package memory

import (
	"context"
	"fmt"
)

// SequenceRepository implements usecase.SequenceRepository over the Store.
type SequenceRepository struct {
	store *Store
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(store *Store) *SequenceRepository {
	return &SequenceRepository{store: store}
}

// NextCustomerSeq returns the next sequence for a customer and product
// type digit.
func (r *SequenceRepository) NextCustomerSeq(ctx context.Context, customerID int64, productType byte) (int, error) {
	key := fmt.Sprintf("%d:%c", customerID, productType)

	r.store.seqMu.Lock()
	defer r.store.seqMu.Unlock()

	r.store.custSeqs[key]++

	return r.store.custSeqs[key], nil
}

// NextOfficeSeq returns the next sequence for a GL number.
func (r *SequenceRepository) NextOfficeSeq(ctx context.Context, glNum string) (int, error) {
	r.store.seqMu.Lock()
	defer r.store.seqMu.Unlock()

	r.store.officeSeqs[glNum]++

	return r.store.officeSeqs[glNum], nil
}
