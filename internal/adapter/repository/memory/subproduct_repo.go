package memory

import (
	"context"
	"fmt"

	"github.com/mmkt/moneymarket/internal/domain"
)

// SubProductRepository implements usecase.SubProductRepository over the
// Store.
type SubProductRepository struct {
	store *Store
}

// NewSubProductRepository creates a new SubProductRepository.
func NewSubProductRepository(store *Store) *SubProductRepository {
	return &SubProductRepository{store: store}
}

// Create adds a catalog entry.
func (r *SubProductRepository) Create(ctx context.Context, subProduct *domain.SubProduct) error {
	r.store.subMu.Lock()
	defer r.store.subMu.Unlock()

	if _, exists := r.store.subProducts[subProduct.ID]; exists {
		return fmt.Errorf("sub-product %s already exists", subProduct.ID)
	}

	r.store.subProducts[subProduct.ID] = *subProduct

	return nil
}

// GetByID returns a catalog entry.
func (r *SubProductRepository) GetByID(ctx context.Context, id string) (*domain.SubProduct, error) {
	r.store.subMu.RLock()
	defer r.store.subMu.RUnlock()

	subProduct, ok := r.store.subProducts[id]
	if !ok {
		return nil, domain.ErrSubProductNotFound
	}

	return &subProduct, nil
}
