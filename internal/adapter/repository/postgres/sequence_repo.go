package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepository implements usecase.SequenceRepository with atomic
// upsert-increment counters.
type SequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(pool *pgxpool.Pool) *SequenceRepository {
	return &SequenceRepository{pool: pool}
}

// NextCustomerSeq returns the next sequence for a customer and product
// type digit.
func (r *SequenceRepository) NextCustomerSeq(ctx context.Context, customerID int64, productType byte) (int, error) {
	var seq int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customer_account_seqs (customer_id, product_type, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (customer_id, product_type) DO UPDATE
		SET seq = customer_account_seqs.seq + 1
		RETURNING seq`, customerID, string(productType)).Scan(&seq)

	return seq, err
}

// NextOfficeSeq returns the next sequence for a GL number.
func (r *SequenceRepository) NextOfficeSeq(ctx context.Context, glNum string) (int, error) {
	var seq int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO office_account_seqs (gl_num, seq)
		VALUES ($1, 1)
		ON CONFLICT (gl_num) DO UPDATE
		SET seq = office_account_seqs.seq + 1
		RETURNING seq`, glNum).Scan(&seq)

	return seq, err
}
