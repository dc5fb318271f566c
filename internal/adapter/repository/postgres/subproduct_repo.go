package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmkt/moneymarket/internal/domain"
)

// SubProductRepository implements usecase.SubProductRepository.
type SubProductRepository struct {
	pool *pgxpool.Pool
}

// NewSubProductRepository creates a new SubProductRepository.
func NewSubProductRepository(pool *pgxpool.Pool) *SubProductRepository {
	return &SubProductRepository{pool: pool}
}

// Create adds a catalog entry.
func (r *SubProductRepository) Create(ctx context.Context, subProduct *domain.SubProduct) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sub_products (id, name, gl_num, interest_bearing, interest_rate, allow_overdraft, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		subProduct.ID,
		subProduct.Name,
		subProduct.GLNum,
		subProduct.InterestBearing,
		decimalToNumeric(subProduct.InterestRate),
		subProduct.AllowOverdraft,
		string(subProduct.Status),
	)

	return err
}

// GetByID returns a catalog entry.
func (r *SubProductRepository) GetByID(ctx context.Context, id string) (*domain.SubProduct, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, gl_num, interest_bearing, interest_rate, allow_overdraft, status
		FROM sub_products
		WHERE id = $1`, id)

	var (
		sp     domain.SubProduct
		rate   pgtype.Numeric
		status string
	)

	err := row.Scan(&sp.ID, &sp.Name, &sp.GLNum, &sp.InterestBearing, &rate, &sp.AllowOverdraft, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubProductNotFound
		}

		return nil, err
	}

	sp.InterestRate = numericToDecimal(rate)
	sp.Status = domain.SubProductStatus(status)

	return &sp, nil
}
