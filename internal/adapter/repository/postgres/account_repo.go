package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
)

const accountColumns = `account_no, name, kind, customer_id, sub_product_id, gl_num, currency,
	balance, available_balance, interest_accrued, status, allow_overdraft, recon_required,
	open_date, close_date, version, created_at, updated_at`

// accountSortColumns whitelists sortable fields against their columns.
var accountSortColumns = map[string]string{
	"accountNo": "account_no",
	"openDate":  "open_date",
	"name":      "name",
}

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		account.AccountNo,
		account.Name,
		string(account.Kind),
		account.CustomerID,
		account.SubProductID,
		account.GLNum,
		account.Currency,
		decimalToNumeric(account.Balance),
		decimalToNumeric(account.AvailableBalance),
		decimalToNumeric(account.InterestAccrued),
		string(account.Status),
		account.AllowOverdraft,
		account.ReconRequired,
		timeToPgTimestamptz(account.OpenDate),
		timePtrToPgTimestamptz(account.CloseDate),
		account.Version,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByNo retrieves an account by its number.
func (r *AccountRepository) GetByNo(ctx context.Context, accountNo string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_no = $1`, accountNo)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// GetByNosForUpdate retrieves multiple accounts with FOR UPDATE locks.
// Rows are locked in account number order, matching the caller's sorted
// input, so concurrent postings acquire locks in one global order.
func (r *AccountRepository) GetByNosForUpdate(ctx context.Context, tx usecase.Transaction, accountNos []string) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_no = ANY($1)
		ORDER BY account_no
		FOR UPDATE`, accountNos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance updates the balances of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, accountNo string, balance, available decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE accounts
		SET balance = $2, available_balance = $3, version = version + 1, updated_at = $4
		WHERE account_no = $1`,
		accountNo, decimalToNumeric(balance), decimalToNumeric(available), timeToPgTimestamptz(updatedAt))

	return err
}

// AddInterestAccrued adds to the interest-accrued balance of an account.
func (r *AccountRepository) AddInterestAccrued(ctx context.Context, tx usecase.Transaction, accountNo string, amount decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE accounts
		SET interest_accrued = interest_accrued + $2, updated_at = $3
		WHERE account_no = $1`,
		accountNo, decimalToNumeric(amount), timeToPgTimestamptz(updatedAt))

	return err
}

// Close marks an account CLOSED.
func (r *AccountRepository) Close(ctx context.Context, tx usecase.Transaction, accountNo string, closedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE accounts
		SET status = $2, close_date = $3, updated_at = $3
		WHERE account_no = $1`,
		accountNo, string(domain.StatusClosed), timeToPgTimestamptz(closedAt))

	return err
}

// List lists accounts with pagination and sorting.
func (r *AccountRepository) List(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Account], error) {
	column, ok := accountSortColumns[page.SortField]
	if !ok {
		column = "account_no"
	}

	direction := "ASC"
	if page.SortDir == domain.SortDesc {
		direction = "DESC"
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&total); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY %s %s
		LIMIT $1 OFFSET $2`, column, direction)

	rows, err := r.pool.Query(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0, page.Size)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.Page[*domain.Account]{
		Content:       accounts,
		TotalElements: total,
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

// ListActive returns every ACTIVE account, in account number order.
func (r *AccountRepository) ListActive(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE status = $1
		ORDER BY account_no`, string(domain.StatusActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account    domain.Account
		kind       string
		status     string
		customerID *int64
		balance    pgtype.Numeric
		available  pgtype.Numeric
		accrued    pgtype.Numeric
		openDate   pgtype.Timestamptz
		closeDate  pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&account.AccountNo,
		&account.Name,
		&kind,
		&customerID,
		&account.SubProductID,
		&account.GLNum,
		&account.Currency,
		&balance,
		&available,
		&accrued,
		&status,
		&account.AllowOverdraft,
		&account.ReconRequired,
		&openDate,
		&closeDate,
		&account.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Kind = domain.AccountKind(kind)
	account.Status = domain.AccountStatus(status)
	account.CustomerID = customerID
	account.Balance = numericToDecimal(balance)
	account.AvailableBalance = numericToDecimal(available)
	account.InterestAccrued = numericToDecimal(accrued)
	account.OpenDate = openDate.Time
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time
	if closeDate.Valid {
		t := closeDate.Time
		account.CloseDate = &t
	}

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
