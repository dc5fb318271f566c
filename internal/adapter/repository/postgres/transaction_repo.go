package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmkt/moneymarket/internal/domain"
	"github.com/mmkt/moneymarket/internal/usecase"
)

var transactionSortColumns = map[string]string{
	"tranId":    "tran_id",
	"valueDate": "value_date",
	"entryTime": "entry_time",
}

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create persists a transaction and its lines inside the posting
// transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (tran_id, value_date, entry_date, entry_time, narration, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		txn.TranID,
		timeToPgTimestamptz(txn.ValueDate),
		timeToPgTimestamptz(txn.EntryDate),
		timeToPgTimestamptz(txn.EntryTime),
		txn.Narration,
		string(txn.Status),
		timeToPgTimestamptz(txn.CreatedAt),
	)
	if err != nil {
		return err
	}

	for i := range txn.Lines {
		line := &txn.Lines[i]

		_, err := pgxTx.Exec(ctx, `
			INSERT INTO tran_lines (line_id, tran_id, line_no, account_no, dr_cr, currency,
				fcy_amt, exchange_rate, lcy_amt, balance_after, reference)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			line.LineID,
			txn.TranID,
			i+1,
			line.AccountNo,
			string(line.DrCr),
			line.Currency,
			decimalToNumeric(line.FcyAmt),
			decimalToNumeric(line.ExchangeRate),
			decimalToNumeric(line.LcyAmt),
			decimalToNumeric(line.BalanceAfter),
			line.Reference,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a transaction with its lines.
func (r *TransactionRepository) GetByID(ctx context.Context, tranID string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT tran_id, value_date, entry_date, entry_time, narration, status, created_at
		FROM transactions
		WHERE tran_id = $1`, tranID)

	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	lines, err := r.linesFor(ctx, tranID)
	if err != nil {
		return nil, err
	}
	txn.Lines = lines

	return txn, nil
}

// List lists transactions with pagination and sorting.
func (r *TransactionRepository) List(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Transaction], error) {
	return r.listWhere(ctx, page, "", nil)
}

// ListByAccount lists transactions with at least one line touching the
// account.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountNo string, page domain.PageRequest) (*domain.Page[*domain.Transaction], error) {
	where := `WHERE tran_id IN (SELECT DISTINCT tran_id FROM tran_lines WHERE account_no = $3)`
	return r.listWhere(ctx, page, where, []any{accountNo})
}

func (r *TransactionRepository) listWhere(ctx context.Context, page domain.PageRequest, where string, extra []any) (*domain.Page[*domain.Transaction], error) {
	column, ok := transactionSortColumns[page.SortField]
	if !ok {
		column = "entry_time"
	}

	direction := "ASC"
	if page.SortDir == domain.SortDesc {
		direction = "DESC"
	}

	countQuery := "SELECT count(*) FROM transactions " + where
	countArgs := make([]any, 0, 1)
	if len(extra) > 0 {
		// The count query binds the filter as $1.
		countQuery = "SELECT count(*) FROM transactions WHERE tran_id IN (SELECT DISTINCT tran_id FROM tran_lines WHERE account_no = $1)"
		countArgs = append(countArgs, extra...)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT tran_id, value_date, entry_date, entry_time, narration, status, created_at
		FROM transactions
		%s
		ORDER BY %s %s
		LIMIT $1 OFFSET $2`, where, column, direction)

	args := append([]any{page.Size, page.Offset()}, extra...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]*domain.Transaction, 0, page.Size)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, txn := range txns {
		lines, err := r.linesFor(ctx, txn.TranID)
		if err != nil {
			return nil, err
		}
		txn.Lines = lines
	}

	return &domain.Page[*domain.Transaction]{
		Content:       txns,
		TotalElements: total,
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

func (r *TransactionRepository) linesFor(ctx context.Context, tranID string) ([]domain.TransactionLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT line_id, account_no, dr_cr, currency, fcy_amt, exchange_rate, lcy_amt, balance_after, reference
		FROM tran_lines
		WHERE tran_id = $1
		ORDER BY line_no`, tranID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.TransactionLine
	for rows.Next() {
		var (
			line     domain.TransactionLine
			drCr     string
			fcy      pgtype.Numeric
			rate     pgtype.Numeric
			lcy      pgtype.Numeric
			balAfter pgtype.Numeric
		)

		err := rows.Scan(&line.LineID, &line.AccountNo, &drCr, &line.Currency, &fcy, &rate, &lcy, &balAfter, &line.Reference)
		if err != nil {
			return nil, err
		}

		line.DrCr = domain.DrCr(drCr)
		line.FcyAmt = numericToDecimal(fcy)
		line.ExchangeRate = numericToDecimal(rate)
		line.LcyAmt = numericToDecimal(lcy)
		line.BalanceAfter = numericToDecimal(balAfter)
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn       domain.Transaction
		status    string
		valueDate pgtype.Timestamptz
		entryDate pgtype.Timestamptz
		entryTime pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&txn.TranID, &valueDate, &entryDate, &entryTime, &txn.Narration, &status, &createdAt)
	if err != nil {
		return nil, err
	}

	txn.Status = domain.TranStatus(status)
	txn.ValueDate = valueDate.Time
	txn.EntryDate = entryDate.Time
	txn.EntryTime = entryTime.Time
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
