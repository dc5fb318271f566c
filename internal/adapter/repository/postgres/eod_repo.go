package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmkt/moneymarket/internal/domain"
)

// EODRunRepository implements usecase.EODRunRepository.
type EODRunRepository struct {
	pool *pgxpool.Pool
}

// NewEODRunRepository creates a new EODRunRepository.
func NewEODRunRepository(pool *pgxpool.Pool) *EODRunRepository {
	return &EODRunRepository{pool: pool}
}

// Put creates or replaces the run record for its date. The conditional
// upsert leaves COMPLETED rows untouched, which surfaces as zero affected
// rows and maps to domain.ErrEODAlreadyRun.
func (r *EODRunRepository) Put(ctx context.Context, run *domain.EODRun) error {
	failures, err := json.Marshal(run.Failures)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO eod_runs (run_date, status, processed_count, failures, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_date) DO UPDATE
		SET status = EXCLUDED.status,
			processed_count = EXCLUDED.processed_count,
			failures = EXCLUDED.failures,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at
		WHERE eod_runs.status <> $7`,
		dateToPgDate(run.RunDate),
		string(run.Status),
		run.ProcessedCount,
		failures,
		timeToPgTimestamptz(run.StartedAt),
		timePtrToPgTimestamptz(run.FinishedAt),
		string(domain.EODCompleted),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEODAlreadyRun
	}

	return nil
}

// GetByDate retrieves the run record for a date.
func (r *EODRunRepository) GetByDate(ctx context.Context, runDate time.Time) (*domain.EODRun, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT run_date, status, processed_count, failures, started_at, finished_at
		FROM eod_runs
		WHERE run_date = $1`, dateToPgDate(runDate))

	return scanEODRun(row)
}

// UpdateProgress persists the processed count of an in-flight run.
func (r *EODRunRepository) UpdateProgress(ctx context.Context, runDate time.Time, processed int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE eod_runs
		SET processed_count = $2
		WHERE run_date = $1`, dateToPgDate(runDate), processed)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEODRunNotFound
	}

	return nil
}

// Latest returns the most recent run record.
func (r *EODRunRepository) Latest(ctx context.Context) (*domain.EODRun, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT run_date, status, processed_count, failures, started_at, finished_at
		FROM eod_runs
		ORDER BY run_date DESC
		LIMIT 1`)

	return scanEODRun(row)
}

func scanEODRun(row pgx.Row) (*domain.EODRun, error) {
	var (
		run        domain.EODRun
		status     string
		failures   []byte
		runDate    pgtype.Date
		startedAt  pgtype.Timestamptz
		finishedAt pgtype.Timestamptz
	)

	err := row.Scan(&runDate, &status, &run.ProcessedCount, &failures, &startedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEODRunNotFound
		}

		return nil, err
	}

	run.Status = domain.EODStatus(status)
	run.RunDate = runDate.Time
	run.StartedAt = startedAt.Time
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}

	if len(failures) > 0 {
		if err := json.Unmarshal(failures, &run.Failures); err != nil {
			return nil, err
		}
	}

	return &run, nil
}

func dateToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}
