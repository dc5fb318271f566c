package memory

import (
	"context"
	"time"

	"github.com/mmkt/moneymarket/internal/domain"
)

// EODRunRepository implements usecase.EODRunRepository over the Store.
type EODRunRepository struct {
	store *Store
}

// NewEODRunRepository creates a new EODRunRepository.
func NewEODRunRepository(store *Store) *EODRunRepository {
	return &EODRunRepository{store: store}
}

// Put creates or replaces the run record for its date. COMPLETED records
// are immutable.
func (r *EODRunRepository) Put(ctx context.Context, run *domain.EODRun) error {
	key := run.RunDate.Format("2006-01-02")

	r.store.eodMu.Lock()
	defer r.store.eodMu.Unlock()

	if existing, ok := r.store.eodRuns[key]; ok && existing.Status == domain.EODCompleted {
		return domain.ErrEODAlreadyRun
	}

	r.store.eodRuns[key] = cloneRun(run)

	return nil
}

// GetByDate returns the run record for a date.
func (r *EODRunRepository) GetByDate(ctx context.Context, runDate time.Time) (*domain.EODRun, error) {
	key := runDate.Format("2006-01-02")

	r.store.eodMu.Lock()
	defer r.store.eodMu.Unlock()

	run, ok := r.store.eodRuns[key]
	if !ok {
		return nil, domain.ErrEODRunNotFound
	}

	copied := cloneRun(&run)

	return &copied, nil
}

// UpdateProgress persists the processed count of an in-flight run.
func (r *EODRunRepository) UpdateProgress(ctx context.Context, runDate time.Time, processed int) error {
	key := runDate.Format("2006-01-02")

	r.store.eodMu.Lock()
	defer r.store.eodMu.Unlock()

	run, ok := r.store.eodRuns[key]
	if !ok {
		return domain.ErrEODRunNotFound
	}

	run.ProcessedCount = processed
	r.store.eodRuns[key] = run

	return nil
}

// Latest returns the most recent run record.
func (r *EODRunRepository) Latest(ctx context.Context) (*domain.EODRun, error) {
	r.store.eodMu.Lock()
	defer r.store.eodMu.Unlock()

	var latest *domain.EODRun
	for key := range r.store.eodRuns {
		run := r.store.eodRuns[key]
		if latest == nil || run.RunDate.After(latest.RunDate) {
			copied := cloneRun(&run)
			latest = &copied
		}
	}

	if latest == nil {
		return nil, domain.ErrEODRunNotFound
	}

	return latest, nil
}

func cloneRun(run *domain.EODRun) domain.EODRun {
	copied := *run
	copied.Failures = append([]domain.AccrualFailure(nil), run.Failures...)

	return copied
}
