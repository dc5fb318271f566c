package domain

import "time"

// EODStatus is the status of an end-of-day accrual run.
type EODStatus string

const (
	EODRunning   EODStatus = "RUNNING"
	EODCompleted EODStatus = "COMPLETED"
	EODFailed    EODStatus = "FAILED"
)

// AccrualFailure records a per-account accrual failure. Failures are
// isolated: one bad account never aborts the run.
type AccrualFailure struct {
	AccountNo string
	Reason    string
}

// EODRun is the record of one end-of-day accrual run. At most one run is
// in flight at a time, and a date whose run COMPLETED cannot be re-run.
type EODRun struct {
	RunDate        time.Time // date only, UTC midnight
	Status         EODStatus
	ProcessedCount int
	Failures       []AccrualFailure
	StartedAt      time.Time
	FinishedAt     *time.Time
}
