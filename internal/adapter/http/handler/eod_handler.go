package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmkt/moneymarket/internal/adapter/http/dto"
	"github.com/mmkt/moneymarket/internal/domain"
)

// EODService defines the behavior needed by EODHandler.
type EODService interface {
	Run(ctx context.Context, asOf *time.Time) (*domain.EODRun, error)
	GetRun(ctx context.Context, runDate time.Time) (*domain.EODRun, error)
	LatestRun(ctx context.Context) (*domain.EODRun, error)
}

// EODHandler handles end-of-day administration requests.
type EODHandler struct {
	eodUC EODService
}

// NewEODHandler creates a new EODHandler.
func NewEODHandler(eodUC EODService) *EODHandler {
	return &EODHandler{eodUC: eodUC}
}

// Run triggers the end-of-day accrual run. An optional date query parameter
// (YYYY-MM-DD) runs for that business date instead of today.
func (h *EODHandler) Run(w http.ResponseWriter, r *http.Request) {
	var asOf *time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date (use YYYY-MM-DD)", err.Error())
			return
		}
		asOf = &parsed
	}

	run, err := h.eodUC.Run(r.Context(), asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "eod run failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EODRunFromDomain(run))
}

// GetRun returns the run record for a date, including partial progress of
// an in-flight run.
func (h *EODHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	runDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date (use YYYY-MM-DD)", err.Error())
		return
	}

	run, err := h.eodUC.GetRun(r.Context(), runDate)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get eod run", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EODRunFromDomain(run))
}

// Latest returns the most recent run, the ledger's business date watermark.
func (h *EODHandler) Latest(w http.ResponseWriter, r *http.Request) {
	run, err := h.eodUC.LatestRun(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get latest eod run", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EODRunFromDomain(run))
}
