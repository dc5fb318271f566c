package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmkt/moneymarket/internal/adapter/http/dto"
	"github.com/mmkt/moneymarket/internal/domain"
)

type eodServiceStub struct {
	runFn    func(ctx context.Context, asOf *time.Time) (*domain.EODRun, error)
	getFn    func(ctx context.Context, runDate time.Time) (*domain.EODRun, error)
	latestFn func(ctx context.Context) (*domain.EODRun, error)
}

func (s *eodServiceStub) Run(ctx context.Context, asOf *time.Time) (*domain.EODRun, error) {
	return s.runFn(ctx, asOf)
}

func (s *eodServiceStub) GetRun(ctx context.Context, runDate time.Time) (*domain.EODRun, error) {
	return s.getFn(ctx, runDate)
}

func (s *eodServiceStub) LatestRun(ctx context.Context) (*domain.EODRun, error) {
	return s.latestFn(ctx)
}

func completedRun() *domain.EODRun {
	finished := time.Date(2026, 8, 28, 22, 5, 0, 0, time.UTC)
	return &domain.EODRun{
		RunDate:        time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Status:         domain.EODCompleted,
		ProcessedCount: 3,
		StartedAt:      time.Date(2026, 8, 28, 22, 0, 0, 0, time.UTC),
		FinishedAt:     &finished,
	}
}

func TestEODHandler_Run_WithDate(t *testing.T) {
	h := NewEODHandler(&eodServiceStub{
		runFn: func(ctx context.Context, asOf *time.Time) (*domain.EODRun, error) {
			if asOf == nil || asOf.Format("2006-01-02") != "2026-08-28" {
				t.Fatalf("expected asOf 2026-08-28, got %v", asOf)
			}
			return completedRun(), nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/run-eod?date=2026-08-28", nil)
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.EODRunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Date != "2026-08-28" || resp.Status != "COMPLETED" || resp.ProcessedCount != 3 {
		t.Fatalf("unexpected run response: %+v", resp)
	}
}

func TestEODHandler_Run_DefaultsToToday(t *testing.T) {
	h := NewEODHandler(&eodServiceStub{
		runFn: func(ctx context.Context, asOf *time.Time) (*domain.EODRun, error) {
			if asOf != nil {
				t.Fatalf("expected nil asOf without a date parameter, got %v", asOf)
			}
			return completedRun(), nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/run-eod", nil)
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEODHandler_Run_BadDate(t *testing.T) {
	h := NewEODHandler(&eodServiceStub{
		runFn: func(ctx context.Context, asOf *time.Time) (*domain.EODRun, error) {
			t.Fatal("Run should not be called for an unparseable date")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/run-eod?date=28-08-2026", nil)
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEODHandler_Run_AlreadyCompleted(t *testing.T) {
	h := NewEODHandler(&eodServiceStub{
		runFn: func(ctx context.Context, asOf *time.Time) (*domain.EODRun, error) {
			return nil, domain.ErrEODAlreadyRun
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/run-eod?date=2026-08-28", nil)
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEODHandler_Run_InFlight(t *testing.T) {
	h := NewEODHandler(&eodServiceStub{
		runFn: func(ctx context.Context, asOf *time.Time) (*domain.EODRun, error) {
			return nil, domain.ErrEODInFlight
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/run-eod", nil)
	rec := httptest.NewRecorder()

	h.Run(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEODHandler_GetRun(t *testing.T) {
	run := completedRun()
	run.Failures = []domain.AccrualFailure{{AccountNo: "000000011001", Reason: "sub-product not found"}}

	h := NewEODHandler(&eodServiceStub{
		getFn: func(ctx context.Context, runDate time.Time) (*domain.EODRun, error) {
			if !runDate.Equal(run.RunDate) {
				t.Fatalf("expected run date %v, got %v", run.RunDate, runDate)
			}
			return run, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/eod-runs/2026-08-28", nil)
	req = setChiURLParam(req, "date", "2026-08-28")
	rec := httptest.NewRecorder()

	h.GetRun(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.EODRunResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Failures) != 1 || resp.Failures[0].AccountNo != "000000011001" {
		t.Fatalf("expected failure detail in response, got %+v", resp.Failures)
	}
}

func TestEODHandler_GetRun_NotFound(t *testing.T) {
	h := NewEODHandler(&eodServiceStub{
		getFn: func(ctx context.Context, runDate time.Time) (*domain.EODRun, error) {
			return nil, domain.ErrEODRunNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/eod-runs/2026-01-01", nil)
	req = setChiURLParam(req, "date", "2026-01-01")
	rec := httptest.NewRecorder()

	h.GetRun(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEODHandler_Latest(t *testing.T) {
	h := NewEODHandler(&eodServiceStub{
		latestFn: func(ctx context.Context) (*domain.EODRun, error) {
			return completedRun(), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/eod-runs/latest", nil)
	rec := httptest.NewRecorder()

	h.Latest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
