package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	TransactionsPosted prometheus.Counter
	PostingDuration    prometheus.Histogram
	PostingAmount      prometheus.Histogram
	PostingErrors      *prometheus.CounterVec

	// Account metrics
	AccountsOpened    prometheus.Counter
	AccountsClosed    prometheus.Counter
	AccountBalance    *prometheus.GaugeVec
	AccountOperations *prometheus.CounterVec

	// End-of-day metrics
	EODRuns         *prometheus.CounterVec
	EODAccruals     prometheus.Counter
	EODFailures     prometheus.Counter
	EODDuration     prometheus.Histogram
	InterestAccrued prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Posting metrics
		TransactionsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneymarket_transactions_posted_total",
			Help: "Total number of transactions posted",
		}),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneymarket_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		PostingAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneymarket_posting_amount",
			Help:    "Posted transaction amounts in local currency",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneymarket_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),

		// Account metrics
		AccountsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneymarket_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		AccountsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneymarket_accounts_closed_total",
			Help: "Total number of accounts closed",
		}),
		AccountBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moneymarket_account_balance",
				Help: "Current account balance",
			},
			[]string{"account_no", "currency"},
		),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneymarket_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// End-of-day metrics
		EODRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneymarket_eod_runs_total",
				Help: "Total end-of-day runs by final status",
			},
			[]string{"status"},
		),
		EODAccruals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneymarket_eod_accruals_total",
			Help: "Total interest accruals posted by end-of-day runs",
		}),
		EODFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "moneymarket_eod_account_failures_total",
			Help: "Total per-account accrual failures",
		}),
		EODDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneymarket_eod_duration_seconds",
			Help:    "Duration of end-of-day runs",
			Buckets: []float64{0.1, 1, 10, 60, 300, 1800},
		}),
		InterestAccrued: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "moneymarket_interest_accrued",
			Help:    "Daily interest amounts accrued per account",
			Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000},
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneymarket_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moneymarket_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneymarket_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moneymarket_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "moneymarket_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneymarket_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneymarket_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moneymarket_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),
	}
}
