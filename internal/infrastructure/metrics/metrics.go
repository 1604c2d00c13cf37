package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	MovementsStarted   prometheus.Counter
	MovementsCompleted prometheus.Counter
	MovementsFailed    *prometheus.CounterVec
	MovementDuration   prometheus.Histogram
	MovementAmount     prometheus.Histogram

	// Ledger metrics
	BatchesPosted   prometheus.Counter
	BatchesReversed prometheus.Counter
	LinesPosted     prometheus.Counter

	// Limit metrics
	LimitRejections   *prometheus.CounterVec
	LimitReservations prometheus.Counter
	LimitReleases     prometheus.Counter
	LimitResets       prometheus.Counter

	// Accrual metrics
	AccrualsPosted  prometheus.Counter
	AccrualsSkipped prometheus.Counter
	AccrualAmount   prometheus.Histogram

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
		// Movement metrics
		MovementsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_movements_started_total",
			Help: "Total number of movements accepted for processing",
		}),
		MovementsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_movements_completed_total",
			Help: "Total number of movements completed",
		}),
		MovementsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_movements_failed_total",
				Help: "Total number of failed movements by reason",
			},
			[]string{"reason"},
		),
		MovementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_movement_duration_seconds",
			Help:    "Duration of movement processing",
			Buckets: prometheus.DefBuckets,
		}),
		MovementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_movement_amount",
			Help:    "Movement principal amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Ledger metrics
		BatchesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_batches_posted_total",
			Help: "Total number of journal batches posted",
		}),
		BatchesReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_batches_reversed_total",
			Help: "Total number of journal batches reversed",
		}),
		LinesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_journal_lines_posted_total",
			Help: "Total number of journal lines posted",
		}),

		// Limit metrics
		LimitRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_limit_rejections_total",
				Help: "Total number of limit rejections by limit type",
			},
			[]string{"limit_type"},
		),
		LimitReservations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_limit_reservations_total",
			Help: "Total number of limit reservations",
		}),
		LimitReleases: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_limit_releases_total",
			Help: "Total number of limit releases",
		}),
		LimitResets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_limit_resets_total",
			Help: "Total number of window limit resets",
		}),

		// Accrual metrics
		AccrualsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_accruals_posted_total",
			Help: "Total number of daily interest accruals posted",
		}),
		AccrualsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "corebank_accruals_skipped_total",
			Help: "Total number of accruals skipped as already posted",
		}),
		AccrualAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_accrual_amount",
			Help:    "Daily interest accrual amounts",
			Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000},
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corebank_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_db_queries_total",
				Help: "Total database queries by operation",
			},
			[]string{"operation"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corebank_db_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "corebank_db_connections",
			Help: "Current database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_db_errors_total",
				Help: "Total database errors by type",
			},
			[]string{"error_type"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_redis_operations_total",
				Help: "Total Redis operations by type",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_redis_errors_total",
				Help: "Total Redis errors by operation",
			},
			[]string{"operation"},
		),
	}
}
