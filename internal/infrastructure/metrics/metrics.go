package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Entry metrics
	EntriesCreated prometheus.Counter
	EntriesUpdated prometheus.Counter
	EntriesDeleted prometheus.Counter
	EntryAmount    *prometheus.HistogramVec
	EntryErrors    *prometheus.CounterVec

	// Ledger metrics
	OverviewRequests prometheus.Counter
	OverviewCache    *prometheus.CounterVec
	ReportsExported  prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	Signups        prometheus.Counter
	AuthAttempts   *prometheus.CounterVec
	ActiveSessions prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "borrowbook_entries_created_total",
			Help: "Total number of ledger entries created",
		}),
		EntriesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "borrowbook_entries_updated_total",
			Help: "Total number of ledger entries updated",
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "borrowbook_entries_deleted_total",
			Help: "Total number of ledger entries deleted",
		}),
		EntryAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "borrowbook_entry_amount",
				Help:    "Amounts of recorded entries",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
			},
			[]string{"type"},
		),
		EntryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "borrowbook_entry_errors_total",
				Help: "Total number of entry operation errors by type",
			},
			[]string{"error_type"},
		),

		OverviewRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "borrowbook_overview_requests_total",
			Help: "Total number of ledger overview requests",
		}),
		OverviewCache: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "borrowbook_overview_cache_total",
				Help: "Overview cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		ReportsExported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "borrowbook_reports_exported_total",
			Help: "Total number of PDF reports exported",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "borrowbook_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "borrowbook_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		Signups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "borrowbook_signups_total",
			Help: "Total number of user registrations",
		}),
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "borrowbook_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "borrowbook_active_sessions",
			Help: "Current number of active sessions",
		}),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "borrowbook_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
