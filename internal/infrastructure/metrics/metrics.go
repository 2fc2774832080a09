package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Record metrics
	RecordsApplied *prometheus.CounterVec
	RecordsSkipped *prometheus.CounterVec

	// Batch metrics
	BatchesProcessed prometheus.Counter
	BatchesRejected  prometheus.Counter
	BatchDuration    prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsLocked  prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		RecordsApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_records_applied_total",
				Help: "Total number of records applied, by kind",
			},
			[]string{"kind"},
		),
		RecordsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_records_skipped_total",
				Help: "Total number of records skipped, by kind and reason",
			},
			[]string{"kind", "reason"},
		),

		BatchesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_batches_processed_total",
			Help: "Total number of batches processed to completion",
		}),
		BatchesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_batches_rejected_total",
			Help: "Total number of batches rejected by structural validation",
		}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "payengine_batch_duration_seconds",
			Help:    "Duration of batch processing",
			Buckets: prometheus.DefBuckets,
		}),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsLocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_accounts_locked_total",
			Help: "Total number of accounts locked by chargebacks",
		}),
	}
}
