package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for PayLedger.
type Metrics struct {
	// --- Record processing ---
	RecordsApplied *prometheus.CounterVec
	RecordsSkipped *prometheus.CounterVec
	ApplyDuration  *prometheus.HistogramVec

	// --- Engine state ---
	AccountsTracked    prometheus.Gauge
	AccountsLocked     prometheus.Counter
	CachedTransactions prometheus.Gauge
	DisputesOpen       prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	latencyBuckets := []float64{
		0.000001, 0.000005, 0.00001, 0.000025, 0.00005,
		0.0001, 0.00025, 0.0005, 0.001, 0.002, 0.005, 0.01,
	}

	return &Metrics{
		RecordsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_records_applied_total",
			Help: "Records successfully applied by the ledger engine",
		}, []string{"record_type"}),

		RecordsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_records_skipped_total",
			Help: "Records skipped without effect (insufficient funds, locked, invalid dispute target)",
		}, []string{"record_type", "reason"}),

		ApplyDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pay_record_apply_duration_seconds",
			Help:    "Time to apply a single record",
			Buckets: latencyBuckets,
		}, []string{"record_type"}),

		AccountsTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pay_accounts_tracked",
			Help: "Client accounts currently known to the engine",
		}),

		AccountsLocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pay_accounts_locked_total",
			Help: "Accounts frozen by a chargeback",
		}),

		CachedTransactions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pay_cached_transactions",
			Help: "Deposit/withdrawal entries retained for dispute lookup",
		}),

		DisputesOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pay_disputes_open",
			Help: "Transactions currently in the disputed state",
		}),
	}
}

// Serve exposes /metrics on addr. It blocks, so callers run it on its
// own goroutine; the handler only reads collectors, never engine state.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
