package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClaimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coupon_engine",
		Name:      "claims_total",
		Help:      "Coupon claim attempts by outcome.",
	}, []string{"outcome"})

	ClaimDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "coupon_engine",
		Name:      "claim_duration_seconds",
		Help:      "Latency of claim processing including lock wait.",
		Buckets:   prometheus.DefBuckets,
	})

	CleanupDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coupon_engine",
		Name:      "cleanup_deleted_total",
		Help:      "Expired coupon instances removed by the cleanup sweeper.",
	})
)

// ObserveClaim records one claim attempt. Outcome values mirror the
// issuance error taxonomy ("success", "sold_out", "already_issued", ...).
func ObserveClaim(outcome string, seconds float64) {
	ClaimsTotal.WithLabelValues(outcome).Inc()
	ClaimDuration.Observe(seconds)
}
