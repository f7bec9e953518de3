package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of a single consultant score calculation
	ScoreCalcDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "score_calc_duration_seconds",
		Help:    "Latency of consultant score calculations",
		Buckets: prometheus.DefBuckets,
	})

	ScoreCalcTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "score_calc_total",
		Help: "Consultant score calculations by result",
	}, []string{"result"})

	WebhookEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stripe_webhook_events_total",
		Help: "Stripe webhook events received by type",
	}, []string{"type"})

	TransfersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_transfers_total",
		Help: "Settlement transfers created by payee",
	}, []string{"payee"})

	TransfersSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_transfers_skipped_total",
		Help: "Settlement transfers skipped by reason",
	}, []string{"reason"})
)

func Init() {
	prometheus.MustRegister(
		ScoreCalcDuration,
		ScoreCalcTotal,
		WebhookEventsTotal,
		TransfersTotal,
		TransfersSkippedTotal,
	)
}
