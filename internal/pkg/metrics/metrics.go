// Package metrics exposes the service's Prometheus instruments.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring webhook reconciliation health
var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of webhook events by terminal outcome",
		},
		[]string{"outcome"},
	)

	WebhookRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_rejected_total",
			Help: "Total number of webhook requests rejected before reconciliation",
		},
		[]string{"cause"},
	)

	WebhookProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_processing_duration_seconds",
			Help:    "Duration of webhook event reconciliation",
			Buckets: prometheus.DefBuckets,
		},
	)

	OverdueInspectionsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "overdue_inspections",
			Help: "Number of returns past their inspection deadline at the last sweep",
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(WebhookRejectedTotal)
	prometheus.MustRegister(WebhookProcessingDuration)
	prometheus.MustRegister(OverdueInspectionsGauge)
}
