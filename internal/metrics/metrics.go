// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "floodwatch"

var (
	AssessmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assessments_total",
		Help:      "Risk assessments served, by source and level.",
	}, []string{"source", "level"})

	PredictionFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_fallbacks_total",
		Help:      "Remote predictions answered by the local scorer instead, by reason.",
	}, []string{"reason"})

	AlertsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_generated_total",
		Help:      "Alerts produced by the feed, by level.",
	}, []string{"level"})

	AlertRefreshErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alert_refresh_errors_total",
		Help:      "Alert feed refreshes that failed.",
	})

	CurrentAlerts = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_alerts",
		Help:      "Alerts in the current snapshot, by level.",
	}, []string{"level"})

	AlertPublishFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alert_publish_failures_total",
		Help:      "Alerts that could not be published to MQTT.",
	})

	ContactMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_messages_total",
		Help:      "Contact form submissions stored.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by method and status code.",
	}, []string{"method", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(
		AssessmentsTotal,
		PredictionFallbacksTotal,
		AlertsGeneratedTotal,
		AlertRefreshErrorsTotal,
		CurrentAlerts,
		AlertPublishFailuresTotal,
		ContactMessagesTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// InstrumentHandler counts and times every request to next.
func InstrumentHandler(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(HTTPRequestsTotal,
		promhttp.InstrumentHandlerDuration(HTTPRequestDuration, next))
}
