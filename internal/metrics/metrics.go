package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Remote API metrics

	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cronjob",
		Name:      "api_request_duration_seconds",
		Help:      "Latency of calls to the remote cron API.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})

	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cronjob",
		Name:      "api_requests_total",
		Help:      "Calls to the remote cron API, by operation and status. status is \"error\" when no response arrived.",
	}, []string{"operation", "status"})

	// Scheduling outcomes

	SchedulesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cronjob",
		Name:      "schedules_total",
		Help:      "Schedule attempts, by kind and outcome.",
	}, []string{"kind", "outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cronjob",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cronjob",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		APIRequestDuration,
		APIRequestsTotal,
		SchedulesTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// Prober is what the metrics server needs to answer health probes.
type Prober interface {
	LivenessHandler() http.HandlerFunc
	ReadinessHandler() http.HandlerFunc
}

func NewServer(addr string, prober Prober) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if prober != nil {
		mux.HandleFunc("/healthz", prober.LivenessHandler())
		mux.HandleFunc("/readyz", prober.ReadinessHandler())
	}
	return &http.Server{Addr: addr, Handler: mux}
}
