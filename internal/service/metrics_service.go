package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	articlesCreated prometheus.Counter
	duplicateProbes *prometheus.CounterVec
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	articlesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kb_articles_created_total",
		Help: "Total number of articles accepted into the knowledge base",
	})

	duplicateProbes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kb_duplicate_checks_total",
		Help: "Total duplicate-check probes by outcome",
	}, []string{"outcome"})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		articlesCreated,
		duplicateProbes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		articlesCreated: articlesCreated,
		duplicateProbes: duplicateProbes,
	}
}

// Handler exposes the Prometheus exposition endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ArticleCreated increments the created-articles counter.
func (s *MetricsService) ArticleCreated() {
	s.articlesCreated.Inc()
}

// DuplicateProbe records a duplicate-check outcome ("exists" or "not_found").
func (s *MetricsService) DuplicateProbe(outcome string) {
	s.duplicateProbes.WithLabelValues(outcome).Inc()
}
