package metrics

import (
	"net/http"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's Prometheus metrics.
type MetricsManager struct {
	Registry *prometheus.Registry

	SearchesTotal        *prometheus.CounterVec // by outcome: ok, error
	FavoriteTogglesTotal *prometheus.CounterVec // by action and outcome class
	FeedCacheTotal       *prometheus.CounterVec // by result: hit, miss
	ReviewsCreatedTotal  prometheus.Counter
	ImagesUploadedTotal  prometheus.Counter
	ListingWritesTotal   *prometheus.CounterVec // by op: create, update, status, delete
	MessagesSentTotal    prometheus.Counter
	APIErrorsTotal       *prometheus.CounterVec
	APILatency           *prometheus.HistogramVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_searches_total",
			Help:      "Total number of listing searches by outcome.",
		}, []string{"outcome"}),
		FavoriteTogglesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorite_toggles_total",
			Help:      "Total number of favorite toggles by action and outcome.",
		}, []string{"action", "outcome"}),
		FeedCacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_cache_requests_total",
			Help:      "Latest-listings feed cache lookups by result.",
		}, []string{"result"}),
		ReviewsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_created_total",
			Help:      "Total number of reviews created.",
		}),
		ImagesUploadedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_images_uploaded_total",
			Help:      "Total number of listing images uploaded.",
		}),
		ListingWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_writes_total",
			Help:      "Total number of listing writes by operation.",
		}, []string{"op"}),
		MessagesSentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Total number of messages sent between users.",
		}),
		APIErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors by route and status.",
		}, []string{"route", "status"}),
		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_latency_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		m.SearchesTotal,
		m.FavoriteTogglesTotal,
		m.FeedCacheTotal,
		m.ReviewsCreatedTotal,
		m.ImagesUploadedTotal,
		m.ListingWritesTotal,
		m.MessagesSentTotal,
		m.APIErrorsTotal,
		m.APILatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// The Observe helpers tolerate a nil manager so callers may run without metrics.

func (m *MetricsManager) ObserveSearch(outcome string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsManager) ObserveToggle(action, outcome string) {
	if m == nil {
		return
	}
	m.FavoriteTogglesTotal.WithLabelValues(action, outcome).Inc()
}

func (m *MetricsManager) ObserveFeedCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.FeedCacheTotal.WithLabelValues(result).Inc()
}

func (m *MetricsManager) ObserveReviewCreated() {
	if m == nil {
		return
	}
	m.ReviewsCreatedTotal.Inc()
}

func (m *MetricsManager) ObserveImageUploaded() {
	if m == nil {
		return
	}
	m.ImagesUploadedTotal.Inc()
}

func (m *MetricsManager) ObserveListingWrite(op string) {
	if m == nil {
		return
	}
	m.ListingWritesTotal.WithLabelValues(op).Inc()
}

func (m *MetricsManager) ObserveMessageSent() {
	if m == nil {
		return
	}
	m.MessagesSentTotal.Inc()
}

func (m *MetricsManager) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.APILatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
	if status >= http.StatusBadRequest {
		m.APIErrorsTotal.WithLabelValues(route, http.StatusText(status)).Inc()
	}
}

// NewMetricsServer returns the HTTP server exposing /metrics, or nil when no
// port is configured.
func NewMetricsServer(port string, registry *prometheus.Registry) *http.Server {
	if port == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// StartMetricsServer blocks serving srv. A nil srv is a no-op.
func StartMetricsServer(srv *http.Server, appLogger *logger.Logger) error {
	if srv == nil {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}
	appLogger.Info("Prometheus metrics server starting", zap.String("addr", srv.Addr), zap.String("path", "/metrics"))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
