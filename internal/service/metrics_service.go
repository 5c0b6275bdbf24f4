package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/csi-informatics/results-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	sheetOpDuration *prometheus.HistogramVec
	notifySent      prometheus.Counter
	notifyFailed    prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
	sheetOpCount         uint64
	sheetOpDurationTotal uint64
	notifySentCount      uint64
	notifyFailedCount    uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	sheetOpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheet_op_duration_seconds",
		Help:    "Duration of Google Sheets operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	notifySent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total notification emails delivered",
	})

	notifyFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total notification emails that failed to deliver",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, sheetOpDuration, notifySent, notifyFailed, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		sheetOpDuration: sheetOpDuration,
		notifySent:      notifySent,
		notifyFailed:    notifyFailed,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveSheetOp records the timing of one Sheets API call.
func (m *MetricsService) ObserveSheetOp(op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.sheetOpDuration.WithLabelValues(op).Observe(duration.Seconds())
	atomic.AddUint64(&m.sheetOpCount, 1)
	atomic.AddUint64(&m.sheetOpDurationTotal, uint64(duration.Nanoseconds()))
}

// IncNotification counts a notification delivery attempt by outcome.
func (m *MetricsService) IncNotification(sent bool) {
	if m == nil {
		return
	}
	if sent {
		m.notifySent.Inc()
		atomic.AddUint64(&m.notifySentCount, 1)
	} else {
		m.notifyFailed.Inc()
		atomic.AddUint64(&m.notifyFailedCount, 1)
	}
}

// Snapshot returns aggregated metrics for the admin console.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	sheetOps := atomic.LoadUint64(&m.sheetOpCount)
	sheetDuration := atomic.LoadUint64(&m.sheetOpDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgSheetMs float64
	if sheetOps > 0 {
		avgSheetMs = float64(sheetDuration) / float64(sheetOps) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		SheetOpCount:             sheetOps,
		AverageSheetOpDurationMs: avgSheetMs,
		NotificationsSent:        atomic.LoadUint64(&m.notifySentCount),
		NotificationsFailed:      atomic.LoadUint64(&m.notifyFailedCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
