package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketplace"

// Push outcomes for NotificationsPushed.
const (
	PushDelivered = "delivered"
	PushDropped   = "dropped"
	PushOffline   = "offline"
)

// ServerMetrics groups every collector the service exports. Each instance owns its registry,
// so tests can build as many as they like.
type ServerMetrics struct {
	Requests            *prometheus.CounterVec
	LatencyMS           *prometheus.HistogramVec
	RealtimeConnections prometheus.Gauge
	NotificationsPushed *prometheus.CounterVec
	OutboxPublished     *prometheus.CounterVec

	registry *prometheus.Registry
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler", "method"})
	connections := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "realtime_connections",
		Help:      "Open real-time connections.",
	})
	pushed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "notifications_pushed_total",
		Help:      "Notification push attempts by outcome.",
	}, []string{"result"})
	outbox := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "outbox_events_total",
		Help:      "Outbox events handled by the relay, by outcome.",
	}, []string{"result"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		requests, latency, connections, pushed, outbox,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &ServerMetrics{
		Requests:            requests,
		LatencyMS:           latency,
		RealtimeConnections: connections,
		NotificationsPushed: pushed,
		OutboxPublished:     outbox,
		registry:            reg,
	}
}

// Registry exposes the underlying registry for tests.
func (m *ServerMetrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves this instance's registry in the Prometheus text format.
func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePush records one notification push outcome. Safe on a nil receiver.
func (m *ServerMetrics) ObservePush(result string) {
	if m == nil {
		return
	}
	m.NotificationsPushed.WithLabelValues(result).Inc()
}

// ConnectionOpened and ConnectionClosed track the realtime gauge. Safe on a nil receiver.
func (m *ServerMetrics) ConnectionOpened() {
	if m != nil {
		m.RealtimeConnections.Inc()
	}
}

func (m *ServerMetrics) ConnectionClosed() {
	if m != nil {
		m.RealtimeConnections.Dec()
	}
}

// ObserveOutbox records one relayed outbox event. Safe on a nil receiver.
func (m *ServerMetrics) ObserveOutbox(result string) {
	if m != nil {
		m.OutboxPublished.WithLabelValues(result).Inc()
	}
}
