package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics метрики запросов к удалённому API
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// NewMetrics регистрирует коллекторы в registry
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meeting_bot_api_request_duration_seconds",
			Help:    "Duration of schedule API requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meeting_bot_api_requests_total",
			Help: "Total number of schedule API requests",
		}, []string{"method", "endpoint", "status"}),
	}
	if registry != nil {
		registry.MustRegister(m.requestDuration, m.requestTotal)
	}
	return m
}

// Observe записывает один запрос; status 0 означает транспортную ошибку
func (m *Metrics) Observe(method, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestDuration.WithLabelValues(method, endpoint, label).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, endpoint, label).Inc()
}
