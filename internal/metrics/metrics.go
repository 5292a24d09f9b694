// metrics — Prometheus-метрики HTTP-слоя auth-gateway.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector собирает метрики обработки запросов.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewCollector создаёт Collector и регистрирует метрики в реестре.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_gateway_requests_total",
			Help: "Количество HTTP-запросов по пути и статусу ответа.",
		}, []string{"path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auth_gateway_request_duration_seconds",
			Help:    "Длительность обработки HTTP-запроса (секунды).",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
	}

	reg.MustRegister(c.requests, c.latency)

	return c
}

// RecordRequest фиксирует завершённый запрос.
func (c *Collector) RecordRequest(path string, status int, dur time.Duration) {
	c.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(path).Observe(dur.Seconds())
}
