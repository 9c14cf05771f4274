package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Metrics exposes application-level prometheus instruments.
type Metrics struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	draftsComputed    *prometheus.CounterVec
	settlementsClosed *prometheus.CounterVec
	confirmConflicts  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vecino_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vecino_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		draftsComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vecino_settlement_drafts_total",
			Help: "Settlement draft projections computed.",
		}, []string{"condominium"}),
		settlementsClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vecino_settlements_closed_total",
			Help: "Settlements confirmed and closed.",
		}, []string{"condominium"}),
		confirmConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vecino_settlement_confirm_conflicts_total",
			Help: "Confirm attempts rejected because the period was already closed.",
		}),
	}
}

func (m *Metrics) RecordDraft(condominiumID string) {
	if m == nil {
		return
	}
	m.draftsComputed.WithLabelValues(condominiumID).Inc()
}

func (m *Metrics) RecordClose(condominiumID string) {
	if m == nil {
		return
	}
	m.settlementsClosed.WithLabelValues(condominiumID).Inc()
}

func (m *Metrics) RecordConfirmConflict() {
	if m == nil {
		return
	}
	m.confirmConflicts.Inc()
}

// GinMiddleware records request counts and latencies per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
