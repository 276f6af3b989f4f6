// Package metrics exposes Prometheus counters for the fulfillment endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fulfillment_feed"

// Registry holds the feed's collectors on a private Prometheus registry
type Registry struct {
	reg *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	OrdersExported  prometheus.Counter
	ExportPages     prometheus.Histogram
	Shipments       *prometheus.CounterVec
}

// NewRegistry creates and registers the collectors, plus Go runtime and process collectors
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Fulfillment requests by action and HTTP status.",
		}, []string{"action", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Fulfillment request latency by action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		OrdersExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_exported_total",
			Help:      "Orders written to export documents.",
		}),
		ExportPages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_total_pages",
			Help:      "Total page count reported by export responses.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		Shipments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipments_total",
			Help:      "Shipment notifications by outcome.",
		}, []string{"outcome"}),
	}

	r.reg.MustRegister(
		r.Requests,
		r.RequestDuration,
		r.OrdersExported,
		r.ExportPages,
		r.Shipments,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Middleware counts requests by their action parameter. Unsupported actions share
// the "unknown" label.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		action := c.Query("action")
		if action == "" {
			action = c.PostForm("action")
		}
		switch action {
		case "export", "shipnotify":
		case "":
			action = "none"
		default:
			action = "unknown"
		}
		r.Requests.WithLabelValues(action, strconv.Itoa(c.Writer.Status())).Inc()
		r.RequestDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}
}

// ObserveExport records one served export page
func (r *Registry) ObserveExport(orders, totalPages int) {
	if r == nil {
		return
	}
	r.OrdersExported.Add(float64(orders))
	r.ExportPages.Observe(float64(totalPages))
}

// ObserveShipment records a shipment notification outcome, e.g. "applied" or "not_found"
func (r *Registry) ObserveShipment(outcome string) {
	if r == nil {
		return
	}
	r.Shipments.WithLabelValues(outcome).Inc()
}
