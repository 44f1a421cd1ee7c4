// Package metrics exposes Prometheus counters for the HTTP layer and the
// social graph operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the application layer reports domain events to.
type Recorder interface {
	RecordSync(created bool)
	RecordFollowToggle(action string)
	RecordNotificationPublish(ok bool)
}

// Collector is the Prometheus-backed Recorder plus HTTP instrumentation.
type Collector struct {
	registry      *prometheus.Registry
	syncs         *prometheus.CounterVec
	followToggles *prometheus.CounterVec
	publishes     *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		registry: reg,
		syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_user_sync_total",
			Help: "User sync calls by outcome",
		}, []string{"outcome"}),
		followToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_follow_toggle_total",
			Help: "Follow toggles by resulting action",
		}, []string{"action"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_notification_publish_total",
			Help: "Notification events published to the broker",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "social_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(c.syncs, c.followToggles, c.publishes, c.httpRequests, c.httpLatency)
	return c
}

func (c *Collector) RecordSync(created bool) {
	outcome := "existing"
	if created {
		outcome = "created"
	}
	c.syncs.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordFollowToggle(action string) {
	c.followToggles.WithLabelValues(action).Inc()
}

func (c *Collector) RecordNotificationPublish(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	c.publishes.WithLabelValues(result).Inc()
}

func (c *Collector) RecordHTTP(route, method string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordSync(bool)                {}
func (Noop) RecordFollowToggle(string)      {}
func (Noop) RecordNotificationPublish(bool) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Noop{}
)
