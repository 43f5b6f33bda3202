// Package metrics holds the Prometheus collectors for broadcasts, PDF
// rendering, subscriptions and HTTP traffic.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Broadcast outcomes.
const (
	StatusSuccess = "success"
	StatusNoData  = "no_data"
	StatusFailed  = "failed"
)

// Metrics is safe to use as a nil pointer; every Record method is then a no-op.
type Metrics struct {
	broadcastsTotal     *prometheus.CounterVec
	broadcastDuration   prometheus.Histogram
	emailsTotal         *prometheus.CounterVec
	renderDuration      prometheus.Histogram
	subscriptionsTotal  *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		broadcastsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coleta_broadcasts_total",
				Help: "Calendar broadcasts by outcome",
			},
			[]string{"status"},
		),
		broadcastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coleta_broadcast_duration_seconds",
			Help:    "Wall time of a whole calendar broadcast",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		emailsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coleta_emails_total",
				Help: "Calendar emails by delivery status",
			},
			[]string{"status"},
		),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coleta_pdf_render_duration_seconds",
			Help:    "Time spent printing the calendar PDF",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		subscriptionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coleta_subscriptions_total",
				Help: "Subscribe and unsubscribe operations by kind",
			},
			[]string{"kind"}, // new, reactivated, unsubscribed
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coleta_http_requests_total",
				Help: "HTTP requests by route pattern, method and status code",
			},
			[]string{"method", "route", "code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coleta_http_request_duration_seconds",
				Help:    "HTTP request latency by route pattern",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.broadcastsTotal,
		m.broadcastDuration,
		m.emailsTotal,
		m.renderDuration,
		m.subscriptionsTotal,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) RecordBroadcast(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.broadcastsTotal.WithLabelValues(status).Inc()
	m.broadcastDuration.Observe(d.Seconds())
}

// RecordEmails adds the outcome counts of one broadcast.
func (m *Metrics) RecordEmails(sent, failed int) {
	if m == nil {
		return
	}
	m.emailsTotal.WithLabelValues("sent").Add(float64(sent))
	m.emailsTotal.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) RecordRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordSubscription(kind string) {
	if m == nil {
		return
	}
	m.subscriptionsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
