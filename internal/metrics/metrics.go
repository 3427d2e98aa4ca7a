// Package metrics holds the prometheus collectors for the pantry core. All
// methods are safe to call on a nil *Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry *prometheus.Registry

	eventsPublished *prometheus.CounterVec
	handlerFailures *prometheus.CounterVec
	shoppingBuilds  prometheus.Counter
	bufferLength    prometheus.Gauge
	lastAlertID     prometheus.Gauge
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pantry",
			Name:      "events_published_total",
			Help:      "Domain events published on the event bus.",
		}, []string{"kind"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pantry",
			Name:      "event_handler_failures_total",
			Help:      "Event handlers that returned an error or panicked.",
		}, []string{"kind"}),
		shoppingBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pantry",
			Name:      "shopping_list_builds_total",
			Help:      "Shopping list aggregations computed.",
		}),
		bufferLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pantry",
			Name:      "alert_buffer_length",
			Help:      "Alerts currently retained in the alert buffer.",
		}),
		lastAlertID: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pantry",
			Name:      "alert_buffer_last_id",
			Help:      "Highest id assigned by the alert buffer.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.eventsPublished,
		m.handlerFailures,
		m.shoppingBuilds,
		m.bufferLength,
		m.lastAlertID,
	)
	return m
}

func (m *Metrics) EventPublished(kind string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(kind).Inc()
}

func (m *Metrics) HandlerFailed(kind string) {
	if m == nil {
		return
	}
	m.handlerFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ShoppingListBuilt() {
	if m == nil {
		return
	}
	m.shoppingBuilds.Inc()
}

func (m *Metrics) AlertBuffered(length int, lastID int64) {
	if m == nil {
		return
	}
	m.bufferLength.Set(float64(length))
	m.lastAlertID.Set(float64(lastID))
}
