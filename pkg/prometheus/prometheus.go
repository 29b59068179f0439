// Package prometheus provides a store.MetricsProvider backed by Prometheus
// collectors.
//
//	provider := prometheus.New("todo")
//	prom.MustRegister(provider.Collectors()...)
//	st := store.New(todo.Reducer).Metrics(provider)
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/flip/store"
)

// Provider records store activity in Prometheus collectors.
type Provider struct {
	received    prometheus.Counter
	dispatched  *prometheus.CounterVec
	failed      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	subscribers prometheus.Gauge
}

var _ store.MetricsProvider = (*Provider)(nil)

// New creates a Provider whose metric names are prefixed with namespace.
// The collectors are not registered; see Collectors and Register.
func New(namespace string) *Provider {
	return &Provider{
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "documents_received_total",
			Help:      "Raw action documents received from watchers.",
		}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "actions_dispatched_total",
			Help:      "Actions reduced into the store, by action type.",
		}, []string{"type"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "dispatch_failures_total",
			Help:      "Actions that could not be applied, by action type and stage.",
		}, []string{"type", "stage"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent dispatching an action, by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "subscribers",
			Help:      "Current number of store subscribers.",
		}),
	}
}

// Collectors returns every collector owned by the provider.
func (p *Provider) Collectors() []prometheus.Collector {
	return []prometheus.Collector{p.received, p.dispatched, p.failed, p.duration, p.subscribers}
}

// Register registers the provider's collectors with reg.
func (p *Provider) Register(reg prometheus.Registerer) error {
	for _, c := range p.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// OnActionReceived counts a document arriving from a watcher.
func (p *Provider) OnActionReceived() {
	p.received.Inc()
}

// OnDispatchSuccess counts a reduced action and records its duration.
func (p *Provider) OnDispatchSuccess(actionType string, duration time.Duration) {
	p.dispatched.WithLabelValues(actionType).Inc()
	p.duration.WithLabelValues("success").Observe(duration.Seconds())
}

// OnDispatchFailure counts a rejected action by type and stage and records
// its duration.
func (p *Provider) OnDispatchFailure(actionType, stage string, duration time.Duration) {
	p.failed.WithLabelValues(actionType, stage).Inc()
	p.duration.WithLabelValues("failure").Observe(duration.Seconds())
}

// OnSubscribersChanged sets the subscriber gauge.
func (p *Provider) OnSubscribersChanged(count int) {
	p.subscribers.Set(float64(count))
}
