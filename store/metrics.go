package store

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus.
// See pkg/prometheus for a ready implementation.
type MetricsProvider interface {
	// OnActionReceived is called when a raw document arrives from a watcher.
	OnActionReceived()

	// OnDispatchSuccess is called after an action has been reduced.
	OnDispatchSuccess(actionType string, duration time.Duration)

	// OnDispatchFailure is called when an action could not be applied.
	// Stage is "decode" (actionType is empty) or "pipeline".
	OnDispatchFailure(actionType, stage string, duration time.Duration)

	// OnSubscribersChanged is called with the subscriber count after every
	// Subscribe and unsubscribe.
	OnSubscribersChanged(count int)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnActionReceived()                              {}
func (NoOpMetricsProvider) OnDispatchSuccess(_ string, _ time.Duration)    {}
func (NoOpMetricsProvider) OnDispatchFailure(_, _ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnSubscribersChanged(_ int)                     {}
