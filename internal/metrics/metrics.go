package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation result labels.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics holds the counters updated by checklist operations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Operations     *prometheus.CounterVec
	CyclesRejected prometheus.Counter
	TogglesRefused prometheus.Counter
	Notifications  *prometheus.CounterVec
}

// New creates the checklist counters and registers them on reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskchecklist",
			Name:      "operations_total",
			Help:      "Checklist operations by name and result.",
		}, []string{"operation", "result"}),
		CyclesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taskchecklist",
			Name:      "cyclic_dependencies_rejected_total",
			Help:      "Dependency edges rejected because they would close a cycle.",
		}),
		TogglesRefused: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taskchecklist",
			Name:      "toggles_refused_total",
			Help:      "Completion toggles refused because the item was blocked.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskchecklist",
			Name:      "notifications_sent_total",
			Help:      "Notifications emitted by kind.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{
		m.Operations, m.CyclesRejected, m.TogglesRefused, m.Notifications,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering checklist metrics: %w", err)
		}
	}
	return m, nil
}

// ObserveOperation counts one operation with the given result label.
func (m *Metrics) ObserveOperation(op, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, result).Inc()
}

// CycleRejected counts a rejected dependency edge.
func (m *Metrics) CycleRejected() {
	if m == nil {
		return
	}
	m.CyclesRejected.Inc()
}

// ToggleRefused counts a refused completion toggle.
func (m *Metrics) ToggleRefused() {
	if m == nil {
		return
	}
	m.TogglesRefused.Inc()
}

// NotificationSent counts an emitted notification of the given kind.
func (m *Metrics) NotificationSent(kind string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind).Inc()
}
