package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveOperation("add_item", ResultOK)
	m.ObserveOperation("add_item", ResultOK)
	m.CycleRejected()
	m.ToggleRefused()
	m.NotificationSent("unblocked")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("add_item", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesRejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TogglesRefused))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("unblocked")))
}

func TestNew_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("toggle_item", ResultError)
		m.CycleRejected()
		m.ToggleRefused()
		m.NotificationSent("assigned")
	})
}
