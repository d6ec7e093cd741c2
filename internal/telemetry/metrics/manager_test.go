package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	promcl "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersOnGivenRegistry(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterLogMutations.WithLabelValues("water", "true").Inc()
	m.CounterLogMutations.WithLabelValues("water", "true").Inc()
	m.CounterStateSaves.WithLabelValues("ok").Inc()
	m.CounterRollovers.Inc()
	m.GaugeLoadedStates.Set(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterLogMutations.WithLabelValues("water", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterStateSaves.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRollovers))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GaugeLoadedStates))

	count, err := testutil.GatherAndCount(reg, "maxpot_test_server_day_rollovers")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewManager_SeparateRegistries(t *testing.T) {
	// a second manager on a fresh registry must not panic on duplicate registration
	assert.NotPanics(t, func() {
		NewTestManager()
		NewTestManager()
	})
}

func TestSetupPrometheus_ExtraCollectors(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_total", Help: "extra"})
	reg := SetupPrometheus(extra)
	extra.Inc()

	count, err := testutil.GatherAndCount(reg, "extra_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewManager_SaveDurationHistogram(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.HistogramSaveDuration.Observe(0.02)
	m.HistogramSaveDuration.Observe(0.4)

	gathered, err := reg.Gather()
	require.NoError(t, err)

	var found *promcl.MetricFamily
	for _, mf := range gathered {
		if mf.GetName() == "maxpot_test_server_state_save_duration_seconds" {
			found = mf
			break
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, promcl.MetricType_HISTOGRAM, found.GetType())
	require.Len(t, found.GetMetric(), 1)
	assert.Equal(t, uint64(2), found.GetMetric()[0].GetHistogram().GetSampleCount())
}
