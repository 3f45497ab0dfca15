package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	prometheusdriver "github.com/mqttflow/mqttflow/internal/metrics/driver/prometheus"
	"github.com/mqttflow/mqttflow/pkg/metrics"
)

func newTestMetrics(t *testing.T) (*Metrics, metrics.Provider) {
	t.Helper()
	provider, err := prometheusdriver.NewProvider(prometheusdriver.Options{Namespace: "test"})
	require.NoError(t, err)
	m, err := New(provider)
	require.NoError(t, err)
	return m, provider
}

func TestMetrics_TaskDispatchedIncrementsByQueue(t *testing.T) {
	m, provider := newTestMetrics(t)

	m.TaskDispatched("q1")
	m.TaskDispatched("q1")
	m.TaskDispatched("q2")

	families, err := provider.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if f.Name == "test_mqttflow_task_dispatched_total" {
			found = true
			require.Len(t, f.Metrics, 2)
		}
	}
	require.True(t, found, "expected test_mqttflow_task_dispatched_total family")
}

func TestMetrics_SetQueueDepth(t *testing.T) {
	m, _ := newTestMetrics(t)
	m.SetQueueDepth("q1", 7)
}

func TestMetrics_NilReceiverIsNoOp(t *testing.T) {
	var m *Metrics
	m.TaskDispatched("q")
	m.TaskDropped("q")
	m.SetQueueDepth("q", 1)
	require.Nil(t, m.Handler())
}

func TestMetrics_HandlerNotNil(t *testing.T) {
	m, _ := newTestMetrics(t)
	require.NotNil(t, m.Handler())
}
