package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/TheEntropyCollective/taskprocessor/metrics"
	"github.com/TheEntropyCollective/taskprocessor/taskprocessor"
)

func TestCollectorReportsQueueDepth(t *testing.T) {
	r := taskprocessor.NewRegistry()
	tp, err := r.Get("metrics-subject")
	require.NoError(t, err)
	defer tp.Unreference()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, tp.Push(func(any) error {
		close(started)
		<-release
		return nil
	}, nil))
	<-started
	require.NoError(t, tp.Push(func(any) error { return nil }, nil))
	require.NoError(t, tp.Push(func(any) error { return nil }, nil))

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(metrics.NewCollector(r)))

	families, err := reg.Gather()
	require.NoError(t, err)

	var foundDepth, foundTotal bool
	for _, mf := range families {
		switch mf.GetName() {
		case "taskprocessor_queue_depth":
			require.Len(t, mf.Metric, 1)
			assertLabel(t, mf.Metric[0], "processor", "metrics-subject")
			require.Equal(t, float64(2), mf.Metric[0].GetGauge().GetValue())
			foundDepth = true
		case "taskprocessor_queued_tasks_total":
			require.Equal(t, float64(2), mf.Metric[0].GetGauge().GetValue())
			foundTotal = true
		}
	}
	require.True(t, foundDepth, "taskprocessor_queue_depth not reported")
	require.True(t, foundTotal, "taskprocessor_queued_tasks_total not reported")

	close(release)
}

func assertLabel(t *testing.T, m *dto.Metric, name, value string) {
	t.Helper()
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			require.Equal(t, value, lp.GetValue())
			return
		}
	}
	t.Fatalf("label %q not found", name)
}
